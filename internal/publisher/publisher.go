// Package publisher delivers posts to third-party platforms. Each platform
// type has one Adapter; the Registry picks the adapter by Platform.Type.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/models"
)

var (
	ErrMissingToken = errors.New("access_token credential is required")
	ErrNoMedia      = errors.New("post has no media_urls")
)

type Credentials map[string]string

// Adapter publishes one post and returns the platform's id for it.
type Adapter interface {
	Publish(ctx context.Context, creds Credentials, post *models.Post) (string, error)
}

type AdapterFunc func(ctx context.Context, creds Credentials, post *models.Post) (string, error)

func (f AdapterFunc) Publish(ctx context.Context, creds Credentials, post *models.Post) (string, error) {
	return f(ctx, creds, post)
}

type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// NewDefaultRegistry wires the adapters for every platform with a publishing integration.
func NewDefaultRegistry(client *http.Client) *Registry {
	r := NewRegistry()
	r.Register(models.PlatformInstagram, NewInstagramAdapter(client, ""))
	r.Register(models.PlatformTiktok, NewTiktokAdapter(client, ""))
	r.Register(models.PlatformYoutube, NewYoutubeAdapter(client, ""))
	return r
}

func (r *Registry) Register(platformType string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[strings.ToLower(platformType)] = a
}

func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Publish runs the adapter registered for platformType. Failures other than
// context errors come back wrapped in *apperror.AdapterError.
func (r *Registry) Publish(ctx context.Context, platformType string, creds Credentials, post *models.Post) (string, error) {
	r.mu.RLock()
	a, ok := r.adapters[strings.ToLower(platformType)]
	r.mu.RUnlock()
	if !ok {
		return "", &apperror.AdapterError{Platform: platformType, Err: apperror.ErrUnsupportedPlatform}
	}

	externalID, err := a.Publish(ctx, creds, post)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		var adapterErr *apperror.AdapterError
		if errors.As(err, &adapterErr) {
			return "", err
		}
		return "", &apperror.AdapterError{Platform: platformType, Err: err}
	}
	if externalID == "" {
		return "", &apperror.AdapterError{Platform: platformType, Err: errors.New("platform returned no id")}
	}
	return externalID, nil
}

func accessToken(creds Credentials) (string, error) {
	tok := creds["access_token"]
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}

// caption joins the post content with its hashtags the way platforms render them.
func caption(post *models.Post) string {
	var b strings.Builder
	b.WriteString(post.Content)
	for i, tag := range post.Hashtags {
		if i == 0 {
			b.WriteString("\n\n")
		} else {
			b.WriteByte(' ')
		}
		if !strings.HasPrefix(tag, "#") {
			b.WriteByte('#')
		}
		b.WriteString(tag)
	}
	return b.String()
}

func defaultClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: 60 * time.Second}
}

func statusError(platform string, code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	return &apperror.AdapterError{Platform: platform, Err: fmt.Errorf("status %d: %s", code, msg)}
}
