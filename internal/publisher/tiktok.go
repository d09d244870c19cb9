package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maheshrc27/socialflow/internal/models"
	"github.com/maheshrc27/socialflow/internal/transfer"
)

const tiktokAPIURL = "https://open.tiktokapis.com/v2"

// TiktokAdapter uses the Content Posting API with PULL_FROM_URL sources.
// The returned id is TikTok's publish_id.
type TiktokAdapter struct {
	client  *http.Client
	baseURL string
}

func NewTiktokAdapter(client *http.Client, baseURL string) *TiktokAdapter {
	if baseURL == "" {
		baseURL = tiktokAPIURL
	}
	return &TiktokAdapter{client: defaultClient(client), baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *TiktokAdapter) Publish(ctx context.Context, creds Credentials, post *models.Post) (string, error) {
	token, err := accessToken(creds)
	if err != nil {
		return "", err
	}
	if len(post.MediaURLs) == 0 {
		return "", ErrNoMedia
	}

	privacy := creds["privacy_level"]
	if privacy == "" {
		privacy = "PUBLIC_TO_EVERYONE"
	}

	if isVideoURL(post.MediaURLs[0]) {
		return a.send(ctx, token, "/post/publish/video/init/", transfer.VideoUploadRequest{
			PostInfo: transfer.VideoPostInfo{
				Title:                 caption(post),
				PrivacyLevel:          privacy,
				VideoCoverTimestampMs: 1000,
			},
			SourceInfo: transfer.VideoSourceInfo{
				Source:   "PULL_FROM_URL",
				VideoURL: post.MediaURLs[0],
			},
		})
	}

	return a.send(ctx, token, "/post/publish/content/init/", transfer.PhotoUploadRequest{
		PostInfo: transfer.PhotoPostInfo{
			Title:        truncate(post.Content, 90),
			Description:  caption(post),
			PrivacyLevel: privacy,
			AutoAddMusic: true,
		},
		SourceInfo: transfer.PhotoSourceInfo{
			Source:      "PULL_FROM_URL",
			PhotoImages: post.MediaURLs,
		},
		PostMode:  "DIRECT_POST",
		MediaType: "PHOTO",
	})
}

func (a *TiktokAdapter) send(ctx context.Context, token, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	var result transfer.TikTokUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || (result.Error.Code != "" && result.Error.Code != "ok") {
		return "", statusError(models.PlatformTiktok, resp.StatusCode, result.Error.Message)
	}
	return result.Data.PublishID, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
