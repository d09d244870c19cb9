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

const instagramGraphURL = "https://graph.instagram.com/v21.0"

// InstagramAdapter publishes through the Instagram Graph API: one media
// container per image, a carousel container when there are several, then
// media_publish.
type InstagramAdapter struct {
	client  *http.Client
	baseURL string
}

func NewInstagramAdapter(client *http.Client, baseURL string) *InstagramAdapter {
	if baseURL == "" {
		baseURL = instagramGraphURL
	}
	return &InstagramAdapter{client: defaultClient(client), baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *InstagramAdapter) Publish(ctx context.Context, creds Credentials, post *models.Post) (string, error) {
	token, err := accessToken(creds)
	if err != nil {
		return "", err
	}
	if len(post.MediaURLs) == 0 {
		return "", ErrNoMedia
	}
	accountID := creds["account_id"]
	if accountID == "" {
		accountID = "me"
	}

	var containerID string
	if len(post.MediaURLs) == 1 {
		containerID, err = a.createContainer(ctx, accountID, mediaPayload(post.MediaURLs[0], token, map[string]any{
			"caption": caption(post),
		}))
		if err != nil {
			return "", err
		}
	} else {
		children := make([]string, 0, len(post.MediaURLs))
		for _, u := range post.MediaURLs {
			id, err := a.createContainer(ctx, accountID, mediaPayload(u, token, map[string]any{
				"is_carousel_item": true,
			}))
			if err != nil {
				return "", err
			}
			children = append(children, id)
		}
		containerID, err = a.createContainer(ctx, accountID, map[string]any{
			"media_type":   "CAROUSEL",
			"caption":      caption(post),
			"children":     strings.Join(children, ","),
			"access_token": token,
		})
		if err != nil {
			return "", err
		}
	}

	return a.post(ctx, fmt.Sprintf("%s/%s/media_publish", a.baseURL, accountID), map[string]any{
		"creation_id":  containerID,
		"access_token": token,
	})
}

func mediaPayload(mediaURL, token string, extra map[string]any) map[string]any {
	payload := map[string]any{"access_token": token}
	if isVideoURL(mediaURL) {
		payload["media_type"] = "REELS"
		payload["video_url"] = mediaURL
	} else {
		payload["image_url"] = mediaURL
	}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

func isVideoURL(u string) bool {
	u = strings.ToLower(u)
	return strings.HasSuffix(u, ".mp4") || strings.HasSuffix(u, ".mov")
}

func (a *InstagramAdapter) createContainer(ctx context.Context, accountID string, payload map[string]any) (string, error) {
	return a.post(ctx, fmt.Sprintf("%s/%s/media", a.baseURL, accountID), payload)
}

func (a *InstagramAdapter) post(ctx context.Context, url string, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var igErr transfer.InstagramErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&igErr)
		return "", statusError(models.PlatformInstagram, resp.StatusCode, igErr.Error.Message)
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("no media ID returned from Instagram")
	}
	return result.ID, nil
}
