package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maheshrc27/socialflow/internal/models"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const youtubeCategoryPeopleBlogs = "22"

// YoutubeAdapter uploads the post's first media URL as a video.
type YoutubeAdapter struct {
	client   *http.Client
	endpoint string
}

// NewYoutubeAdapter builds an adapter; endpoint overrides the API base URL when non-empty.
func NewYoutubeAdapter(client *http.Client, endpoint string) *YoutubeAdapter {
	return &YoutubeAdapter{client: defaultClient(client), endpoint: endpoint}
}

func (a *YoutubeAdapter) Publish(ctx context.Context, creds Credentials, post *models.Post) (string, error) {
	token, err := accessToken(creds)
	if err != nil {
		return "", err
	}
	if len(post.MediaURLs) == 0 {
		return "", ErrNoMedia
	}

	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, a.client)
	opts := []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(oauthCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))),
	}
	if a.endpoint != "" {
		opts = append(opts, option.WithEndpoint(a.endpoint))
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, post.MediaURLs[0], nil)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading video: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("error downloading video: unexpected status %d", resp.StatusCode)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       videoTitle(post.Content),
			Description: post.Content,
			Tags:        trimHashes(post.Hashtags),
			CategoryId:  youtubeCategoryPeopleBlogs,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "public",
		},
	}

	uploaded, err := service.Videos.Insert([]string{"snippet", "status"}, video).Media(resp.Body).Context(ctx).Do()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return uploaded.Id, nil
}

// videoTitle is the first line of content, capped at YouTube's 100 character limit.
func videoTitle(content string) string {
	title, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	if title == "" {
		title = "Untitled"
	}
	return truncate(title, 100)
}

func trimHashes(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimPrefix(t, "#"); t != "" {
			out = append(out, t)
		}
	}
	return out
}
