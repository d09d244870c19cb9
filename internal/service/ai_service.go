package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/maheshrc27/socialflow/internal/ai"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/maheshrc27/socialflow/internal/transfer"
	"github.com/tidwall/gjson"
)

var ErrAIDisabled = errors.New("AI provider is not configured")

var (
	aiPlatforms    = []string{"twitter", "facebook", "instagram", "linkedin", "tiktok", "youtube", "pinterest", "snapchat"}
	aiContentTypes = []string{"text", "image_caption", "video_description", "article", "poll", "story", "reel", "carousel", "blog_post", "link_preview"}
	aiTones        = []string{"professional", "casual", "humorous", "inspirational", "informative", "promotional", "conversational", "neutral"}
	aiLengths      = []string{"short", "medium", "long"}
)

const (
	maxAIContentLength = 2000
	systemPrompt       = "You are a social media copywriter. Always answer with a single JSON object and nothing else."
)

type AIService interface {
	Generate(ctx context.Context, req transfer.GenerateContentRequest) (*transfer.GeneratedContent, error)
	Improve(ctx context.Context, req transfer.ImproveContentRequest) (*transfer.ImprovedContent, error)
	Ideas(ctx context.Context, platform, topic string, count int) (*transfer.ContentIdeas, error)
	Hashtags(ctx context.Context, content, platform string, count int) (*transfer.HashtagSuggestions, error)
}

type aiService struct {
	provider ai.Provider
}

// NewAIService returns a service that fails with ErrAIDisabled when provider is nil.
func NewAIService(provider ai.Provider) AIService {
	return &aiService{provider: provider}
}

// oneOf lowercases v, applies def when empty, and checks it against allowed.
func oneOf(field, v, def string, allowed []string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		v = def
	}
	if !slices.Contains(allowed, v) {
		return "", apperror.Invalid("unsupported %s, must be one of: %s", field, strings.Join(allowed, ", "))
	}
	return v, nil
}

func boundedText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if n := utf8.RuneCountInString(v); n == 0 || n > maxAIContentLength {
		return "", apperror.Invalid("%s must be between 1 and %d characters", field, maxAIContentLength)
	}
	return v, nil
}

func boundedCount(count, def, max int) (int, error) {
	if count == 0 {
		return def, nil
	}
	if count < 1 || count > max {
		return 0, apperror.Invalid("count must be between 1 and %d", max)
	}
	return count, nil
}

func (s *aiService) complete(ctx context.Context, prompt string) (gjson.Result, error) {
	if s.provider == nil {
		return gjson.Result{}, ErrAIDisabled
	}
	out, err := s.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(out) {
		return gjson.Result{}, &apperror.AdapterError{Platform: "openai", Err: errors.New("completion is not valid JSON")}
	}
	return gjson.Parse(out), nil
}

func stringList(r gjson.Result) []string {
	var out []string
	for _, v := range r.Array() {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (s *aiService) Generate(ctx context.Context, req transfer.GenerateContentRequest) (*transfer.GeneratedContent, error) {
	platform, err := oneOf("platform", req.Platform, "", aiPlatforms)
	if err != nil {
		return nil, err
	}
	contentType, err := oneOf("content type", req.ContentType, "", aiContentTypes)
	if err != nil {
		return nil, err
	}
	tone, err := oneOf("tone", req.Tone, "neutral", aiTones)
	if err != nil {
		return nil, err
	}
	length, err := oneOf("length", req.Length, "medium", aiLengths)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apperror.Invalid("topic is required")
	}
	hashtags := req.IncludeHashtags == nil || *req.IncludeHashtags
	emoji := req.IncludeEmoji == nil || *req.IncludeEmoji

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s %s post for %s about %q in a %s tone.\n", length, contentType, platform, topic, tone)
	if len(req.Keywords) > 0 {
		fmt.Fprintf(&b, "Include these keywords: %s.\n", strings.Join(req.Keywords, ", "))
	}
	if emoji {
		b.WriteString("Use a few fitting emojis.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}
	b.WriteString(`Respond as {"content": string, "hashtags": [string], "mentions": [string], "improvement_tips": [string]}.`)
	if !hashtags {
		b.WriteString(" Leave hashtags empty.")
	}

	res, err := s.complete(ctx, b.String())
	if err != nil {
		return nil, err
	}
	out := &transfer.GeneratedContent{
		Content:         res.Get("content").String(),
		Mentions:        stringList(res.Get("mentions")),
		ImprovementTips: stringList(res.Get("improvement_tips")),
	}
	if hashtags {
		out.Hashtags = normalizeTags(stringList(res.Get("hashtags")), "#")
	}
	if out.Content == "" {
		return nil, &apperror.AdapterError{Platform: "openai", Err: ai.ErrEmptyCompletion}
	}
	return out, nil
}

func (s *aiService) Improve(ctx context.Context, req transfer.ImproveContentRequest) (*transfer.ImprovedContent, error) {
	content, err := boundedText("content", req.Content)
	if err != nil {
		return nil, err
	}
	platform, err := oneOf("platform", req.Platform, "", aiPlatforms)
	if err != nil {
		return nil, err
	}
	aspect := strings.TrimSpace(req.Aspect)
	if aspect == "" {
		return nil, apperror.Invalid("aspect is required")
	}

	prompt := fmt.Sprintf("Improve the %s of this %s post:\n%s\n"+
		`Respond as {"improved_content": string, "changes_made": [string], "reasoning": string}.`,
		aspect, platform, content)
	res, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &transfer.ImprovedContent{
		OriginalContent: content,
		ImprovedContent: res.Get("improved_content").String(),
		ChangesMade:     stringList(res.Get("changes_made")),
		Reasoning:       res.Get("reasoning").String(),
	}, nil
}

func (s *aiService) Ideas(ctx context.Context, platform, topic string, count int) (*transfer.ContentIdeas, error) {
	platform, err := oneOf("platform", platform, "", aiPlatforms)
	if err != nil {
		return nil, err
	}
	count, err = boundedCount(count, 5, 20)
	if err != nil {
		return nil, err
	}

	subject := "trending subjects"
	if topic = strings.TrimSpace(topic); topic != "" {
		subject = fmt.Sprintf("%q", topic)
	}
	prompt := fmt.Sprintf("Suggest %d %s post ideas about %s. "+
		`Respond as {"ideas": [{"title": string, "description": string, "hashtags": [string], `+
		`"best_time_to_post": string, "content_type": string, "estimated_engagement": "high"|"medium"|"low"}]}.`,
		count, platform, subject)
	res, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	out := &transfer.ContentIdeas{Ideas: []transfer.ContentIdea{}}
	for _, idea := range res.Get("ideas").Array() {
		if len(out.Ideas) == count {
			break
		}
		out.Ideas = append(out.Ideas, transfer.ContentIdea{
			Title:               idea.Get("title").String(),
			Description:         idea.Get("description").String(),
			Hashtags:            normalizeTags(stringList(idea.Get("hashtags")), "#"),
			BestTimeToPost:      idea.Get("best_time_to_post").String(),
			ContentType:         idea.Get("content_type").String(),
			EstimatedEngagement: idea.Get("estimated_engagement").String(),
		})
	}
	return out, nil
}

func (s *aiService) Hashtags(ctx context.Context, content, platform string, count int) (*transfer.HashtagSuggestions, error) {
	content, err := boundedText("content", content)
	if err != nil {
		return nil, err
	}
	platform, err = oneOf("platform", platform, "", aiPlatforms)
	if err != nil {
		return nil, err
	}
	count, err = boundedCount(count, 10, 30)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Suggest %d %s hashtags for this post:\n%s\n"+
		`Respond as {"hashtags": [{"tag": string, "engagement_potential": "high"|"medium"|"low"}]}.`,
		count, platform, content)
	res, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	out := &transfer.HashtagSuggestions{Hashtags: []string{}, EngagementPotential: map[string]string{}}
	for _, h := range res.Get("hashtags").Array() {
		if len(out.Hashtags) == count {
			break
		}
		tag := strings.TrimPrefix(strings.TrimSpace(h.Get("tag").String()), "#")
		if tag == "" {
			continue
		}
		out.Hashtags = append(out.Hashtags, tag)
		if p := h.Get("engagement_potential").String(); p != "" {
			out.EngagementPotential[tag] = p
		}
	}
	return out, nil
}
