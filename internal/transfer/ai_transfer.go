package transfer

type GenerateContentRequest struct {
	Platform        string   `json:"platform"`
	ContentType     string   `json:"content_type"`
	Topic           string   `json:"topic"`
	Tone            string   `json:"tone"`
	Keywords        []string `json:"keywords"`
	Length          string   `json:"length"`
	IncludeHashtags *bool    `json:"include_hashtags"`
	IncludeEmoji    *bool    `json:"include_emoji"`
}

type GeneratedContent struct {
	Content         string   `json:"content"`
	Hashtags        []string `json:"hashtags,omitempty"`
	Mentions        []string `json:"mentions,omitempty"`
	ImprovementTips []string `json:"improvement_tips,omitempty"`
}

type ImproveContentRequest struct {
	Content  string `json:"content"`
	Platform string `json:"platform"`
	Aspect   string `json:"aspect"`
}

type ImprovedContent struct {
	OriginalContent string   `json:"original_content"`
	ImprovedContent string   `json:"improved_content"`
	ChangesMade     []string `json:"changes_made"`
	Reasoning       string   `json:"reasoning"`
}

type ContentIdea struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Hashtags            []string `json:"hashtags,omitempty"`
	BestTimeToPost      string   `json:"best_time_to_post,omitempty"`
	ContentType         string   `json:"content_type"`
	EstimatedEngagement string   `json:"estimated_engagement,omitempty"`
}

type ContentIdeas struct {
	Ideas []ContentIdea `json:"ideas"`
}

type HashtagSuggestions struct {
	Hashtags            []string          `json:"hashtags"`
	EngagementPotential map[string]string `json:"engagement_potential"`
}

type MediaUpload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
