// Package ai talks to an OpenAI-compatible chat completions API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maheshrc27/socialflow/internal/apperror"
	"github.com/tidwall/gjson"
)

const providerName = "openai"

var ErrEmptyCompletion = errors.New("provider returned an empty completion")

type Provider interface {
	// Complete returns the assistant message for prompt. The provider is
	// asked for a JSON object.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type OpenAI struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

func NewOpenAI(client *http.Client, baseURL, apiKey, model string) *OpenAI {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAI{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

func (o *OpenAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.7,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", &apperror.AdapterError{Platform: providerName, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &apperror.AdapterError{Platform: providerName, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		err = fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		slog.Info(err.Error())
		return "", &apperror.AdapterError{Platform: providerName, Err: err}
	}

	content := gjson.GetBytes(body, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return "", &apperror.AdapterError{Platform: providerName, Err: ErrEmptyCompletion}
	}
	return content, nil
}
