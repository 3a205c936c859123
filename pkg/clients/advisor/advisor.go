package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/herdwise/internal/domain/models"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// FarmSnapshot is the slice of state handed to the model alongside a
// question. Transactions are deliberately excluded to keep financial detail
// out of the prompt.
type FarmSnapshot struct {
	Animals   []models.Animal        `json:"animals"`
	Inventory []models.InventoryItem `json:"inventory"`
	Tasks     []models.Task          `json:"tasks"`
}

// Client defines the advisory interface.
type Client interface {
	Advise(ctx context.Context, question string, snapshot FarmSnapshot) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured advisory client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Advise sends the farmer's question plus a state snapshot and returns the
// free-text advice.
func (c *anthropicClient) Advise(ctx context.Context, question string, snapshot FarmSnapshot) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	snapJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode farm snapshot: %w", err)
	}

	systemPrompt := fmt.Sprintf(`You are a livestock farm management advisor. The farmer's current records are below as JSON: their animals, inventory and tasks.

	%s

	Answer the farmer's question using this data where relevant. Be practical and concise. If the data does not cover the question, say so rather than inventing records.`, string(snapJSON))

	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  []message{{Role: "user", Content: question}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	return strings.TrimSpace(respBody.Content[0].Text), nil
}
