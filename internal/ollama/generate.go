package ollama

import (
	"context"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"proof/internal/models"
)

// generateBody is the wire form of a generate call. Sampling values are sent
// both at the top level and under "options", which is where the server reads
// them.
type generateBody struct {
	Model       string           `json:"model"`
	Prompt      string           `json:"prompt"`
	Stream      bool             `json:"stream"`
	Temperature *float64         `json:"temperature,omitempty"`
	NumCtx      *uint32          `json:"num_ctx,omitempty"`
	System      *string          `json:"system,omitempty"`
	Options     *generateOptions `json:"options,omitempty"`
}

type generateOptions struct {
	Temperature *float64 `json:"temperature,omitempty"`
	NumCtx      *uint32  `json:"num_ctx,omitempty"`
}

func newGenerateBody(r models.GenerationRequest) generateBody {
	body := generateBody{
		Model:       r.Model,
		Prompt:      r.Prompt,
		Stream:      r.Stream,
		Temperature: r.Temperature,
		NumCtx:      r.ContextLength,
		System:      r.System,
	}
	if r.Temperature != nil || r.ContextLength != nil {
		body.Options = &generateOptions{Temperature: r.Temperature, NumCtx: r.ContextLength}
	}
	return body
}

// GenerateOnce sends r with streaming disabled and returns the full response
// text, or "" when the reply has no string "response" field. A reply that is
// not JSON is an error.
func (c *Client) GenerateOnce(ctx context.Context, r models.GenerationRequest) (string, error) {
	r.Stream = false
	resp, err := c.postGenerate(ctx, r)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &HTTPError{Op: "generate", URL: resp.Request.URL.String(), Err: err}
	}
	if !gjson.ValidBytes(data) {
		return "", &HTTPError{Op: "generate", URL: resp.Request.URL.String(), StatusCode: resp.StatusCode, Body: invalidJSONBody(data)}
	}
	if text := gjson.GetBytes(data, "response"); text.Type == gjson.String {
		return text.String(), nil
	}
	return "", nil
}

// GenerateStreaming sends r with streaming enabled and relays every decoded
// token and the final done marker to l, in arrival order. Malformed lines are
// skipped. It returns after the done marker or when the server closes the
// stream.
func (c *Client) GenerateStreaming(ctx context.Context, r models.GenerationRequest, l StreamListener) error {
	r.Stream = true
	resp, err := c.postGenerate(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Headers were fine; a failure here is transport, not status.
	if err := DecodeStream(resp.Body, l); err != nil {
		return &HTTPError{Op: "generate", URL: resp.Request.URL.String(), Err: err}
	}
	return nil
}

func (c *Client) postGenerate(ctx context.Context, r models.GenerationRequest) (*http.Response, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, generatePath, newGenerateBody(r))
	if err != nil {
		return nil, &HTTPError{Op: "generate", URL: c.baseURL + generatePath, Err: err}
	}
	return c.send("generate", req)
}
