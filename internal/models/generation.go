package models

// GenerationRequest describes one generate call. Optional fields left nil are
// omitted from the request so the server applies its own defaults.
type GenerationRequest struct {
	Model         string   `json:"model"`
	Prompt        string   `json:"prompt"`
	Stream        bool     `json:"stream"`
	Temperature   *float64 `json:"temperature,omitempty"`
	ContextLength *uint32  `json:"context_length,omitempty"`
	System        *string  `json:"system,omitempty"`
}

// GenerationChunk is one increment of a streamed response.
type GenerationChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GenerateArgs is the argument object of the generate commands. NumCtx keeps
// the server's parameter name.
type GenerateArgs struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature,omitempty"`
	NumCtx      *uint32  `json:"num_ctx,omitempty"`
	System      *string  `json:"system,omitempty"`
	// StreamID is stamped on the token and done events of a streaming call.
	StreamID string `json:"streamId,omitempty"`
}

func (a GenerateArgs) Request(stream bool) GenerationRequest {
	return GenerationRequest{
		Model:         a.Model,
		Prompt:        a.Prompt,
		Stream:        stream,
		Temperature:   a.Temperature,
		ContextLength: a.NumCtx,
		System:        a.System,
	}
}
