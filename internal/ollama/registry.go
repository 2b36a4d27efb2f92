package ollama

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"proof/internal/models"
)

type modelRef struct {
	Model string `json:"model"`
	// Stream is only sent by PullModelWithProgress; the server streams by default.
	Stream *bool `json:"stream,omitempty"`
}

// ListModels returns the models known to the server in the order it lists
// them. A JSON reply without a "models" array yields an empty slice; a reply
// that is not JSON at all is an error.
func (c *Client) ListModels(ctx context.Context) ([]models.ModelTag, error) {
	req, err := c.newJSONRequest(ctx, http.MethodGet, tagsPath, nil)
	if err != nil {
		return nil, &HTTPError{Op: "list", URL: c.baseURL + tagsPath, Err: err}
	}
	resp, err := c.send("list", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{Op: "list", URL: req.URL.String(), Err: err}
	}

	if !gjson.ValidBytes(data) {
		return nil, &HTTPError{Op: "list", URL: req.URL.String(), StatusCode: resp.StatusCode, Body: invalidJSONBody(data)}
	}
	tags := []models.ModelTag{}
	list := gjson.GetBytes(data, "models")
	if !list.IsArray() {
		return tags, nil
	}
	list.ForEach(func(_, entry gjson.Result) bool {
		if name := entry.Get("name"); name.Type == gjson.String {
			tags = append(tags, models.ModelTag{Name: name.String()})
		}
		return true
	})
	return tags, nil
}

// PullModel asks the server to download name. It returns once the server has
// accepted the request; download progress is neither awaited nor reported.
func (c *Client) PullModel(ctx context.Context, name string) error {
	return c.modelCall(ctx, "pull", http.MethodPost, pullPath, name)
}

// DeleteModel removes name from the server.
func (c *Client) DeleteModel(ctx context.Context, name string) error {
	return c.modelCall(ctx, "delete", http.MethodDelete, deletePath, name)
}

func (c *Client) modelCall(ctx context.Context, op, method, path, name string) error {
	req, err := c.newJSONRequest(ctx, method, path, modelRef{Model: name})
	if err != nil {
		return &HTTPError{Op: op, URL: c.baseURL + path, Err: err}
	}
	resp, err := c.send(op, req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// PullModelWithProgress pulls name and passes every progress update the server
// streams back to fn. It returns when the server reports success, reports an
// error, or closes the stream.
func (c *Client) PullModelWithProgress(ctx context.Context, name string, fn func(models.PullProgress)) error {
	stream := true
	req, err := c.newJSONRequest(ctx, http.MethodPost, pullPath, modelRef{Model: name, Stream: &stream})
	if err != nil {
		return &HTTPError{Op: "pull", URL: c.baseURL + pullPath, Err: err}
	}
	resp, err := c.send("pull", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var (
		dec     LineDecoder
		buf     = make([]byte, readChunkSize)
		failure error
	)
	handle := func(line []byte) bool {
		p, msg, ok := parseProgress(name, line)
		if !ok {
			return false
		}
		if msg != "" {
			failure = &HTTPError{Op: "pull", URL: req.URL.String(), Body: msg}
			return true
		}
		if fn != nil {
			fn(p)
		}
		return p.Status == "success"
	}

	for {
		n, rerr := resp.Body.Read(buf)
		for _, line := range dec.Feed(buf[:n]) {
			if handle(line) {
				return failure
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				if rest := dec.Flush(); rest != nil {
					handle(rest)
				}
				return failure
			}
			return &HTTPError{Op: "pull", URL: req.URL.String(), Err: rerr}
		}
	}
}

// parseProgress decodes one pull progress line. errMsg is set when the server
// reported a failure in-stream.
func parseProgress(model string, line []byte) (p models.PullProgress, errMsg string, ok bool) {
	if !gjson.ValidBytes(line) {
		return p, "", false
	}
	res := gjson.ParseBytes(line)
	if !res.IsObject() {
		return p, "", false
	}
	if e := res.Get("error"); e.Exists() {
		msg := e.String()
		if msg == "" {
			msg = fmt.Sprintf("pull %s failed", model)
		}
		return p, msg, true
	}
	return models.PullProgress{
		Model:     model,
		Status:    res.Get("status").String(),
		Digest:    res.Get("digest").String(),
		Completed: res.Get("completed").Int(),
		Total:     res.Get("total").Int(),
	}, "", true
}
