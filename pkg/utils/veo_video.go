package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultVeoBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// VeoVideoClient starts video generation jobs against the Veo long-running
// prediction endpoint and resolves operation handles by name. The genai SDK
// does not cover the video surface, so this speaks the REST API directly.
type VeoVideoClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewVeoVideoClient(apiKey, model string) *VeoVideoClient {
	if model == "" {
		model = "veo-2.0-generate-001"
	}
	return &VeoVideoClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultVeoBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type veoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

func (c *VeoVideoClient) Complete(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	body := map[string]any{
		"instances": []map[string]any{
			{"prompt": req.Prompt},
		},
		"parameters": map[string]any{
			"aspectRatio":     req.AspectRatio,
			"durationSeconds": req.DurationSeconds,
		},
	}

	url := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, c.model)
	var op veoOperation
	if err := c.do(ctx, http.MethodPost, url, body, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, errors.New("veo returned no operation name")
	}

	return c.fromOperation(&op)
}

func (c *VeoVideoClient) PollOperation(ctx context.Context, operationID string) (*GenerationResult, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, operationID)
	var op veoOperation
	if err := c.do(ctx, http.MethodGet, url, nil, &op); err != nil {
		return nil, err
	}
	return c.fromOperation(&op)
}

func (c *VeoVideoClient) fromOperation(op *veoOperation) (*GenerationResult, error) {
	if op.Error != nil {
		return nil, fmt.Errorf("veo operation failed: %s", op.Error.Message)
	}
	if !op.Done {
		return &GenerationResult{OperationID: op.Name}, nil
	}

	if op.Response == nil || len(op.Response.GenerateVideoResponse.GeneratedSamples) == 0 {
		return nil, errors.New("veo operation finished without a video")
	}
	return &GenerationResult{
		Done:        true,
		ArtifactURL: op.Response.GenerateVideoResponse.GeneratedSamples[0].Video.URI,
	}, nil
}

func (c *VeoVideoClient) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Do not echo the response body upward; it can contain request URLs
		// with credentials attached.
		return fmt.Errorf("veo request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
