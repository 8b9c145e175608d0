package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fakenews/internal/classifier"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

var ErrEmptyResponse = errors.New("no classifications in response")

// HuggingFace calls a text-classification model on the HuggingFace
// Inference API.
type HuggingFace struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

func NewHuggingFace(baseURL, model, token string, timeout time.Duration) *HuggingFace {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HuggingFace{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HuggingFace) Predict(ctx context.Context, text string) (classifier.Distribution, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s", h.baseURL, h.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("API error: %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return parseResponse(raw)
}

// parseResponse accepts both the batched [[...]] and the flat [...] shapes
// the inference API returns for a single input.
func parseResponse(raw []byte) (classifier.Distribution, error) {
	var nested []classifier.Distribution
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 || len(nested[0]) == 0 {
			return nil, ErrEmptyResponse
		}
		return nested[0], nil
	}

	var flat classifier.Distribution
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(flat) == 0 {
		return nil, ErrEmptyResponse
	}
	return flat, nil
}

// HuggingFaceLoader returns a Loader for p. With warmup set, the loader runs
// one inference and fails the load if it errors.
func HuggingFaceLoader(p *HuggingFace, warmup bool, wrap func(classifier.Predictor) classifier.Predictor) Loader {
	return func(ctx context.Context) (classifier.Predictor, error) {
		if p.model == "" {
			return nil, errors.New("model name is required")
		}

		if warmup {
			if _, err := p.Predict(ctx, "warmup"); err != nil {
				return nil, fmt.Errorf("warmup: %w", err)
			}
		}

		if wrap != nil {
			return wrap(p), nil
		}
		return p, nil
	}
}
