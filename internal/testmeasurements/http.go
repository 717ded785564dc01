package testmeasurements

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// submitSingle posts one measurement to /classify and returns the result.
func submitSingle(ctx context.Context, client *http.Client, baseURL string, m Measurement) (Response, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling measurement: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("submitting measurement: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("decoding response: %w", err)
	}
	return out, nil
}

// batchEnvelope mirrors the batch endpoint's request and response shapes.
type batchEnvelope struct {
	Items []Measurement `json:"items"`
}

type batchResult struct {
	Results []struct {
		Result *Response `json:"result"`
		Error  string    `json:"error"`
	} `json:"results"`
	Failed int `json:"failed"`
}

// submitBatch posts a slice of measurements to /classify/batch. The
// returned slice is aligned with the input; failed items carry a nil
// Response.
func submitBatch(ctx context.Context, client *http.Client, baseURL string, items []Measurement) ([]*Response, error) {
	payload, err := json.Marshal(batchEnvelope{Items: items})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/classify/batch", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var out batchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding batch response: %w", err)
	}
	if len(out.Results) != len(items) {
		return nil, fmt.Errorf("batch returned %d results for %d items", len(out.Results), len(items))
	}

	results := make([]*Response, len(items))
	for i, r := range out.Results {
		results[i] = r.Result
	}
	return results, nil
}
