package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/cmdelgado/tip-distribution-service/dto"
)

// DocAnalysisClient talks to the document-layout analysis service that turns
// a report image into text lines and cell tables. The API is asynchronous:
// one submission, then a bounded polling loop against the operation URL the
// service hands back.
type DocAnalysisClient struct {
	baseURL      string
	apiKey       string
	pollInterval time.Duration
	maxAttempts  int
	httpClient   *http.Client
}

func NewDocAnalysisClient(baseURL, apiKey string, pollInterval time.Duration, maxAttempts int) *DocAnalysisClient {
	return &DocAnalysisClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// operationStatus mirrors the service's polling payload.
type operationStatus struct {
	Status string             `json:"status"`
	Error  string             `json:"error,omitempty"`
	Result *dto.AnalyzeResult `json:"analyze_result,omitempty"`
}

// Analyze submits the document and polls until the analysis reaches a
// terminal state or the attempt budget runs out.
func (c *DocAnalysisClient) Analyze(ctx context.Context, data []byte, contentType string) (*dto.AnalyzeResult, error) {
	operationURL, err := c.submit(ctx, data, contentType)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}

		status, err := c.poll(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "succeeded":
			if status.Result == nil {
				return nil, fmt.Errorf("analysis succeeded but returned no result")
			}
			log.Printf("Document analysis succeeded after %d poll(s): %d table(s), %d chars of text",
				attempt, len(status.Result.Tables), len(status.Result.Content))
			return status.Result, nil
		case "failed":
			return nil, fmt.Errorf("document analysis failed: %s", status.Error)
		}
	}

	return nil, fmt.Errorf("document analysis did not finish after %d polls", c.maxAttempts)
}

// submit POSTs the document bytes and returns the operation URL from the
// Operation-Location header.
func (c *DocAnalysisClient) submit(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit document for analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("analysis submission returned status %d: %s", resp.StatusCode, string(body))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("analysis submission returned no Operation-Location header")
	}
	return operationURL, nil
}

func (c *DocAnalysisClient) poll(ctx context.Context, operationURL string) (*operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poll request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll analysis operation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis poll returned status %d: %s", resp.StatusCode, string(body))
	}

	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode analysis status: %w", err)
	}
	return &status, nil
}
