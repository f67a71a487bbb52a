package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Analysis is whatever the external vision service reports about an
// upload. The core never interprets it beyond logging.
type Analysis struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	NSFW        bool     `json:"nsfw"`
}

// Analyzer asks an external vision API about uploaded media.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte, contentType string) (*Analysis, error)
}

// HTTPAnalyzer posts raw media bytes to a configured endpoint.
type HTTPAnalyzer struct {
	url    string
	client *http.Client
}

func NewHTTPAnalyzer(url string) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, data []byte, contentType string) (*Analysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned %s", resp.Status)
	}

	var out Analysis
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
