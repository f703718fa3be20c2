package kb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// HTTPLookup queries a retrieval service that indexes the knowledge base.
type HTTPLookup struct {
	BaseURL string
	Client  *http.Client
}

func (l HTTPLookup) Lookup(ctx context.Context, text string) (string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	payload := struct {
		Query string `json:"query"`
	}{Query: text}
	b, _ := json.Marshal(payload)

	url := strings.TrimRight(l.BaseURL, "/") + "/lookup"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoSolution
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New("kb service error")
	}

	var r struct {
		Solution string `json:"solution"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if strings.TrimSpace(r.Solution) == "" {
		return "", ErrNoSolution
	}
	return r.Solution, nil
}
