package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vedantnaik09/ey-bpo/internal/models"
)

// OpenAIAnalyzer scores complaints through an OpenAI-compatible
// chat-completions gateway. Each capability is a single prompt/response
// round trip; callers handle fallback when a call errors.
type OpenAIAnalyzer struct {
	BaseURL string
	Model   string
	APIKey  string
	Client  *http.Client
}

const (
	sentimentPrompt = "You assess the sentiment of customer complaints. " +
		"Reply with only a float between 0 and 1: 0 is extremely negative, 0.5 neutral, 1 extremely positive."
	urgencyPrompt = "You assess the urgency of customer complaints. " +
		"Reply with only a float between 0 and 1: 0 is not urgent, 1 is extremely urgent (immediate impact, time-critical wording)."
	politenessPrompt = "You assess the politeness of customer complaints. " +
		"Reply with only a float between 0 and 1: 0 is extremely rude, 1 is extremely polite."
	categoryPrompt = "Classify the customer complaint into exactly one of: technical, billing, new_connection, bundle_offer. " +
		"Reply with only the label, or 'none' if no label fits."
)

func (a OpenAIAnalyzer) ScoreSignals(ctx context.Context, text string) (Signals, error) {
	sentiment, err := a.scoreOne(ctx, sentimentPrompt, text)
	if err != nil {
		return Signals{}, err
	}
	urgency, err := a.scoreOne(ctx, urgencyPrompt, text)
	if err != nil {
		return Signals{}, err
	}
	politeness, err := a.scoreOne(ctx, politenessPrompt, text)
	if err != nil {
		return Signals{}, err
	}
	return Signals{Sentiment: sentiment, Urgency: urgency, Politeness: politeness}, nil
}

func (a OpenAIAnalyzer) Categorize(ctx context.Context, text string) (models.Category, error) {
	reply, err := a.chat(ctx, categoryPrompt, text)
	if err != nil {
		return models.CategoryNone, err
	}
	switch models.Category(strings.ToLower(strings.TrimSpace(reply))) {
	case models.CategoryTechnical:
		return models.CategoryTechnical, nil
	case models.CategoryBilling:
		return models.CategoryBilling, nil
	case models.CategoryNewConnection:
		return models.CategoryNewConnection, nil
	case models.CategoryBundleOffer:
		return models.CategoryBundleOffer, nil
	}
	return models.CategoryNone, nil
}

// Similarity numbers the candidates and asks for a "count,index" reply:
// the count of candidates describing the same underlying issue as the
// reference, and the 1-based number of the first such candidate (0 if none).
func (a OpenAIAnalyzer) Similarity(ctx context.Context, candidates []string, reference string) (SimilarityResult, error) {
	var sb strings.Builder
	sb.WriteString("Customer complaints:\n")
	for i, c := range candidates {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
	}
	fmt.Fprintf(&sb, "\nReference complaint: %s\n", reference)

	system := "You compare customer complaints. Count how many of the numbered complaints describe the same underlying issue " +
		"as the reference complaint (same problem, not same wording). " +
		"Reply with exactly: <count>,<number of first similar complaint> using 0,0 when none are similar."
	reply, err := a.chat(ctx, system, sb.String())
	if err != nil {
		return SimilarityResult{}, err
	}

	parts := strings.SplitN(strings.TrimSpace(reply), ",", 2)
	if len(parts) != 2 {
		return SimilarityResult{}, fmt.Errorf("unparsable similarity reply %q", reply)
	}
	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return SimilarityResult{}, fmt.Errorf("unparsable similarity count %q", reply)
	}
	first, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return SimilarityResult{}, fmt.Errorf("unparsable similarity index %q", reply)
	}
	if count <= 0 || first <= 0 || first > len(candidates) {
		return SimilarityResult{FirstIndex: -1}, nil
	}
	return SimilarityResult{Count: count, FirstIndex: first - 1, Matched: true}, nil
}

func (a OpenAIAnalyzer) scoreOne(ctx context.Context, system, text string) (float64, error) {
	reply, err := a.chat(ctx, system, text)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable score reply %q", reply)
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v, nil
}

func (a OpenAIAnalyzer) chat(ctx context.Context, system, user string) (string, error) {
	payload := struct {
		Model       string        `json:"model"`
		Temperature float64       `json:"temperature"`
		Messages    []chatMessage `json:"messages"`
	}{
		Model: a.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	b, _ := json.Marshal(payload)
	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	var answer string
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if strings.TrimSpace(a.APIKey) != "" {
			req.Header.Set("Authorization", "Bearer "+a.APIKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("gateway error: %s", resp.Status)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("gateway error: %s", resp.Status))
		}

		var res struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			return backoff.Permanent(err)
		}
		if len(res.Choices) == 0 {
			return backoff.Permanent(fmt.Errorf("empty gateway response"))
		}
		answer = res.Choices[0].Message.Content
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return answer, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
