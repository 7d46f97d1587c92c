package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"pubmedfilter/internal/domain"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const promptTemplate = `
You are a biomedical expert.
Answer ONLY "YES" or "NO".

Is the following paper related to head and neck cancer
(including oral, laryngeal, pharyngeal, nasal, salivary gland cancers)?

Paper:
%s
`

// Options настраивает OpenAIClassifier. Нулевой RequestsPerMinute отключает ограничение частоты.
type Options struct {
	BaseURL           string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// OpenAIClassifier отправляет один запрос chat completions на запись
// и трактует ответ как бинарный вердикт.
type OpenAIClassifier struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *slog.Logger
}

func NewOpenAIClassifier(opts Options, log *slog.Logger) *OpenAIClassifier {
	c := &OpenAIClassifier{
		endpoint:   strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		apiKey:     opts.APIKey,
		model:      opts.Model,
		httpClient: &http.Client{Timeout: opts.Timeout},
		log:        log.With(slog.String("component", "classifier")),
	}
	if opts.RequestsPerMinute > 0 {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// temperature сериализуется всегда, в том числе нулевое значение.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// BuildPrompt подставляет текст записи в фиксированный запрос.
func BuildPrompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}

// ParseVerdict возвращает true только для ответа, равного "YES" после обрезки
// пробелов и приведения к верхнему регистру. "Yes, probably" дает false.
func ParseVerdict(content string) bool {
	return strings.ToUpper(strings.TrimSpace(content)) == "YES"
}

// Classify возвращает вердикт для текста записи.
// Любой сбой обращения к сервису возвращается как *domain.ClassificationError.
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (bool, error) {
	content, err := c.complete(ctx, BuildPrompt(text))
	if err != nil {
		return false, &domain.ClassificationError{Err: err}
	}
	verdict := ParseVerdict(content)
	c.log.Debug("Verdict received",
		slog.String("response", content),
		slog.Bool("accepted", verdict),
	)
	return verdict, nil
}

func (c *OpenAIClassifier) complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Classification API returned error status",
			slog.Int("status_code", resp.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}
	c.log.Debug("Classification API call completed", slog.Duration("duration", time.Since(start)))
	return parsed.Choices[0].Message.Content, nil
}
