package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://openrouter.ai/api/v1"
	defaultModel     = "xiaomi/mimo-v2-flash:free"
	defaultTimeout   = 60 * time.Second
	defaultMaxTokens = 500
)

// ErrUnavailable - сервис генерации недоступен или вернул ошибку;
// вызывающая сторона может повторить запрос позже
var ErrUnavailable = errors.New("сервис генерации недоступен")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// StreamChunk - кусок потокового ответа модели
type StreamChunk struct {
	Text string
	Done bool
}

// Client - клиент chat-completions API (OpenAI-совместимый).
// Создаётся один раз в main и передаётся зависимостью.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamResponse struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete выполняет один непотоковый запрос к модели.
// Отмена контекста прерывает ожидание до каких-либо записей в хранилище.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.post(ctx, chatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: RoleSystem, Content: system},
			{Role: RoleUser, Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   defaultMaxTokens,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.readError(resp)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("разбор ответа модели: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// Stream выполняет потоковый запрос. Куски ответа приходят в канал,
// канал закрывается после финального маркера или ошибки.
func (c *Client) Stream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	resp, err := c.post(ctx, chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.8,
		MaxTokens:   4096,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, c.readError(resp)
	}

	ch := make(chan StreamChunk, 16)

	go func() {
		defer close(ch)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}

			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				ch <- StreamChunk{Done: true}
				return
			}

			var parsed streamResponse
			if err := json.Unmarshal([]byte(data), &parsed); err != nil {
				continue
			}
			if len(parsed.Choices) == 0 {
				continue
			}
			if text := parsed.Choices[0].Delta.Content; text != "" {
				select {
				case ch <- StreamChunk{Text: text}:
				case <-ctx.Done():
					return
				}
			}
		}

		// поток оборвался без [DONE] - закрываем как завершённый
		ch <- StreamChunk{Done: true}
	}()

	return ch, nil
}

func (c *Client) post(ctx context.Context, body chatRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("кодирование запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("создание запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func (c *Client) readError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("%w: статус %d: %s", ErrUnavailable, resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Errorf("%w: статус %d", ErrUnavailable, resp.StatusCode)
}
