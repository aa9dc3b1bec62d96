package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// Message is one notification addressed to an email recipient
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Language string `json:"language"`
}

// Gateway delivers messages and returns the provider message id
type Gateway interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// WebhookGateway posts messages as JSON to a delivery service. Requests carry
// a short-lived HS256 bearer token when a secret is configured.
type WebhookGateway struct {
	URL        string
	Secret     string
	httpClient *http.Client
}

// MockGateway keeps sent messages in memory and logs them
type MockGateway struct {
	Name string

	mu   sync.Mutex
	sent []Message
}

var (
	_ Gateway = (*WebhookGateway)(nil)
	_ Gateway = (*MockGateway)(nil)
)

// NewWebhookGateway creates a new WebhookGateway
func NewWebhookGateway(url, secret string, timeout time.Duration) *WebhookGateway {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebhookGateway{
		URL:        url,
		Secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewMockGateway creates a new MockGateway
func NewMockGateway(name string) *MockGateway {
	return &MockGateway{Name: name}
}

// Send posts msg to the webhook
func (g *WebhookGateway) Send(ctx context.Context, msg Message) (string, error) {
	jsonBody, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.Secret != "" {
		token, err := g.token()
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		MessageID string `json:"messageId"`
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &response); err != nil {
			return "", fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return response.MessageID, nil
}

func (g *WebhookGateway) token() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "notifications",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign webhook token: %w", err)
	}
	return signed, nil
}

// Send records msg
func (g *MockGateway) Send(ctx context.Context, msg Message) (string, error) {
	g.mu.Lock()
	g.sent = append(g.sent, msg)
	n := len(g.sent)
	g.mu.Unlock()

	msgID := fmt.Sprintf("%s-MOCK-MSG-%d", g.Name, n)
	slog.Info("Mock notification sent", "gateway", g.Name, "to", msg.To, "subject", msg.Subject, "messageId", msgID)
	return msgID, nil
}

// Sent returns a copy of the recorded messages
func (g *MockGateway) Sent() []Message {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Message(nil), g.sent...)
}
