package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ArowuTest/draws-backend/internal/models"
	"github.com/ArowuTest/draws-backend/pkg/notify"
)

// Notifier tells a secret santa participant where to find their pairing
type Notifier interface {
	NotifySecretSanta(ctx context.Context, santa *models.SecretSanta, result *models.SecretSantaResult) error
}

// GatewayNotifier delivers secret santa links through a notify.Gateway
type GatewayNotifier struct {
	Gateway notify.Gateway
	// BaseURL prefixes the reveal link
	BaseURL string
}

var _ Notifier = (*GatewayNotifier)(nil)

type santaTemplate struct {
	subject string
	body    string
}

var santaTemplates = map[string]santaTemplate{
	"en": {
		subject: "Your secret santa",
		body:    "Hi %s! Open this link to find out who you are giving a present to: %s",
	},
	"es": {
		subject: "Tu amigo invisible",
		body:    "¡Hola %s! Abre este enlace para descubrir a quién le haces el regalo: %s",
	},
}

// NotifySecretSanta sends the reveal link of result to its source
func (n *GatewayNotifier) NotifySecretSanta(ctx context.Context, santa *models.SecretSanta, result *models.SecretSantaResult) error {
	tmpl, ok := santaTemplates[strings.ToLower(santa.Language)]
	if !ok {
		tmpl = santaTemplates["en"]
	}
	link := strings.TrimSuffix(n.BaseURL, "/") + "/secret-santa/" + result.ID
	msg := notify.Message{
		To:       result.Email,
		Subject:  tmpl.subject,
		Body:     fmt.Sprintf(tmpl.body, result.Source, link),
		Language: santa.Language,
	}
	if _, err := n.Gateway.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send secret santa link: %w", err)
	}
	return nil
}
