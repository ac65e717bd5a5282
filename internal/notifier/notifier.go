// Package notifier fans verification events out to the configured outbound
// channels: a Telegram admin chat and an email webhook. Both are optional
// and best effort; a delivery failure is logged, never retried and never
// surfaced to the claimant flow.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"campusconnect/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
)

// EventSource is the subscription capability the notifier consumes.
// *storage.Service satisfies it.
type EventSource interface {
	SubscribeEvents(ctx context.Context) *redis.PubSub
}

// Service listens on the event channel and dispatches notifications.
type Service struct {
	Source EventSource

	Bot        *tgbotapi.BotAPI
	AdminChat  int64
	WebhookURL string

	httpClient *http.Client
}

// NewService creates a notifier. An empty token disables Telegram delivery;
// an empty webhook URL disables email delivery.
func NewService(source EventSource, telegramToken string, adminChat int64, webhookURL string) (*Service, error) {
	svc := &Service{
		Source:     source,
		AdminChat:  adminChat,
		WebhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	if telegramToken != "" {
		bot, err := tgbotapi.NewBotAPI(telegramToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create telegram bot: %w", err)
		}
		bot.Debug = false
		log.Printf("✅ Notifier authorized on account %s", bot.Self.UserName)
		svc.Bot = bot
	}

	return svc, nil
}

// Run consumes the event channel until the context is cancelled. Each event
// is dispatched inline; deliveries are quick and ordering is worth keeping.
func (s *Service) Run(ctx context.Context) {
	pubsub := s.Source.SubscribeEvents(ctx)
	defer pubsub.Close()

	log.Println("INFO: Notifier started, listening for events")

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event models.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("ERROR: Notifier failed to unmarshal event: %v", err)
				continue
			}
			s.Dispatch(ctx, event)
		}
	}
}

// Dispatch routes one event to every channel that wants it.
func (s *Service) Dispatch(ctx context.Context, event models.Event) {
	if s.Bot != nil && s.AdminChat != 0 {
		s.sendTelegram(event)
	}
	if s.WebhookURL != "" && event.Type == models.EventClaimVerified {
		s.sendEmailWebhook(ctx, event)
	}
}

func (s *Service) sendTelegram(event models.Event) {
	text := formatTelegram(event)
	if text == "" {
		return
	}

	msg := tgbotapi.NewMessage(s.AdminChat, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := s.Bot.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send telegram notification for %s event: %v", event.Type, err)
	}
}

// formatTelegram renders one event as a Markdown admin message.
func formatTelegram(event models.Event) string {
	switch event.Type {
	case models.EventItemReported:
		return fmt.Sprintf("📦 *New item reported*\n*%s* (%s)\nLocation: %s",
			event.ItemName, event.ItemCategory, event.ItemLocation)

	case models.EventClaimVerified:
		icon := "🟡"
		switch event.Decision {
		case "auto_approved":
			icon = "🟢"
		case "auto_rejected":
			icon = "🔴"
		}
		return fmt.Sprintf("%s *Claim %s*\nItem: %s\nClaimer: %s (%s)\nScore: %d%% | Risk: %s\n%s",
			icon, event.Decision, event.ItemName, event.ClaimerName, event.ClaimerEmail,
			event.OverallScore, event.RiskLevel, event.Summary)

	case models.EventMatchFound:
		return fmt.Sprintf("🔎 *Match found*\n%d candidate(s) for *%s*\nTop match: %s (%d%%)",
			event.MatchCount, event.ItemName, event.TopMatch, event.TopScore)
	}
	return ""
}

// emailPayload is the Formspree-style form body the webhook expects.
type emailPayload struct {
	Subject string `json:"_subject"`
	Item    string `json:"item"`
	Claimer string `json:"claimer"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Score   int    `json:"score"`
	Risk    string `json:"risk"`
	Summary string `json:"summary"`
	Message string `json:"message"`
}

func (s *Service) sendEmailWebhook(ctx context.Context, event models.Event) {
	payload := emailPayload{
		Subject: fmt.Sprintf("Claim %s: %s", event.Decision, event.ItemName),
		Item:    event.ItemName,
		Claimer: event.ClaimerName,
		Email:   event.ClaimerEmail,
		Phone:   event.ClaimerPhone,
		Score:   event.OverallScore,
		Risk:    event.RiskLevel,
		Summary: event.Summary,
		Message: fmt.Sprintf("A claim on %q by %s was %s with an overall score of %d%%.",
			event.ItemName, event.ClaimerName, event.Decision, event.OverallScore),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: Failed to marshal email payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.WebhookURL, bytes.NewBuffer(body))
	if err != nil {
		log.Printf("ERROR: Failed to create email webhook request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("ERROR: Email webhook request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("ERROR: Email webhook returned status %d", resp.StatusCode)
		return
	}
	log.Printf("INFO: Email notification sent for claim on %q", event.ItemName)
}
