package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
)

// MicrosoftRecipient mirrors the Graph emailAddress shape
type MicrosoftRecipient struct {
	Name    string
	Address string
}

// MicrosoftHeader is one entry of the internetMessageHeaders list
type MicrosoftHeader struct {
	Name  string
	Value string
}

// MicrosoftMessage is one inbox item as returned by the Microsoft mailbox
// client, already decoded from the Graph JSON shape.
type MicrosoftMessage struct {
	ID                string
	InternetMessageID string
	Subject           string
	From              MicrosoftRecipient
	Sender            MicrosoftRecipient
	ToRecipients      []MicrosoftRecipient
	ReceivedDateTime  time.Time
	BodyContentType   string // "text" or "html"
	BodyContent       string
	Headers           []MicrosoftHeader
}

// MicrosoftClient is the collaborator fetching structured inbox listings
type MicrosoftClient interface {
	ListMessages(ctx context.Context, accountEmail string, after time.Time, top int) ([]MicrosoftMessage, error)
}

// MicrosoftAdapter normalizes Microsoft inbox listings. Reply headers come
// from the internetMessageHeaders list rather than a raw payload.
type MicrosoftAdapter struct {
	client MicrosoftClient
}

// NewMicrosoftAdapter creates a MicrosoftAdapter over the given client
func NewMicrosoftAdapter(client MicrosoftClient) *MicrosoftAdapter {
	return &MicrosoftAdapter{client: client}
}

// Name returns the provider name this adapter serves
func (a *MicrosoftAdapter) Name() string {
	return models.ProviderMicrosoft
}

// ListMessagesSince fetches messages strictly newer than since, up to limit
func (a *MicrosoftAdapter) ListMessagesSince(ctx context.Context, account *models.EmailAccount, since time.Time, limit int) ([]InboundMessage, error) {
	items, err := a.client.ListMessages(ctx, account.Email, since, limit)
	if err != nil {
		return nil, fmt.Errorf("microsoft: list messages for %s: %w", account.Email, err)
	}

	messages := make([]InboundMessage, 0, len(items))
	for _, item := range items {
		if !item.ReceivedDateTime.After(since) {
			continue
		}
		messages = append(messages, a.normalize(item))
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

// normalize maps one Graph-shaped item into an InboundMessage
func (a *MicrosoftAdapter) normalize(item MicrosoftMessage) InboundMessage {
	msg := InboundMessage{
		ProviderMessageID: item.ID,
		InternetMessageID: item.InternetMessageID,
		InReplyTo:         headerValue(item.Headers, "In-Reply-To"),
		References:        headerValue(item.Headers, "References"),
		FromAddress:       item.From.Address,
		FromName:          item.From.Name,
		Subject:           item.Subject,
		ReceivedAt:        item.ReceivedDateTime,
	}

	// Graph reports sender separately when a delegate sent the message.
	if item.Sender.Address != "" && !strings.EqualFold(item.Sender.Address, item.From.Address) {
		msg.Sender = item.Sender.Address
	}
	if len(item.ToRecipients) > 0 {
		msg.ToAddress = item.ToRecipients[0].Address
	}
	if strings.EqualFold(item.BodyContentType, "html") {
		msg.BodyHTML = item.BodyContent
	} else {
		msg.BodyText = item.BodyContent
	}
	return msg
}

// headerValue finds the first header with the given name, case-insensitively
func headerValue(headers []MicrosoftHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
