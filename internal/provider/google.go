package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/outreachly/replysync-backend/internal/models"
)

// GoogleRawMessage is one inbox item as returned by the Google mailbox
// client: the provider-native ID plus the decoded RFC 822 payload.
type GoogleRawMessage struct {
	ID           string
	RawMIME      []byte
	InternalDate time.Time
}

// GoogleClient is the collaborator fetching raw inbox listings. OAuth token
// refresh and result pagination live behind this interface.
type GoogleClient interface {
	ListInbox(ctx context.Context, accountEmail string, after time.Time, maxResults int) ([]GoogleRawMessage, error)
}

// GoogleAdapter normalizes Google inbox listings. The payload arrives as raw
// RFC 822, so reply headers and bodies are extracted with enmime.
type GoogleAdapter struct {
	client GoogleClient
}

// NewGoogleAdapter creates a GoogleAdapter over the given client
func NewGoogleAdapter(client GoogleClient) *GoogleAdapter {
	return &GoogleAdapter{client: client}
}

// Name returns the provider name this adapter serves
func (a *GoogleAdapter) Name() string {
	return models.ProviderGoogle
}

// ListMessagesSince fetches messages strictly newer than since. Transport
// errors are returned to the caller untouched apart from wrapping; a payload
// that fails to parse is skipped rather than failing the whole batch.
func (a *GoogleAdapter) ListMessagesSince(ctx context.Context, account *models.EmailAccount, since time.Time, limit int) ([]InboundMessage, error) {
	items, err := a.client.ListInbox(ctx, account.Email, since, limit)
	if err != nil {
		return nil, fmt.Errorf("google: list inbox for %s: %w", account.Email, err)
	}

	messages := make([]InboundMessage, 0, len(items))
	for _, item := range items {
		msg, err := a.normalize(item)
		if err != nil {
			continue
		}
		// The provider filter is timestamp-granular; enforce strictness here.
		if !msg.ReceivedAt.After(since) {
			continue
		}
		messages = append(messages, msg)
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

// normalize parses one raw RFC 822 payload into an InboundMessage
func (a *GoogleAdapter) normalize(item GoogleRawMessage) (InboundMessage, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(item.RawMIME))
	if err != nil {
		return InboundMessage{}, fmt.Errorf("google: parse message %s: %w", item.ID, err)
	}

	msg := InboundMessage{
		ProviderMessageID: item.ID,
		InternetMessageID: env.GetHeader("Message-Id"),
		InReplyTo:         env.GetHeader("In-Reply-To"),
		References:        env.GetHeader("References"),
		Subject:           env.GetHeader("Subject"),
		ReceivedAt:        item.InternalDate,
		BodyText:          env.Text,
		BodyHTML:          env.HTML,
	}

	if from, err := mail.ParseAddress(env.GetHeader("From")); err == nil {
		msg.FromAddress = from.Address
		msg.FromName = from.Name
	} else {
		msg.FromAddress = env.GetHeader("From")
	}
	if sender, err := mail.ParseAddress(env.GetHeader("Sender")); err == nil {
		msg.Sender = sender.Address
	}
	if to, err := mail.ParseAddress(env.GetHeader("To")); err == nil {
		msg.ToAddress = to.Address
	} else {
		msg.ToAddress = env.GetHeader("To")
	}
	if msg.ReceivedAt.IsZero() {
		if date, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
			msg.ReceivedAt = date
		}
	}
	return msg, nil
}
