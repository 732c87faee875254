package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachly/replysync-backend/internal/models"
)

// fakeMicrosoftClient returns canned listings
type fakeMicrosoftClient struct {
	items []MicrosoftMessage
	err   error
}

func (f *fakeMicrosoftClient) ListMessages(_ context.Context, _ string, _ time.Time, _ int) ([]MicrosoftMessage, error) {
	return f.items, f.err
}

func testMicrosoftAccount() *models.EmailAccount {
	return &models.EmailAccount{ID: 2, Email: "sender@outreachly.io", Provider: models.ProviderMicrosoft}
}

func graphItem(id string, receivedAt time.Time) MicrosoftMessage {
	return MicrosoftMessage{
		ID:                id,
		InternetMessageID: "<" + id + "@mail.example>",
		Subject:           "Re: Intro",
		From:              MicrosoftRecipient{Name: "Ada Lovelace", Address: "ada@example.com"},
		Sender:            MicrosoftRecipient{Name: "Ada Lovelace", Address: "ada@example.com"},
		ToRecipients:      []MicrosoftRecipient{{Address: "sender@outreachly.io"}},
		ReceivedDateTime:  receivedAt,
		BodyContentType:   "text",
		BodyContent:       "Count me in.",
		Headers: []MicrosoftHeader{
			{Name: "In-Reply-To", Value: "<orig@mail.example>"},
			{Name: "References", Value: "<root@mail.example> <orig@mail.example>"},
		},
	}
}

func TestMicrosoftAdapter_Name(t *testing.T) {
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{})
	assert.Equal(t, models.ProviderMicrosoft, adapter.Name())
}

func TestMicrosoftAdapter_ListMessagesSince_NormalizesFields(t *testing.T) {
	received := time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC)
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{items: []MicrosoftMessage{graphItem("ms-1", received)}})

	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), received.Add(-time.Hour), 10)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Equal(t, "ms-1", msg.ProviderMessageID)
	assert.Equal(t, "<ms-1@mail.example>", msg.InternetMessageID)
	assert.Equal(t, "<orig@mail.example>", msg.InReplyTo)
	assert.Equal(t, "<root@mail.example> <orig@mail.example>", msg.References)
	assert.Equal(t, "ada@example.com", msg.FromAddress)
	assert.Equal(t, "Ada Lovelace", msg.FromName)
	assert.Equal(t, "sender@outreachly.io", msg.ToAddress)
	assert.True(t, msg.ReceivedAt.Equal(received))
	assert.Equal(t, "Count me in.", msg.BodyText)
	assert.Empty(t, msg.BodyHTML)
}

func TestMicrosoftAdapter_ListMessagesSince_SenderOnlyWhenDelegated(t *testing.T) {
	received := time.Now().UTC()

	// Same sender and from: envelope sender stays empty
	same := graphItem("ms-same", received)
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{items: []MicrosoftMessage{same}})
	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), received.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Empty(t, messages[0].Sender)

	// Delegate send: sender differs from From and is surfaced
	delegated := graphItem("ms-delegated", received)
	delegated.Sender = MicrosoftRecipient{Address: "assistant@example.com"}
	adapter = NewMicrosoftAdapter(&fakeMicrosoftClient{items: []MicrosoftMessage{delegated}})
	messages, err = adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), received.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "assistant@example.com", messages[0].Sender)
}

func TestMicrosoftAdapter_ListMessagesSince_HTMLBody(t *testing.T) {
	received := time.Now().UTC()
	item := graphItem("ms-html", received)
	item.BodyContentType = "HTML"
	item.BodyContent = "<p>Count me in.</p>"
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{items: []MicrosoftMessage{item}})

	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), received.Add(-time.Hour), 10)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "<p>Count me in.</p>", messages[0].BodyHTML)
	assert.Empty(t, messages[0].BodyText)
}

func TestMicrosoftAdapter_ListMessagesSince_StrictlyNewerThanSince(t *testing.T) {
	since := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{items: []MicrosoftMessage{
		graphItem("at-since", since),
		graphItem("after-since", since.Add(time.Second)),
	}})

	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), since, 10)

	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "after-since", messages[0].ProviderMessageID)
}

func TestMicrosoftAdapter_ListMessagesSince_RespectsLimit(t *testing.T) {
	now := time.Now().UTC()
	var items []MicrosoftMessage
	for i := 0; i < 5; i++ {
		items = append(items, graphItem(fmt.Sprintf("ms-%d", i), now.Add(time.Duration(i)*time.Minute)))
	}
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{items: items})

	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), now.Add(-time.Hour), 2)

	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestMicrosoftAdapter_ListMessagesSince_ClientError(t *testing.T) {
	adapter := NewMicrosoftAdapter(&fakeMicrosoftClient{err: fmt.Errorf("throttled")})

	messages, err := adapter.ListMessagesSince(context.Background(), testMicrosoftAccount(), time.Now(), 10)

	assert.Error(t, err)
	assert.Nil(t, messages)
}

func TestHeaderValue_CaseInsensitive(t *testing.T) {
	headers := []MicrosoftHeader{
		{Name: "in-reply-to", Value: "<a@mail.example>"},
		{Name: "References", Value: "<b@mail.example>"},
	}
	assert.Equal(t, "<a@mail.example>", headerValue(headers, "In-Reply-To"))
	assert.Equal(t, "<b@mail.example>", headerValue(headers, "references"))
	assert.Empty(t, headerValue(headers, "Subject"))
}
