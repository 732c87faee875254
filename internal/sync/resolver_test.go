package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/provider"
)

// sentRecord builds one outbound record
func sentRecord(id uint, internetMessageID, toEmail string, sentAt time.Time) models.EmailMessage {
	return models.EmailMessage{
		ID:                id,
		AccountID:         1,
		ThreadID:          id,
		ContactID:         id,
		Direction:         models.DirectionSent,
		ProviderMessageID: "prov-out-" + internetMessageID,
		InternetMessageID: internetMessageID,
		FromEmail:         "sender@outreachly.io",
		ToEmail:           toEmail,
		OccurredAt:        sentAt,
	}
}

func TestResolver_InReplyTo_Wins(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", base),
		sentRecord(2, "<b@mail.example>", "ada@example.com", base.Add(time.Hour)),
	})

	// The In-Reply-To points at thread 1 even though the address index would
	// pick the more recent thread 2.
	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-1",
		InReplyTo:         "<a@mail.example>",
		References:        "<b@mail.example>",
		FromAddress:       "ada@example.com",
	})

	require.True(t, ok)
	assert.Equal(t, uint(1), match.Outbound.ID)
	assert.Equal(t, MatchInReplyTo, match.Basis)
}

func TestResolver_References_SecondChance(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", base),
	})

	// In-Reply-To names an unknown ID; the References chain still reaches the
	// tracked message.
	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-2",
		InReplyTo:         "<unknown@mail.example>",
		References:        "<root@mail.example> <a@mail.example>",
	})

	require.True(t, ok)
	assert.Equal(t, uint(1), match.Outbound.ID)
	assert.Equal(t, MatchReferences, match.Basis)
}

func TestResolver_AddressFallback_LastSentWins(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", base),
		sentRecord(2, "<b@mail.example>", "ada@example.com", base.Add(time.Hour)),
	})

	// No threading headers at all: the most recently sent message to this
	// address is the best guess.
	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-3",
		FromAddress:       "Ada Lovelace <ADA@Example.com>",
	})

	require.True(t, ok)
	assert.Equal(t, uint(2), match.Outbound.ID)
	assert.Equal(t, MatchAddress, match.Basis)
}

func TestResolver_EnvelopeSender_LastResort(t *testing.T) {
	base := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", base),
	})

	// From is an unknown alias but the envelope sender is the tracked contact
	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-4",
		FromAddress:       "alias@elsewhere.com",
		Sender:            "ada@example.com",
	})

	require.True(t, ok)
	assert.Equal(t, uint(1), match.Outbound.ID)
	assert.Equal(t, MatchSender, match.Basis)
}

func TestResolver_NoMatch(t *testing.T) {
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", time.Now()),
	})

	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-5",
		InReplyTo:         "<unknown@mail.example>",
		FromAddress:       "stranger@example.com",
	})

	assert.False(t, ok)
	assert.Nil(t, match)
}

func TestResolver_MessageIDCanonicalization(t *testing.T) {
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<MixedCase@Mail.Example>", "ada@example.com", time.Now()),
	})

	// Brackets stripped and case changed by the replying client
	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-6",
		InReplyTo:         "mixedcase@mail.example",
	})

	require.True(t, ok)
	assert.Equal(t, uint(1), match.Outbound.ID)
}

func TestResolver_ProviderMessageID_Indexed(t *testing.T) {
	// Some providers echo their own message ID in reply headers; the index
	// carries both IDs.
	record := sentRecord(1, "", "ada@example.com", time.Now())
	record.ProviderMessageID = "prov-native-id"
	resolver := NewResolver([]models.EmailMessage{record})

	match, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-7",
		InReplyTo:         "<prov-native-id>",
	})

	require.True(t, ok)
	assert.Equal(t, uint(1), match.Outbound.ID)
}

func TestResolver_DuplicateWithinPass_Suppressed(t *testing.T) {
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", time.Now()),
	})
	msg := provider.InboundMessage{
		ProviderMessageID: "in-8",
		InReplyTo:         "<a@mail.example>",
	}

	_, ok := resolver.Resolve(msg)
	require.True(t, ok)

	// Pagination overlap re-delivers the same message within the pass
	match, ok := resolver.Resolve(msg)
	assert.False(t, ok)
	assert.Nil(t, match)
}

func TestResolver_EmptyInboundFields(t *testing.T) {
	resolver := NewResolver([]models.EmailMessage{
		sentRecord(1, "<a@mail.example>", "ada@example.com", time.Now()),
	})

	match, ok := resolver.Resolve(provider.InboundMessage{ProviderMessageID: "in-9"})

	assert.False(t, ok)
	assert.Nil(t, match)
}

func TestNewResolver_EmptyWindow(t *testing.T) {
	resolver := NewResolver(nil)

	_, ok := resolver.Resolve(provider.InboundMessage{
		ProviderMessageID: "in-10",
		InReplyTo:         "<a@mail.example>",
		FromAddress:       "ada@example.com",
	})

	assert.False(t, ok)
}
