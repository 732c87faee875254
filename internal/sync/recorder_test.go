package sync

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/provider"
	"github.com/outreachly/replysync-backend/internal/repository"
	"github.com/outreachly/replysync-backend/tests/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func recorderMatch() (*models.EmailAccount, *Match) {
	account := &models.EmailAccount{ID: 1, Email: "Sender@Outreachly.io", Provider: models.ProviderGoogle}
	outbound := &models.EmailMessage{
		ID:        10,
		AccountID: 1,
		ThreadID:  5,
		ContactID: 7,
		Direction: models.DirectionSent,
		ToEmail:   "ada@example.com",
	}
	inbound := provider.InboundMessage{
		ProviderMessageID: "prov-in-1",
		InternetMessageID: "<reply@mail.example>",
		InReplyTo:         "<orig@mail.example>",
		FromAddress:       "Ada Lovelace <ADA@example.com>",
		FromName:          "Ada Lovelace",
		Subject:           "Re: Intro",
		ReceivedAt:        time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		BodyText:          "count me in",
	}
	return account, &Match{Outbound: outbound, Inbound: inbound, Basis: MatchInReplyTo}
}

func TestReplyRecorder_Apply_RecordsReply(t *testing.T) {
	repo := new(mocks.MockReplyRepository)
	recorder := NewReplyRecorder(repo, discardLogger())
	account, match := recorderMatch()

	var gotReply *models.Reply
	var gotMirror *models.EmailMessage
	repo.On("Record", mock.Anything, mock.AnythingOfType("*models.Reply"), mock.AnythingOfType("*models.EmailMessage")).
		Run(func(args mock.Arguments) {
			gotReply = args.Get(1).(*models.Reply)
			gotMirror = args.Get(2).(*models.EmailMessage)
		}).
		Return(nil)

	recorded, err := recorder.Apply(context.Background(), account, match)

	require.NoError(t, err)
	assert.True(t, recorded)
	repo.AssertExpectations(t)

	require.NotNil(t, gotReply)
	assert.NotEmpty(t, gotReply.ExternalID)
	assert.Equal(t, uint(1), gotReply.AccountID)
	assert.Equal(t, uint(5), gotReply.ThreadID)
	assert.Equal(t, uint(7), gotReply.ContactID)
	assert.Equal(t, "prov-in-1", gotReply.ProviderMessageID)
	// Sender address is normalized before storage
	assert.Equal(t, "ada@example.com", gotReply.FromEmail)

	require.NotNil(t, gotMirror)
	assert.Equal(t, models.DirectionReceived, gotMirror.Direction)
	assert.Equal(t, "prov-in-1", gotMirror.ProviderMessageID)
	assert.Equal(t, "sender@outreachly.io", gotMirror.ToEmail)
	assert.True(t, gotMirror.OccurredAt.Equal(gotReply.ReceivedAt))
}

func TestReplyRecorder_Apply_DuplicateIsCleanNoOp(t *testing.T) {
	repo := new(mocks.MockReplyRepository)
	recorder := NewReplyRecorder(repo, discardLogger())
	account, match := recorderMatch()

	repo.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrDuplicateEntry)

	recorded, err := recorder.Apply(context.Background(), account, match)

	assert.NoError(t, err)
	assert.False(t, recorded)
}

func TestReplyRecorder_Apply_StoreErrorPropagates(t *testing.T) {
	repo := new(mocks.MockReplyRepository)
	recorder := NewReplyRecorder(repo, discardLogger())
	account, match := recorderMatch()

	repo.On("Record", mock.Anything, mock.Anything, mock.Anything).Return(fmt.Errorf("connection reset"))

	recorded, err := recorder.Apply(context.Background(), account, match)

	assert.Error(t, err)
	assert.False(t, recorded)
	assert.Contains(t, err.Error(), "prov-in-1")
}

func TestReplyRecorder_Apply_UniqueExternalIDs(t *testing.T) {
	repo := new(mocks.MockReplyRepository)
	recorder := NewReplyRecorder(repo, discardLogger())
	account, match := recorderMatch()

	seen := make(map[string]bool)
	repo.On("Record", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			seen[args.Get(1).(*models.Reply).ExternalID] = true
		}).
		Return(nil)

	for i := 0; i < 3; i++ {
		_, err := recorder.Apply(context.Background(), account, match)
		require.NoError(t, err)
	}

	assert.Len(t, seen, 3)
}
