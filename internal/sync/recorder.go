package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/repository"
	"github.com/outreachly/replysync-backend/internal/validator"
)

// ReplyRecorder applies resolved matches to storage: one reply row, one
// mirrored message row, thread counters and contact status, all in a single
// transaction keyed by (account_id, provider_message_id). Replaying the same
// message is a clean no-op.
type ReplyRecorder struct {
	replies repository.ReplyRepository
	logger  *slog.Logger
}

// NewReplyRecorder creates a ReplyRecorder
func NewReplyRecorder(replies repository.ReplyRepository, logger *slog.Logger) *ReplyRecorder {
	return &ReplyRecorder{replies: replies, logger: logger}
}

// Apply records one match. Returns true when a new reply was written, false
// when the message had already been processed by an earlier pass.
func (r *ReplyRecorder) Apply(ctx context.Context, account *models.EmailAccount, match *Match) (bool, error) {
	msg := match.Inbound
	outbound := match.Outbound

	reply := &models.Reply{
		ExternalID:        uuid.NewString(),
		AccountID:         account.ID,
		ContactID:         outbound.ContactID,
		ThreadID:          outbound.ThreadID,
		ProviderMessageID: msg.ProviderMessageID,
		InReplyTo:         msg.InReplyTo,
		Subject:           msg.Subject,
		FromEmail:         validator.NormalizeAddress(msg.FromAddress),
		FromName:          msg.FromName,
		ReceivedAt:        msg.ReceivedAt.UTC(),
		BodyText:          msg.BodyText,
		BodyHTML:          msg.BodyHTML,
	}

	mirror := &models.EmailMessage{
		AccountID:         account.ID,
		ThreadID:          outbound.ThreadID,
		ContactID:         outbound.ContactID,
		Direction:         models.DirectionReceived,
		ProviderMessageID: msg.ProviderMessageID,
		InternetMessageID: msg.InternetMessageID,
		FromEmail:         reply.FromEmail,
		ToEmail:           validator.NormalizeAddress(account.Email),
		Subject:           msg.Subject,
		BodyText:          msg.BodyText,
		BodyHTML:          msg.BodyHTML,
		OccurredAt:        reply.ReceivedAt,
	}

	err := r.replies.Record(ctx, reply, mirror)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			r.logger.Debug("reply already recorded",
				slog.Uint64("account_id", uint64(account.ID)),
				slog.String("provider_message_id", msg.ProviderMessageID))
			return false, nil
		}
		return false, fmt.Errorf("record reply for message %s: %w", msg.ProviderMessageID, err)
	}

	r.logger.Info("reply recorded",
		slog.Uint64("account_id", uint64(account.ID)),
		slog.Uint64("thread_id", uint64(outbound.ThreadID)),
		slog.String("provider_message_id", msg.ProviderMessageID),
		slog.String("match_basis", match.Basis))
	return true, nil
}
