// Package sync implements the reply synchronization engine: matching inbound
// messages to previously sent outreach, recording replies idempotently, and
// orchestrating polling passes across connected accounts.
package sync

import (
	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/provider"
	"github.com/outreachly/replysync-backend/internal/validator"
)

// Match bases, in precedence order
const (
	MatchInReplyTo  = "in-reply-to"
	MatchReferences = "references"
	MatchAddress    = "address"
	MatchSender     = "sender"
)

// Match pairs an inbound message with the outbound record it replies to
type Match struct {
	Outbound *models.EmailMessage
	Inbound  provider.InboundMessage
	Basis    string
}

// Resolver decides whether an inbound message is a reply to tracked outreach
// and to which outbound message. Header matching is authoritative; the
// address fallback covers clients that strip threading headers, with
// documented last-sent-wins imprecision when one contact has several open
// threads.
type Resolver struct {
	byMessageID map[string]*models.EmailMessage
	byAddress   map[string]*models.EmailMessage
	seen        map[string]struct{}
}

// NewResolver builds the per-account match indices from the outbound records
// of the lookback window. The slice must be ordered oldest first so that the
// address index ends up holding the most recently sent record per address.
func NewResolver(sent []models.EmailMessage) *Resolver {
	r := &Resolver{
		byMessageID: make(map[string]*models.EmailMessage, len(sent)*2),
		byAddress:   make(map[string]*models.EmailMessage, len(sent)),
		seen:        make(map[string]struct{}),
	}
	for i := range sent {
		record := &sent[i]
		if id := provider.CanonicalMessageID(record.InternetMessageID); id != "" {
			r.byMessageID[id] = record
		}
		if id := provider.CanonicalMessageID(record.ProviderMessageID); id != "" {
			r.byMessageID[id] = record
		}
		if addr := validator.NormalizeAddress(record.ToEmail); addr != "" {
			r.byAddress[addr] = record
		}
	}
	return r
}

// Resolve attempts to pair one inbound message with an outbound record.
// First match wins: In-Reply-To, then each References token, then the sender
// address, then the envelope sender. A repeated provider message ID within
// the same pass (pagination overlap) is suppressed before any store work.
func (r *Resolver) Resolve(msg provider.InboundMessage) (*Match, bool) {
	if msg.ProviderMessageID != "" {
		if _, dup := r.seen[msg.ProviderMessageID]; dup {
			return nil, false
		}
		r.seen[msg.ProviderMessageID] = struct{}{}
	}

	if id := provider.CanonicalMessageID(msg.InReplyTo); id != "" {
		if record, ok := r.byMessageID[id]; ok {
			return &Match{Outbound: record, Inbound: msg, Basis: MatchInReplyTo}, true
		}
	}

	for _, token := range provider.SplitReferences(msg.References) {
		if record, ok := r.byMessageID[provider.CanonicalMessageID(token)]; ok {
			return &Match{Outbound: record, Inbound: msg, Basis: MatchReferences}, true
		}
	}

	if addr := validator.NormalizeAddress(msg.FromAddress); addr != "" {
		if record, ok := r.byAddress[addr]; ok {
			return &Match{Outbound: record, Inbound: msg, Basis: MatchAddress}, true
		}
	}

	if addr := validator.NormalizeAddress(msg.Sender); addr != "" {
		if record, ok := r.byAddress[addr]; ok {
			return &Match{Outbound: record, Inbound: msg, Basis: MatchSender}, true
		}
	}

	return nil, false
}
