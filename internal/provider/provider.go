// Package provider normalizes mailbox provider inbox listings into the
// common InboundMessage shape consumed by the sync engine. Each adapter wraps
// an injected provider client (token refresh, pagination and transport are
// the client's problem) and is strictly read-only against the remote mailbox.
package provider

import (
	"context"
	"strings"
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
)

// InboundMessage is the provider-neutral view of one fetched inbox message.
// It is ephemeral: built per poll cycle, never persisted directly.
type InboundMessage struct {
	ProviderMessageID string
	InternetMessageID string
	InReplyTo         string
	References        string
	FromAddress       string
	FromName          string
	// Sender is the envelope sender when the provider distinguishes it from
	// the display From; empty otherwise.
	Sender      string
	ToAddress   string
	Subject     string
	ReceivedAt  time.Time
	BodyText    string
	BodyHTML    string
}

// Adapter lists recent messages for one connected account. Implementations
// must return messages strictly newer than since, up to limit, and must not
// retry internally; the orchestrator owns retry policy.
type Adapter interface {
	Name() string
	ListMessagesSince(ctx context.Context, account *models.EmailAccount, since time.Time, limit int) ([]InboundMessage, error)
}

// Registry maps provider names to adapters
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry from the given adapters
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

// Get returns the adapter for a provider name, or nil when unsupported
func (r *Registry) Get(provider string) Adapter {
	return r.adapters[strings.ToLower(strings.TrimSpace(provider))]
}
