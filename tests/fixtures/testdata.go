package fixtures

import (
	"time"

	"github.com/outreachly/replysync-backend/internal/models"
)

// AccountBuilder creates test EmailAccount instances with fluent API
type AccountBuilder struct {
	account models.EmailAccount
}

// NewAccountBuilder creates a new AccountBuilder with sensible defaults
func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{
		account: models.EmailAccount{
			ID:          1,
			Email:       "sender@outreachly.io",
			Provider:    models.ProviderGoogle,
			DisplayName: "Sender One",
			SyncEnabled: true,
			ConnectedAt: time.Now(),
		},
	}
}

// WithID sets the account ID
func (b *AccountBuilder) WithID(id uint) *AccountBuilder {
	b.account.ID = id
	return b
}

// WithEmail sets the mailbox address
func (b *AccountBuilder) WithEmail(email string) *AccountBuilder {
	b.account.Email = email
	return b
}

// WithProvider sets the mailbox provider
func (b *AccountBuilder) WithProvider(provider string) *AccountBuilder {
	b.account.Provider = provider
	return b
}

// WithSyncEnabled sets whether the account participates in sync passes
func (b *AccountBuilder) WithSyncEnabled(enabled bool) *AccountBuilder {
	b.account.SyncEnabled = enabled
	return b
}

// Build returns the constructed EmailAccount
func (b *AccountBuilder) Build() *models.EmailAccount {
	return &b.account
}

// BuildValue returns the constructed EmailAccount as a value (not pointer)
func (b *AccountBuilder) BuildValue() models.EmailAccount {
	return b.account
}

// ContactBuilder creates test Contact instances with fluent API
type ContactBuilder struct {
	contact models.Contact
}

// NewContactBuilder creates a new ContactBuilder with sensible defaults
func NewContactBuilder() *ContactBuilder {
	return &ContactBuilder{
		contact: models.Contact{
			ID:        1,
			Email:     "ada@example.com",
			Name:      "Ada Lovelace",
			Status:    models.ContactStatusContacted,
			CreatedAt: time.Now(),
		},
	}
}

// WithID sets the contact ID
func (b *ContactBuilder) WithID(id uint) *ContactBuilder {
	b.contact.ID = id
	return b
}

// WithEmail sets the contact email address
func (b *ContactBuilder) WithEmail(email string) *ContactBuilder {
	b.contact.Email = email
	return b
}

// WithStatus sets the contact status
func (b *ContactBuilder) WithStatus(status string) *ContactBuilder {
	b.contact.Status = status
	return b
}

// WithReplyReceivedAt sets the first-reply timestamp
func (b *ContactBuilder) WithReplyReceivedAt(t *time.Time) *ContactBuilder {
	b.contact.ReplyReceivedAt = t
	return b
}

// Build returns the constructed Contact
func (b *ContactBuilder) Build() *models.Contact {
	return &b.contact
}

// BuildValue returns the constructed Contact as a value (not pointer)
func (b *ContactBuilder) BuildValue() models.Contact {
	return b.contact
}

// CampaignBuilder creates test Campaign instances with fluent API
type CampaignBuilder struct {
	campaign models.Campaign
}

// NewCampaignBuilder creates a new CampaignBuilder with sensible defaults
func NewCampaignBuilder() *CampaignBuilder {
	return &CampaignBuilder{
		campaign: models.Campaign{
			ID:        1,
			Name:      "Q3 Outreach",
			Status:    "active",
			CreatedAt: time.Now(),
		},
	}
}

// WithID sets the campaign ID
func (b *CampaignBuilder) WithID(id uint) *CampaignBuilder {
	b.campaign.ID = id
	return b
}

// WithName sets the campaign name
func (b *CampaignBuilder) WithName(name string) *CampaignBuilder {
	b.campaign.Name = name
	return b
}

// Build returns the constructed Campaign
func (b *CampaignBuilder) Build() *models.Campaign {
	return &b.campaign
}

// BuildValue returns the constructed Campaign as a value (not pointer)
func (b *CampaignBuilder) BuildValue() models.Campaign {
	return b.campaign
}

// ThreadBuilder creates test EmailThread instances with fluent API
type ThreadBuilder struct {
	thread models.EmailThread
}

// NewThreadBuilder creates a new ThreadBuilder with sensible defaults
func NewThreadBuilder() *ThreadBuilder {
	return &ThreadBuilder{
		thread: models.EmailThread{
			ID:           1,
			AccountID:    1,
			ContactID:    1,
			CampaignID:   1,
			Subject:      "Quick intro",
			Status:       models.ThreadStatusActive,
			MessageCount: 1,
			CreatedAt:    time.Now(),
		},
	}
}

// WithID sets the thread ID
func (b *ThreadBuilder) WithID(id uint) *ThreadBuilder {
	b.thread.ID = id
	return b
}

// WithAccountID sets the owning account ID
func (b *ThreadBuilder) WithAccountID(id uint) *ThreadBuilder {
	b.thread.AccountID = id
	return b
}

// WithContactID sets the contact ID
func (b *ThreadBuilder) WithContactID(id uint) *ThreadBuilder {
	b.thread.ContactID = id
	return b
}

// WithCampaignID sets the campaign ID
func (b *ThreadBuilder) WithCampaignID(id uint) *ThreadBuilder {
	b.thread.CampaignID = id
	return b
}

// WithSubject sets the thread subject
func (b *ThreadBuilder) WithSubject(subject string) *ThreadBuilder {
	b.thread.Subject = subject
	return b
}

// WithStatus sets the thread status
func (b *ThreadBuilder) WithStatus(status string) *ThreadBuilder {
	b.thread.Status = status
	return b
}

// WithCounts sets the message and reply counters
func (b *ThreadBuilder) WithCounts(messages, replies int) *ThreadBuilder {
	b.thread.MessageCount = messages
	b.thread.ReplyCount = replies
	return b
}

// Build returns the constructed EmailThread
func (b *ThreadBuilder) Build() *models.EmailThread {
	return &b.thread
}

// BuildValue returns the constructed EmailThread as a value (not pointer)
func (b *ThreadBuilder) BuildValue() models.EmailThread {
	return b.thread
}

// MessageBuilder creates test EmailMessage instances with fluent API
type MessageBuilder struct {
	message models.EmailMessage
}

// NewMessageBuilder creates a new MessageBuilder defaulting to an outbound row
func NewMessageBuilder() *MessageBuilder {
	now := time.Now()
	return &MessageBuilder{
		message: models.EmailMessage{
			ID:                1,
			AccountID:         1,
			ThreadID:          1,
			ContactID:         1,
			Direction:         models.DirectionSent,
			ProviderMessageID: "prov-msg-1",
			InternetMessageID: "<orig@mail.example>",
			FromEmail:         "sender@outreachly.io",
			ToEmail:           "ada@example.com",
			Subject:           "Quick intro",
			OccurredAt:        now,
			CreatedAt:         now,
		},
	}
}

// WithID sets the message ID
func (b *MessageBuilder) WithID(id uint) *MessageBuilder {
	b.message.ID = id
	return b
}

// WithAccountID sets the owning account ID
func (b *MessageBuilder) WithAccountID(id uint) *MessageBuilder {
	b.message.AccountID = id
	return b
}

// WithThreadID sets the thread ID
func (b *MessageBuilder) WithThreadID(id uint) *MessageBuilder {
	b.message.ThreadID = id
	return b
}

// WithContactID sets the contact ID
func (b *MessageBuilder) WithContactID(id uint) *MessageBuilder {
	b.message.ContactID = id
	return b
}

// WithDirection sets the message direction
func (b *MessageBuilder) WithDirection(direction string) *MessageBuilder {
	b.message.Direction = direction
	return b
}

// WithProviderMessageID sets the provider-assigned message ID
func (b *MessageBuilder) WithProviderMessageID(id string) *MessageBuilder {
	b.message.ProviderMessageID = id
	return b
}

// WithInternetMessageID sets the RFC 5322 Message-ID
func (b *MessageBuilder) WithInternetMessageID(id string) *MessageBuilder {
	b.message.InternetMessageID = id
	return b
}

// WithToEmail sets the recipient address
func (b *MessageBuilder) WithToEmail(email string) *MessageBuilder {
	b.message.ToEmail = email
	return b
}

// WithOccurredAt sets the send or receive timestamp
func (b *MessageBuilder) WithOccurredAt(t time.Time) *MessageBuilder {
	b.message.OccurredAt = t
	return b
}

// Build returns the constructed EmailMessage
func (b *MessageBuilder) Build() *models.EmailMessage {
	return &b.message
}

// BuildValue returns the constructed EmailMessage as a value (not pointer)
func (b *MessageBuilder) BuildValue() models.EmailMessage {
	return b.message
}

// ReplyBuilder creates test Reply instances with fluent API
type ReplyBuilder struct {
	reply models.Reply
}

// NewReplyBuilder creates a new ReplyBuilder with sensible defaults
func NewReplyBuilder() *ReplyBuilder {
	now := time.Now()
	return &ReplyBuilder{
		reply: models.Reply{
			ID:                1,
			ExternalID:        "9f2d7c0a-0000-4000-8000-000000000001",
			AccountID:         1,
			ContactID:         1,
			ThreadID:          1,
			ProviderMessageID: "prov-reply-1",
			InReplyTo:         "<orig@mail.example>",
			Subject:           "Re: Quick intro",
			FromEmail:         "ada@example.com",
			FromName:          "Ada Lovelace",
			ReceivedAt:        now,
			BodyText:          "Sounds interesting, tell me more.",
			CreatedAt:         now,
		},
	}
}

// WithID sets the reply ID
func (b *ReplyBuilder) WithID(id uint) *ReplyBuilder {
	b.reply.ID = id
	return b
}

// WithExternalID sets the externally visible UUID
func (b *ReplyBuilder) WithExternalID(id string) *ReplyBuilder {
	b.reply.ExternalID = id
	return b
}

// WithAccountID sets the owning account ID
func (b *ReplyBuilder) WithAccountID(id uint) *ReplyBuilder {
	b.reply.AccountID = id
	return b
}

// WithThreadID sets the thread ID
func (b *ReplyBuilder) WithThreadID(id uint) *ReplyBuilder {
	b.reply.ThreadID = id
	return b
}

// WithProviderMessageID sets the provider-assigned message ID
func (b *ReplyBuilder) WithProviderMessageID(id string) *ReplyBuilder {
	b.reply.ProviderMessageID = id
	return b
}

// WithFromEmail sets the sender address
func (b *ReplyBuilder) WithFromEmail(email string) *ReplyBuilder {
	b.reply.FromEmail = email
	return b
}

// WithReceivedAt sets the receive timestamp
func (b *ReplyBuilder) WithReceivedAt(t time.Time) *ReplyBuilder {
	b.reply.ReceivedAt = t
	return b
}

// WithProcessed sets the downstream processed flag
func (b *ReplyBuilder) WithProcessed(processed bool) *ReplyBuilder {
	b.reply.Processed = processed
	return b
}

// Build returns the constructed Reply
func (b *ReplyBuilder) Build() *models.Reply {
	return &b.reply
}

// BuildValue returns the constructed Reply as a value (not pointer)
func (b *ReplyBuilder) BuildValue() models.Reply {
	return b.reply
}
