package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/outreachly/replysync-backend/internal/models"
	"github.com/outreachly/replysync-backend/internal/provider"
	"github.com/outreachly/replysync-backend/internal/repository"
)

// OrchestratorConfig holds the tunables of one synchronization pass
type OrchestratorConfig struct {
	// LockKey names the run lock shared by all process instances
	LockKey string
	// LockTTL must exceed the worst-case pass duration so a crashed holder
	// self-expires instead of deadlocking future passes
	LockTTL time.Duration
	// PassTimeout bounds one whole pass
	PassTimeout time.Duration
	// WorkerCount bounds per-account concurrency
	WorkerCount int
	// FetchLimit caps messages fetched per account per pass
	FetchLimit int
	// LookbackDays bounds the outbound match window and the default cursor
	LookbackDays int
}

// AccountResult is the per-account outcome of one pass
type AccountResult struct {
	AccountID       uint   `json:"accountId"`
	AccountEmail    string `json:"accountEmail"`
	Success         bool   `json:"success"`
	RepliesDetected int    `json:"repliesDetected"`
	MessagesChecked int    `json:"messagesChecked"`
	Error           string `json:"error,omitempty"`
}

// Summary aggregates one pass for the trigger response and the status
// endpoint
type Summary struct {
	AlreadyRunning bool            `json:"alreadyRunning,omitempty"`
	Accounts       int             `json:"accounts"`
	Results        []AccountResult `json:"results"`
	TotalReplies   int             `json:"totalReplies"`
	TotalMessages  int             `json:"totalMessages"`
	Duration       time.Duration   `json:"-"`
	DurationMillis int64           `json:"duration"`
	StartedAt      time.Time       `json:"startedAt"`
}

// Orchestrator drives one synchronization pass across all connected accounts.
// It is stateless between passes apart from the last summary kept for the
// status endpoint; all durable state lives in the store.
type Orchestrator struct {
	accounts repository.AccountRepository
	messages repository.MessageRepository
	cursors  repository.CursorRepository
	locks    repository.LockRepository
	recorder *ReplyRecorder
	registry *provider.Registry
	limiter  *ProviderLimiter
	cfg      OrchestratorConfig
	logger   *slog.Logger

	mu   sync.Mutex
	last *Summary
}

// NewOrchestrator wires an Orchestrator from its collaborators
func NewOrchestrator(
	accounts repository.AccountRepository,
	messages repository.MessageRepository,
	cursors repository.CursorRepository,
	locks repository.LockRepository,
	recorder *ReplyRecorder,
	registry *provider.Registry,
	limiter *ProviderLimiter,
	cfg OrchestratorConfig,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = 100
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 30
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 120 * time.Second
	}
	if cfg.PassTimeout <= 0 {
		cfg.PassTimeout = 60 * time.Second
	}
	if cfg.LockKey == "" {
		cfg.LockKey = "reply-sync"
	}
	return &Orchestrator{
		accounts: accounts,
		messages: messages,
		cursors:  cursors,
		locks:    locks,
		recorder: recorder,
		registry: registry,
		limiter:  limiter,
		cfg:      cfg,
		logger:   logger,
	}
}

// RunPass executes one synchronization pass. Lock contention is a normal
// outcome reported via Summary.AlreadyRunning, not an error. One account's
// failure never aborts the others; a store-level failure acquiring accounts
// aborts the pass with the lock still released.
func (o *Orchestrator) RunPass(ctx context.Context) (*Summary, error) {
	started := time.Now().UTC()
	holder := uuid.NewString()

	acquired, err := o.locks.Acquire(ctx, o.cfg.LockKey, holder, o.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		o.logger.Info("sync pass skipped, already running", slog.String("lock_key", o.cfg.LockKey))
		return &Summary{AlreadyRunning: true, StartedAt: started}, nil
	}
	defer func() {
		// Release with a fresh context so a pass-deadline expiry cannot leave
		// the lock held for a full TTL.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.locks.Release(releaseCtx, o.cfg.LockKey, holder); err != nil {
			o.logger.Warn("failed to release run lock", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, o.cfg.PassTimeout)
	defer cancel()

	accounts, err := o.accounts.ListConnected(ctx)
	if err != nil {
		return nil, fmt.Errorf("list connected accounts: %w", err)
	}

	o.logger.Info("sync pass started",
		slog.Int("accounts", len(accounts)),
		slog.Int("workers", o.cfg.WorkerCount))

	results := make([]AccountResult, len(accounts))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.cfg.WorkerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = o.syncAccount(ctx, &accounts[i])
			}
		}()
	}
	for i := range accounts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := &Summary{
		Accounts:  len(accounts),
		Results:   results,
		StartedAt: started,
		Duration:  time.Since(started),
	}
	summary.DurationMillis = summary.Duration.Milliseconds()
	for _, res := range results {
		summary.TotalReplies += res.RepliesDetected
		summary.TotalMessages += res.MessagesChecked
	}

	o.mu.Lock()
	o.last = summary
	o.mu.Unlock()

	o.logger.Info("sync pass finished",
		slog.Int("accounts", summary.Accounts),
		slog.Int("total_replies", summary.TotalReplies),
		slog.Int("total_messages", summary.TotalMessages),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

// LastSummary returns the most recent pass summary, or nil before the first
// pass of this process.
func (o *Orchestrator) LastSummary() *Summary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// syncAccount processes one account: build indices, fetch since the cursor,
// resolve and record each message in batch order, then advance the cursor to
// the poll start time if the fetch succeeded.
func (o *Orchestrator) syncAccount(ctx context.Context, account *models.EmailAccount) AccountResult {
	result := AccountResult{AccountID: account.ID, AccountEmail: account.Email}

	adapter := o.registry.Get(account.Provider)
	if adapter == nil {
		result.Error = fmt.Sprintf("unsupported provider %q", account.Provider)
		return result
	}

	pollStart := time.Now().UTC()
	lookback := pollStart.AddDate(0, 0, -o.cfg.LookbackDays)

	since, err := o.cursors.GetCursor(ctx, account.ID, account.Provider, lookback)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	sent, err := o.messages.ListSentSince(ctx, account.ID, lookback)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	resolver := NewResolver(sent)

	if err := o.limiter.Wait(ctx, account.Provider); err != nil {
		result.Error = err.Error()
		return result
	}

	batch, err := adapter.ListMessagesSince(ctx, account, since, o.cfg.FetchLimit)
	if err != nil {
		// Fetch failures leave the cursor untouched; the window is retried
		// on the next scheduled pass.
		o.logger.Warn("fetch failed",
			slog.Uint64("account_id", uint64(account.ID)),
			slog.String("provider", account.Provider),
			slog.String("error", err.Error()))
		result.Error = err.Error()
		return result
	}

	for _, msg := range batch {
		result.MessagesChecked++
		match, ok := resolver.Resolve(msg)
		if !ok {
			continue
		}
		recorded, err := o.recorder.Apply(ctx, account, match)
		if err != nil {
			// Message-level failures are logged and left for a later pass;
			// the reply-row idempotency gate makes the retry safe.
			o.logger.Error("failed to apply reply",
				slog.Uint64("account_id", uint64(account.ID)),
				slog.String("provider_message_id", msg.ProviderMessageID),
				slog.String("error", err.Error()))
			continue
		}
		if recorded {
			result.RepliesDetected++
		}
	}

	// The cursor advances to the poll start, not the newest received_at, so
	// messages arriving out of order during the poll are re-scanned rather
	// than lost.
	if err := o.cursors.SetCursor(ctx, account.ID, account.Provider, pollStart); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	return result
}
