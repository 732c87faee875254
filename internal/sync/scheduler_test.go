package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/outreachly/replysync-backend/tests/mocks"
)

// tickingOrchestrator builds an orchestrator whose passes are cheap: the lock
// is always held elsewhere, so each tick only performs one Acquire call.
func tickingOrchestrator(locks *mocks.MockLockRepository) *Orchestrator {
	locks.On("Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	return NewOrchestrator(
		new(mocks.MockAccountRepository),
		new(mocks.MockMessageRepository),
		new(mocks.MockCursorRepository),
		locks,
		NewReplyRecorder(new(mocks.MockReplyRepository), discardLogger()),
		nil,
		NewProviderLimiter(1, 1),
		OrchestratorConfig{},
		discardLogger(),
	)
}

func TestScheduler_StartStop(t *testing.T) {
	locks := new(mocks.MockLockRepository)
	scheduler := NewScheduler(tickingOrchestrator(locks), 10*time.Millisecond, discardLogger())

	assert.False(t, scheduler.IsRunning())

	scheduler.Start()
	assert.True(t, scheduler.IsRunning())

	time.Sleep(50 * time.Millisecond)
	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())

	// The loop ticked at least once while running
	locks.AssertCalled(t, "Acquire", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_StartTwice_SingleLoop(t *testing.T) {
	locks := new(mocks.MockLockRepository)
	scheduler := NewScheduler(tickingOrchestrator(locks), time.Hour, discardLogger())

	scheduler.Start()
	scheduler.Start()
	scheduler.Stop()

	assert.False(t, scheduler.IsRunning())
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	scheduler := NewScheduler(tickingOrchestrator(new(mocks.MockLockRepository)), time.Hour, discardLogger())

	// Must not panic or hang
	scheduler.Stop()
	assert.False(t, scheduler.IsRunning())
}

func TestNewScheduler_DefaultsInterval(t *testing.T) {
	scheduler := NewScheduler(tickingOrchestrator(new(mocks.MockLockRepository)), 0, discardLogger())
	assert.Equal(t, time.Minute, scheduler.interval)
}
