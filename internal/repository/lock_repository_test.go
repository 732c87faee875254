package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/outreachly/replysync-backend/internal/models"
)

// LockRepositoryTestSuite is the test suite for LockRepository
type LockRepositoryTestSuite struct {
	suite.Suite
	db  *gorm.DB
	now time.Time
}

// SetupSuite runs once before all tests
func (s *LockRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.SyncLock{})
	require.NoError(s.T(), err)

	s.db = db
}

// TearDownSuite runs once after all tests
func (s *LockRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SetupTest runs before each test
func (s *LockRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM sync_locks")
	s.now = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
}

// repoAt returns a repository whose clock is frozen at the given time
func (s *LockRepositoryTestSuite) repoAt(now time.Time) LockRepository {
	return NewLockRepositoryWithClock(s.db, func() time.Time { return now })
}

// TestLockRepositoryTestSuite runs the test suite
func TestLockRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(LockRepositoryTestSuite))
}

func (s *LockRepositoryTestSuite) TestAcquire_FreeLock() {
	// Act
	acquired, err := s.repoAt(s.now).Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)

	// Assert
	assert.NoError(s.T(), err)
	assert.True(s.T(), acquired)

	var lock models.SyncLock
	require.NoError(s.T(), s.db.First(&lock, "key = ?", "reply-sync").Error)
	assert.Equal(s.T(), "holder-a", lock.Holder)
	assert.True(s.T(), lock.ExpiresAt.Equal(s.now.Add(time.Minute)))
}

func (s *LockRepositoryTestSuite) TestAcquire_HeldLock_Rejected() {
	// Arrange
	repo := s.repoAt(s.now)
	acquired, err := repo.Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)
	require.NoError(s.T(), err)
	require.True(s.T(), acquired)

	// Act - second holder before expiry
	acquired, err = s.repoAt(s.now.Add(30*time.Second)).Acquire(context.Background(), "reply-sync", "holder-b", time.Minute)

	// Assert
	assert.NoError(s.T(), err)
	assert.False(s.T(), acquired)

	var lock models.SyncLock
	require.NoError(s.T(), s.db.First(&lock, "key = ?", "reply-sync").Error)
	assert.Equal(s.T(), "holder-a", lock.Holder)
}

func (s *LockRepositoryTestSuite) TestAcquire_ExpiredLock_Stolen() {
	// Arrange
	acquired, err := s.repoAt(s.now).Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)
	require.NoError(s.T(), err)
	require.True(s.T(), acquired)

	// Act - past the TTL, a new holder takes over
	later := s.now.Add(2 * time.Minute)
	acquired, err = s.repoAt(later).Acquire(context.Background(), "reply-sync", "holder-b", time.Minute)

	// Assert
	assert.NoError(s.T(), err)
	assert.True(s.T(), acquired)

	var lock models.SyncLock
	require.NoError(s.T(), s.db.First(&lock, "key = ?", "reply-sync").Error)
	assert.Equal(s.T(), "holder-b", lock.Holder)
	assert.True(s.T(), lock.ExpiresAt.Equal(later.Add(time.Minute)))
}

func (s *LockRepositoryTestSuite) TestAcquire_DistinctKeys_Independent() {
	// Act
	repo := s.repoAt(s.now)
	a, err := repo.Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)
	require.NoError(s.T(), err)
	b, err := repo.Acquire(context.Background(), "other-job", "holder-b", time.Minute)
	require.NoError(s.T(), err)

	// Assert
	assert.True(s.T(), a)
	assert.True(s.T(), b)
}

func (s *LockRepositoryTestSuite) TestRelease_ByHolder() {
	// Arrange
	repo := s.repoAt(s.now)
	acquired, err := repo.Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)
	require.NoError(s.T(), err)
	require.True(s.T(), acquired)

	// Act
	err = repo.Release(context.Background(), "reply-sync", "holder-a")

	// Assert - the lock is free again immediately
	assert.NoError(s.T(), err)
	acquired, err = repo.Acquire(context.Background(), "reply-sync", "holder-b", time.Minute)
	assert.NoError(s.T(), err)
	assert.True(s.T(), acquired)
}

func (s *LockRepositoryTestSuite) TestRelease_WrongHolder_NoOp() {
	// Arrange
	repo := s.repoAt(s.now)
	acquired, err := repo.Acquire(context.Background(), "reply-sync", "holder-a", time.Minute)
	require.NoError(s.T(), err)
	require.True(s.T(), acquired)

	// Act - a stale holder must not free someone else's claim
	err = repo.Release(context.Background(), "reply-sync", "holder-stale")

	// Assert
	assert.NoError(s.T(), err)
	acquired, err = s.repoAt(s.now.Add(time.Second)).Acquire(context.Background(), "reply-sync", "holder-b", time.Minute)
	assert.NoError(s.T(), err)
	assert.False(s.T(), acquired)
}
