package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/outreachly/replysync-backend/internal/models"
	"gorm.io/gorm"
)

// AccountRepository defines the interface for email account data access
type AccountRepository interface {
	Create(ctx context.Context, account *models.EmailAccount) error
	GetByID(ctx context.Context, id uint) (*models.EmailAccount, error)
	ListConnected(ctx context.Context) ([]models.EmailAccount, error)
}

// accountRepository implements AccountRepository using GORM
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository instance
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new email account
func (r *accountRepository) Create(ctx context.Context, account *models.EmailAccount) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.EmailAccount, error) {
	var account models.EmailAccount
	result := r.db.WithContext(ctx).First(&account, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", result.Error)
	}
	return &account, nil
}

// ListConnected retrieves all accounts with synchronization enabled, in
// stable ID order so passes visit accounts deterministically.
func (r *accountRepository) ListConnected(ctx context.Context) ([]models.EmailAccount, error) {
	var accounts []models.EmailAccount
	result := r.db.WithContext(ctx).Where("sync_enabled = ?", true).Order("id ASC").Find(&accounts)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", result.Error)
	}
	return accounts, nil
}
