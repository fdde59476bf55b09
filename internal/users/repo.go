package users

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/laptopshop/pkg/db"
	"github.com/angelmondragon/laptopshop/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// Repository stores shopper accounts. Emails are kept normalized, so
// lookups compare with plain equality.
type Repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

func (r *Repository) users(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.User{})
}

// Create inserts the account. A unique violation on email becomes
// ErrEmailTaken so a registration race still reports the duplicate.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	err := r.db.WithContext(ctx).Create(user).Error
	switch {
	case err == nil:
		return user, nil
	case db.IsUniqueViolation(err, ""):
		return nil, ErrEmailTaken
	default:
		return nil, err
	}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users(ctx).Where("email = ?", NormalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists lets registration refuse a duplicate before paying for a
// password hash.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.users(ctx).Where("email = ?", NormalizeEmail(email)).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecordLogin stamps last_login_at and, when rehash is non-empty, swaps in
// the upgraded password hash in the same statement.
func (r *Repository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time, rehash string) error {
	changes := map[string]any{"last_login_at": at}
	if rehash != "" {
		changes["password_hash"] = rehash
	}
	res := r.users(ctx).Where("id = ?", id).UpdateColumns(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
