package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	userDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username      string    `gorm:"not null;size:150;uniqueIndex"`
	Email         string    `gorm:"not null;size:254;uniqueIndex"`
	PasswordHash  string    `gorm:"not null;size:100"`
	FirstName     string    `gorm:"size:150"`
	LastName      string    `gorm:"size:150"`
	Age           int       `gorm:"not null"`
	ProfilePicURL string    `gorm:"size:500"`
	Role          string    `gorm:"not null;size:20;default:user"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of user.Repository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Save persists a new account. A username or email taken concurrently
// surfaces as a conflict.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("username or email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindByID retrieves an account by its unique identifier.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return toDomainUser(&model), nil
}

// FindByUsername retrieves an account by username.
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", username)
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return toDomainUser(&model), nil
}

// ExistsByUsername reports whether the username is taken.
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// ExistsByEmail reports whether the email is taken.
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *GormUserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where(query, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

// --- Conversion Helpers ---

func toUserModel(u *userDomain.User) *UserModel {
	p := u.Profile()
	return &UserModel{
		ID:            u.ID(),
		Username:      u.Username(),
		Email:         u.Email(),
		PasswordHash:  u.PasswordHash(),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Age:           p.Age,
		ProfilePicURL: p.ProfilePicURL,
		Role:          string(u.Role()),
		Active:        u.IsActive(),
		CreatedAt:     u.CreatedAt(),
		UpdatedAt:     u.UpdatedAt(),
	}
}

func toDomainUser(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(
		m.ID,
		m.Username,
		m.Email,
		m.PasswordHash,
		userDomain.Profile{
			FirstName:     m.FirstName,
			LastName:      m.LastName,
			Age:           m.Age,
			ProfilePicURL: m.ProfilePicURL,
		},
		auth.Role(m.Role),
		m.Active,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
