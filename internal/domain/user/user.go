package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxUsername   = 150
	maxName       = 150
	maxEmail      = 254
	maxPictureURL = 500
	minPassword   = 8
	maxPassword   = 72 // bcrypt input limit
	minAge        = 1
	maxAge        = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// Profile is the optional personal information of an account.
type Profile struct {
	FirstName     string
	LastName      string
	Age           int
	ProfilePicURL string
}

// User is a registered account.
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	profile      Profile
	role         auth.Role
	active       bool
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser validates the account data and hashes the password.
func NewUser(username, email, password string, profile Profile) (*User, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if email == "" || !strings.Contains(email, "@") || len(email) > maxEmail {
		return nil, domain.NewValidationError("a valid email is required")
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: hash,
		profile:      profile,
		role:         auth.RoleUser,
		active:       true,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	username, email, passwordHash string,
	profile Profile,
	role auth.Role,
	active bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		profile:      profile,
		role:         role,
		active:       active,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword validates the password length and returns its bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < minPassword {
		return "", domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPassword))
	}
	if len(password) > maxPassword {
		return "", domain.NewValidationError(fmt.Sprintf("password must be at most %d bytes", maxPassword))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password))
	return err == nil
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Profile() Profile     { return u.profile }
func (u *User) Role() auth.Role      { return u.role }
func (u *User) IsActive() bool       { return u.active }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func validateUsername(username string) error {
	if username == "" {
		return domain.NewValidationError("username is required")
	}
	if len(username) > maxUsername {
		return domain.NewValidationError(fmt.Sprintf("username exceeds %d characters", maxUsername))
	}
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError("username may contain only letters, digits and @/./+/-/_")
	}
	return nil
}

func validateProfile(p Profile) error {
	var errs []string
	if len(p.FirstName) > maxName || len(p.LastName) > maxName {
		errs = append(errs, fmt.Sprintf("names are limited to %d characters", maxName))
	}
	if p.Age < minAge || p.Age > maxAge {
		errs = append(errs, fmt.Sprintf("age must be between %d and %d", minAge, maxAge))
	}
	if len(p.ProfilePicURL) > maxPictureURL {
		errs = append(errs, fmt.Sprintf("profile picture URL exceeds %d characters", maxPictureURL))
	}
	if len(errs) > 0 {
		return domain.NewValidationError(strings.Join(errs, "; "))
	}
	return nil
}
