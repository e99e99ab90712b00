package application

import (
	"context"
	"fmt"
	"time"

	userDomain "github.com/Kilat-Pet-Delivery/service-routemap/internal/domain/user"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/auth"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-routemap/pkg/events"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidLogin = "invalid login details"

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Age           int    `json:"age" binding:"required"`
	ProfilePicURL string `json:"profile_pic_url" binding:"omitempty,url"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token, for refresh and logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserDTO is the response representation of an account.
type UserDTO struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name,omitempty"`
	LastName      string    `json:"last_name,omitempty"`
	Age           int       `json:"age"`
	ProfilePicURL string    `json:"profile_pic_url,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// TokenDTO is an issued token pair.
type TokenDTO struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	TokenType    string  `json:"token_type"`
	ExpiresIn    int64   `json:"expires_in"`
	User         UserDTO `json:"user"`
}

// TokenDenylist tracks refresh tokens that were logged out or rotated.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserService manages accounts and their tokens.
type UserService struct {
	repo      userDomain.Repository
	tokens    *auth.JWTManager
	denylist  TokenDenylist
	publisher EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	repo userDomain.Repository,
	tokens *auth.JWTManager,
	denylist TokenDenylist,
	publisher EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		repo:      repo,
		tokens:    tokens,
		denylist:  denylist,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates an account with its profile.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserDTO, error) {
	u, err := userDomain.NewUser(req.Username, req.Email, req.Password, userDomain.Profile{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Age:           req.Age,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsByUsername(ctx, u.Username())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewConflictError("username already taken")
	}
	taken, err = s.repo.ExistsByEmail(ctx, u.Email())
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.NewConflictError("email already registered")
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID().String()),
		zap.String("username", u.Username()),
	)

	publishEvent(ctx, s.publisher, s.logger, events.TopicRouteMapEvents, events.UserRegistered, events.UserRegisteredEvent{
		UserID:     u.ID(),
		Username:   u.Username(),
		OccurredAt: time.Now().UTC(),
	})

	dto := toUserDTO(u)
	return &dto, nil
}

// Login checks the credentials and issues a token pair.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*TokenDTO, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			s.logger.Warn("login failed", zap.String("username", req.Username), zap.String("reason", "unknown user"))
			return nil, domain.NewUnauthorizedError(invalidLogin)
		}
		return nil, err
	}
	if !u.CheckPassword(req.Password) {
		s.logger.Warn("login failed", zap.String("username", req.Username), zap.String("reason", "wrong password"))
		return nil, domain.NewUnauthorizedError(invalidLogin)
	}
	if !u.IsActive() {
		return nil, domain.NewForbiddenError("account not active")
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID().String()))
	return s.issueTokens(u)
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked so each refresh token is usable once.
func (s *UserService) Refresh(ctx context.Context, req RefreshRequest) (*TokenDTO, error) {
	claims, err := s.checkRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return nil, domain.NewUnauthorizedError("invalid refresh token")
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, domain.NewForbiddenError("account not active")
	}

	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return s.issueTokens(u)
}

// Logout revokes the caller's refresh token. Access tokens stay valid until
// they expire.
func (s *UserService) Logout(ctx context.Context, userID uuid.UUID, req RefreshRequest) error {
	claims, err := s.checkRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return err
	}
	if claims.UserID != userID {
		return domain.NewForbiddenError("refresh token belongs to another user")
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	s.logger.Info("user logged out", zap.String("user_id", userID.String()))
	return nil
}

// GetProfile returns the caller's account.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) checkRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateRefreshToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil, domain.NewUnauthorizedError("invalid refresh token")
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, domain.NewUnauthorizedError("refresh token revoked")
	}
	return claims, nil
}

func (s *UserService) issueTokens(u *userDomain.User) (*TokenDTO, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}
	return &TokenDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		User:         toUserDTO(u),
	}, nil
}

func toUserDTO(u *userDomain.User) UserDTO {
	p := u.Profile()
	return UserDTO{
		ID:            u.ID(),
		Username:      u.Username(),
		Email:         u.Email(),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Age:           p.Age,
		ProfilePicURL: p.ProfilePicURL,
		Role:          string(u.Role()),
		CreatedAt:     u.CreatedAt(),
	}
}
