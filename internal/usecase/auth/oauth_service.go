package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classhub-team/classhub/internal/domain/entities"
	"github.com/classhub-team/classhub/internal/domain/repositories"
	"github.com/classhub-team/classhub/internal/infrastructure/external/oauth"
	"github.com/classhub-team/classhub/pkg/jwt"
)

// usernameAttempts bounds retries when derived usernames collide
const usernameAttempts = 10

// OAuthService handles authentication via Google OAuth
type OAuthService struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	google       *oauth.GoogleProvider
	stateManager *oauth.StateManager
	jwtManager   *jwt.Manager
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	google *oauth.GoogleProvider,
	stateManager *oauth.StateManager,
	jwtManager *jwt.Manager,
) *OAuthService {
	return &OAuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		google:       google,
		stateManager: stateManager,
		jwtManager:   jwtManager,
	}
}

// GoogleAuthURLResponse represents the response for auth URL request
type GoogleAuthURLResponse struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// GetGoogleAuthURL generates the Google OAuth URL
func (s *OAuthService) GetGoogleAuthURL(ctx context.Context) (*GoogleAuthURLResponse, error) {
	state, err := s.stateManager.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &GoogleAuthURLResponse{
		URL:   s.google.GetAuthURL(state),
		State: state,
	}, nil
}

// GoogleCallbackRequest represents the callback request
type GoogleCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User         *entities.User `json:"user"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token,omitempty"`
	ExpiresIn    int64          `json:"expires_in"`
}

// HandleGoogleCallback exchanges the OAuth code, finds or creates the user
// and opens a session
func (s *OAuthService) HandleGoogleCallback(ctx context.Context, req *GoogleCallbackRequest) (*AuthResponse, error) {
	if !s.stateManager.ValidateState(req.State) {
		return nil, entities.ErrOAuthStateMismatch
	}

	token, err := s.google.ExchangeCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	googleUser, err := s.google.GetUserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	user, err := s.userRepo.FindByOAuth(ctx, "google", googleUser.ID)
	switch {
	case err == nil:
		user.RecordLogin()
		user.AvatarURL = &googleUser.Picture
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	case errors.Is(err, entities.ErrUserNotFound):
		user, err = s.linkOrCreateUser(ctx, googleUser)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}

	return s.openSession(ctx, user)
}

// linkOrCreateUser links Google identity to an existing email account or
// creates a fresh user with a derived username
func (s *OAuthService) linkOrCreateUser(ctx context.Context, googleUser *oauth.GoogleUserInfo) (*entities.User, error) {
	provider := "google"

	existing, err := s.userRepo.FindByEmail(ctx, googleUser.Email)
	if err == nil {
		existing.OAuthProvider = &provider
		existing.OAuthID = &googleUser.ID
		existing.AvatarURL = &googleUser.Picture
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to link accounts: %w", err)
		}
		return existing, nil
	}
	if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	username, err := s.availableUsername(ctx, googleUser.Email)
	if err != nil {
		return nil, err
	}

	user := entities.NewUser(username, googleUser.Email, googleUser.Name)
	user.OAuthProvider = &provider
	user.OAuthID = &googleUser.ID
	user.AvatarURL = &googleUser.Picture
	user.RecordLogin()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// availableUsername derives a username from the email local part,
// disambiguating collisions with a numeric suffix
func (s *OAuthService) availableUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 0; i < usernameAttempts; i++ {
		if i > 0 {
			candidate = fmt.Sprintf("%s%d", base, i+1)
		}
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, entities.ErrUserNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
	}
	// Fall back to a unique suffix
	return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8]), nil
}

// openSession issues tokens and persists the refresh token hash
func (s *OAuthService) openSession(ctx context.Context, user *entities.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	tokenHash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to hash refresh token: %w", err)
	}

	session := entities.NewSession(
		user.ID,
		tokenHash,
		time.Now().Add(s.jwtManager.GetRefreshExpiry()),
	)
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// RefreshAccessToken issues a new access token from a valid refresh token
func (s *OAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	tokenHash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, entities.ErrSessionNotFound
	}
	if !session.IsValid() {
		return nil, entities.ErrSessionExpired
	}

	_ = s.sessionRepo.UpdateLastUsed(ctx, session.ID)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// ValidateAccessToken parses an access token and loads its user
func (s *OAuthService) ValidateAccessToken(ctx context.Context, token string) (*entities.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, entities.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, entities.ErrUnauthorized
	}
	return user, nil
}

// Logout revokes the session behind a refresh token
func (s *OAuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return entities.ErrInvalidToken
	}

	session, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return entities.ErrSessionNotFound
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// LogoutAll revokes all sessions for a user
func (s *OAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.RevokeAllByUserID(ctx, userID)
}
