package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"task_tracker/internal/apperrors"
	"task_tracker/internal/models"
	"task_tracker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned by ParseToken for tokens that fail validation.
var ErrInvalidToken = errors.New("invalid token")

// AuthService handles credential checks, registration and token issuance.
type AuthService struct {
	users      repository.UserRepo
	hasher     PasswordHasher
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(users repository.UserRepo, hasher PasswordHasher, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		hasher:     hasher,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Authenticate looks the user up and verifies the password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}
	if u == nil {
		return nil, apperrors.New(apperrors.CodeUserNotFound, fmt.Sprintf("User with username: `%s` not found", username))
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, apperrors.New(apperrors.CodeInvalidCredentials, "Invalid credentials")
	}
	return u, nil
}

// Register hashes the password and stores the user. The store's unique
// constraint decides races between concurrent registrations of one name.
func (s *AuthService) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyPassword):
			return nil, apperrors.Validation(apperrors.ValidationMessage, "`password` must not be blank")
		case errors.Is(err, bcrypt.ErrPasswordTooLong):
			return nil, apperrors.Validation(apperrors.ValidationMessage, "`password` must be at most 72 bytes")
		}
		return nil, err
	}

	u, err := s.users.Create(ctx, models.NewUser{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Wrap(apperrors.CodeUserAlreadyExists,
				fmt.Sprintf("User with username: `%s` already exists", in.Username), err)
		}
		return nil, err
	}
	return u, nil
}

// IssueToken authenticates and returns a signed, expiring bearer token.
func (s *AuthService) IssueToken(ctx context.Context, username, password string) (string, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.issueToken(u)
}

// ParseToken parses JWT and returns userID
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// CheckActive reports whether the account is enabled.
func (s *AuthService) CheckActive(u models.User) bool {
	return u.IsActive()
}

// issueToken signs a JWT for u.
func (s *AuthService) issueToken(u *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(u.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
