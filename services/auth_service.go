package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rendezvous.club/configs"
	"rendezvous.club/configs/configslog"
	"rendezvous.club/models"
	"rendezvous.club/pkg/session"
	"rendezvous.club/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError is the typed error set for authentication.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrAuthInvalidCredentials AuthServiceError = "invalid email or password"
	ErrAuthEmailTaken         AuthServiceError = "email is already registered"
	ErrAuthUsernameTaken      AuthServiceError = "username is already taken"
	ErrAuthAccountSuspended   AuthServiceError = "account is suspended"
	ErrAuthAccountBanned      AuthServiceError = "account is banned"
	ErrAuthInvalidToken       AuthServiceError = "invalid or expired token"
)

const tokenTTL = 30 * 24 * time.Hour

// RegisterInput is the data needed to create a member account.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	FullName string `json:"full_name" validate:"required,min=2,max=150"`
}

// AuthResult pairs a signed token with the profile it identifies.
type AuthResult struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// IAuthService registers and authenticates members and verifies tokens.
type IAuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// VerifyToken turns a bearer token into the explicit session context the
	// middleware attaches to the request.
	VerifyToken(ctx context.Context, token string) (session.Context, error)
}

// AuthService implements IAuthService.
type AuthService struct {
	profileRepo repositories.IProfileRepository
	jwtSecret   []byte
}

func NewAuthService() IAuthService {
	return &AuthService{
		profileRepo: repositories.NewProfileRepository(),
		jwtSecret:   []byte(configs.App.JWTSecret),
	}
}

// NewAuthServiceWithDeps injects the repository and secret (tests).
func NewAuthServiceWithDeps(profileRepo repositories.IProfileRepository, jwtSecret string) IAuthService {
	return &AuthService{profileRepo: profileRepo, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.profileRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrAuthEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.profileRepo.FindByUsername(ctx, input.Username); err == nil {
		return nil, ErrAuthUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Password hashing failed", zap.Error(err))
		return nil, err
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		Username:     input.Username,
		FullName:     input.FullName,
		Status:       models.ProfileStatusActive,
		Role:         models.RoleMember,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		configslog.Log.Error("Profile creation failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	token, err := s.signToken(profile)
	if err != nil {
		return nil, err
	}
	configslog.SLog.Infow("Member registered", "profile_id", profile.ID, "username", profile.Username)
	return &AuthResult{Token: token, Profile: profile}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return nil, ErrAuthInvalidCredentials
	}

	switch profile.Status {
	case models.ProfileStatusSuspended:
		return nil, ErrAuthAccountSuspended
	case models.ProfileStatusBanned:
		return nil, ErrAuthAccountBanned
	}

	now := time.Now().UTC()
	_ = s.profileRepo.Update(ctx, profile, map[string]interface{}{"last_seen_at": &now})

	token, err := s.signToken(profile)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Profile: profile}, nil
}

func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (session.Context, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return session.Context{}, ErrAuthInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return session.Context{}, ErrAuthInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return session.Context{}, ErrAuthInvalidToken
	}
	role, _ := claims["role"].(string)

	// Reject tokens for accounts moderated since issuance.
	profile, err := s.profileRepo.FindByID(ctx, uint(sub))
	if err != nil {
		return session.Context{}, ErrAuthInvalidToken
	}
	if profile.Status != models.ProfileStatusActive {
		return session.Context{}, ErrAuthAccountSuspended
	}
	// The role claim is advisory; the stored role wins.
	if string(profile.Role) != role {
		role = string(profile.Role)
	}

	return session.Context{UserID: profile.ID, Role: models.ProfileRole(role)}, nil
}

func (s *AuthService) signToken(profile *models.Profile) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  float64(profile.ID),
		"role": string(profile.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		configslog.Log.Error("Token signing failed", zap.Error(err))
		return "", err
	}
	return signed, nil
}

var _ IAuthService = (*AuthService)(nil)
