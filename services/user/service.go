// Package user supplies accounts and sessions. The scheduling core never
// touches session state; handlers resolve the caller's identity here and
// pass plain ids into the booking service.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"saludagenda/config"
	userRepo "saludagenda/database/repository/user"
	"saludagenda/models"
	"saludagenda/utils"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords, so
// the response does not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSessionExpired means the token is valid but its session was revoked or
// timed out.
var ErrSessionExpired = errors.New("session expired")

// Service manages accounts and token sessions.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.Session, error)
	CurrentSession(ctx context.Context, token string) (*models.User, error)
	ClearSession(ctx context.Context, token string) error
}

// DefaultService implements Service over the user repository and the Redis
// session cache.
type DefaultService struct {
	Repo userRepo.UserRepository
}

func sessionTTL() time.Duration {
	hours := config.AppConfig.SessionTTLHours
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

// Register creates an account. Unknown roles default to patient; doctor
// accounts must name a specialty so the booking catalog stays consistent.
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	role := req.Role
	switch role {
	case models.RolePatient, models.RoleDoctor, models.RoleAdmin:
	case "":
		role = models.RolePatient
	default:
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}
	if role == models.RoleDoctor && strings.TrimSpace(req.Specialty) == "" {
		return nil, errors.New("doctor accounts require a specialty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         role,
		Specialty:    strings.TrimSpace(req.Specialty),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		return nil, err
	}
	created, err := s.Repo.GetByEmail(ctx, account.Email)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("account registered",
		zap.String("userID", created.ID), zap.String("role", created.Role))
	return created, nil
}

// Authenticate verifies credentials and opens a session: a signed JWT whose
// hash is cached in Redis for the session TTL.
func (s *DefaultService) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	account, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := sessionTTL()
	token, err := utils.GenerateToken(account.ID, account.Email, account.Role, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	cache := utils.GetAuthCacheClient()
	if err := cache.Set(ctx, utils.HashToken(token), account.ID, ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to cache session: %w", err)
	}
	return &models.Session{Token: token, User: *account}, nil
}

// CurrentSession resolves a token back to its account. The claims must parse
// and the session hash must still be live in the cache.
func (s *DefaultService) CurrentSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return nil, err
	}
	cache := utils.GetAuthCacheClient()
	userID, err := cache.Get(ctx, utils.HashToken(token)).Result()
	if err != nil || userID != claims.UserID {
		return nil, ErrSessionExpired
	}
	return s.Repo.GetByID(ctx, claims.UserID)
}

// ClearSession revokes the token by deleting its cached hash.
func (s *DefaultService) ClearSession(ctx context.Context, token string) error {
	cache := utils.GetAuthCacheClient()
	return cache.Del(ctx, utils.HashToken(token)).Err()
}
