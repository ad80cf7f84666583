// Package auth issues and resolves the opaque bearer tokens the API
// authenticates with. Tokens live in Redis with a sliding TTL; the payload
// is the resolved actor, so a request never touches Postgres to
// authenticate.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-travel/meridian/internal/shared"
	"github.com/meridian-travel/meridian/internal/users"
)

const tokenBytes = 32

// Service manages login, logout and token resolution.
type Service struct {
	client    *redis.Client
	directory *users.Directory
	logger    *slog.Logger
	ttl       time.Duration
}

// NewService constructs the auth service.
func NewService(client *redis.Client, directory *users.Directory, logger *slog.Logger, ttl time.Duration) *Service {
	return &Service{client: client, directory: directory, logger: logger, ttl: ttl}
}

// Login verifies credentials and issues a bearer token bound to the
// account's actor snapshot.
func (s *Service) Login(ctx context.Context, email, password string) (string, shared.Actor, error) {
	user, err := s.directory.Authenticate(ctx, email, password)
	if err != nil {
		return "", shared.Actor{}, err
	}

	actor := shared.Actor{ID: user.ID, Role: user.Role, Permissions: user.Permissions}
	token, err := newToken()
	if err != nil {
		return "", shared.Actor{}, shared.InternalError(fmt.Errorf("auth: generate token: %w", err))
	}

	payload, err := json.Marshal(actor)
	if err != nil {
		return "", shared.Actor{}, shared.InternalError(fmt.Errorf("auth: marshal actor: %w", err))
	}
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", shared.Actor{}, shared.InternalError(fmt.Errorf("auth: store session: %w", err))
	}

	s.logger.Info("login", slog.String("actor", actor.ID.String()))
	return token, actor, nil
}

// Resolve maps a bearer token back to its actor and slides the TTL.
func (s *Service) Resolve(ctx context.Context, token string) (shared.Actor, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return shared.Actor{}, shared.UnauthorizedError("invalid or expired token")
		}
		return shared.Actor{}, shared.InternalError(fmt.Errorf("auth: load session: %w", err))
	}

	var actor shared.Actor
	if err := json.Unmarshal(payload, &actor); err != nil {
		return shared.Actor{}, shared.InternalError(fmt.Errorf("auth: unmarshal actor: %w", err))
	}

	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	return actor, nil
}

// Logout revokes a token. Revoking an unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return shared.InternalError(fmt.Errorf("auth: revoke session: %w", err))
	}
	return nil
}

func (s *Service) key(token string) string {
	return "meridian:session:" + token
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
