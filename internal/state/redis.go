package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/printshop_console/internal/domain"
	"github.com/Gunvolt24/printshop_console/internal/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "console:session:"

// NewRedis — клиент go-redis по URL (redis://host:6379/0) с проверкой соединения.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RedisStore — состояние сессий в Redis: два ключа на сессию (user, theme).
// ttl > 0 ограничивает жизнь ключей; 0 — без срока.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ ports.StateStore = (*RedisStore)(nil)

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func userKey(sessionID string) string  { return keyPrefix + sessionID + ":user" }
func themeKey(sessionID string) string { return keyPrefix + sessionID + ":theme" }

func (s *RedisStore) SaveUser(ctx context.Context, sessionID string, user domain.Credential) error {
	user.Password = ""
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.rdb.Set(ctx, userKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set user: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadUser(ctx context.Context, sessionID string) (domain.Credential, bool, error) {
	raw, err := s.rdb.Get(ctx, userKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Credential{}, false, nil
	}
	if err != nil {
		return domain.Credential{}, false, fmt.Errorf("redis get user: %w", err)
	}
	var user domain.Credential
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.Credential{}, false, fmt.Errorf("decode user: %w", err)
	}
	return user, true, nil
}

func (s *RedisStore) SaveTheme(ctx context.Context, sessionID string, theme domain.Theme) error {
	if err := s.rdb.Set(ctx, themeKey(sessionID), string(theme), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set theme: %w", err)
	}
	return nil
}

// LoadTheme — сохранённая тема; отсутствующий или испорченный ключ даёт system.
func (s *RedisStore) LoadTheme(ctx context.Context, sessionID string) (domain.Theme, error) {
	v, err := s.rdb.Get(ctx, themeKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.ThemeSystem, nil
	}
	if err != nil {
		return domain.ThemeSystem, fmt.Errorf("redis get theme: %w", err)
	}
	theme, ok := domain.ParseTheme(v)
	if !ok {
		return domain.ThemeSystem, nil
	}
	return theme, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, userKey(sessionID), themeKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
