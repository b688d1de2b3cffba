package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studyload/models"
)

var (
	ErrNoSession   = errors.New("session not found")
	ErrInvalidCSRF = errors.New("invalid csrf token")
)

const redisTimeout = 5 * time.Second

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID uuid.UUID) string {
	return "user_sessions:" + userID.String()
}

// OpenRedisPool parses a redis URL, sizes the pool and pings the server.
func OpenRedisPool(ctx context.Context, dsn string) (*redis.Client, error) {
	opt, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse redis DSN: %w", err)
	}

	opt.PoolSize = 100
	opt.MinIdleConns = 2
	opt.DialTimeout = 5 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// StoreSession saves a session hash and indexes it under its user.
func StoreSession(ctx context.Context, client *redis.Client, s models.Session, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	key := sessionKey(s.Token)
	fields := map[string]any{
		"user_id":       s.UserID.String(),
		"created_at":    s.CreatedAt.Format(time.RFC3339),
		"expires_at":    s.ExpiresAt.Format(time.RFC3339),
		"last_activity": s.LastActivity.Format(time.RFC3339),
		"csrf_token":    s.CSRFToken,
		"user_agent":    s.UserAgent,
		"ip_address":    s.IPAddress,
	}

	_, err := client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, ttl)
		pipe.SAdd(ctx, userSessionsKey(s.UserID), key)
		return nil
	})
	return err
}

// GetSession retrieves session details from Redis
func GetSession(ctx context.Context, client *redis.Client, token string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoSession
	}
	return parseSession(token, data)
}

func parseSession(token string, data map[string]string) (*models.Session, error) {
	userID, err := uuid.Parse(data["user_id"])
	if err != nil {
		return nil, fmt.Errorf("session user id: %w", err)
	}
	s := &models.Session{
		Token:     token,
		UserID:    userID,
		CSRFToken: data["csrf_token"],
		UserAgent: data["user_agent"],
		IPAddress: data["ip_address"],
	}
	for field, dst := range map[string]*time.Time{
		"created_at":    &s.CreatedAt,
		"expires_at":    &s.ExpiresAt,
		"last_activity": &s.LastActivity,
	} {
		if data[field] == "" {
			continue
		}
		if *dst, err = time.Parse(time.RFC3339, data[field]); err != nil {
			return nil, fmt.Errorf("session %s: %w", field, err)
		}
	}
	return s, nil
}

// DeleteSession removes a single session and its reference in the user index
func DeleteSession(ctx context.Context, client *redis.Client, token string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	raw, err := client.HGet(ctx, sessionKey(token), "user_id").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return client.Del(ctx, sessionKey(token)).Err()
	}

	if err := client.SRem(ctx, userSessionsKey(userID), sessionKey(token)).Err(); err != nil {
		return err
	}
	return client.Del(ctx, sessionKey(token)).Err()
}

func UpdateLastActivityRedis(ctx context.Context, client *redis.Client, token string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	return client.HSet(ctx, sessionKey(token), "last_activity", now.Format(time.RFC3339)).Err()
}

// AuthorizeSession resolves a live session to its user. A non-empty csrf
// token must match the one stored with the session.
func AuthorizeSession(ctx context.Context, client *redis.Client, token, csrf string, now time.Time) (uuid.UUID, error) {
	s, err := GetSession(ctx, client, token)
	if err != nil {
		return uuid.Nil, err
	}
	if s.Expired(now) {
		return uuid.Nil, ErrNoSession
	}
	if csrf != "" && csrf != s.CSRFToken {
		return uuid.Nil, ErrInvalidCSRF
	}
	return s.UserID, nil
}

// DeleteAllUserSessions removes all sessions associated with a specific user
func DeleteAllUserSessions(ctx context.Context, client *redis.Client, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	keys, err := client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		if err := client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return client.Del(ctx, userSessionsKey(userID)).Err()
}

// RedisSessions adapts the session helpers above to a single client, TTL and
// clock so request handlers do not carry them around.
type RedisSessions struct {
	Client *redis.Client
	TTL    time.Duration
	Now    func() time.Time
}

func (s RedisSessions) Save(ctx context.Context, session models.Session) error {
	return StoreSession(ctx, s.Client, session, s.TTL)
}

func (s RedisSessions) Authorize(ctx context.Context, token, csrf string) (uuid.UUID, error) {
	now := s.now()
	userID, err := AuthorizeSession(ctx, s.Client, token, csrf, now)
	if err != nil {
		return uuid.Nil, err
	}
	if err := UpdateLastActivityRedis(ctx, s.Client, token, now); err != nil {
		return uuid.Nil, fmt.Errorf("touch session: %w", err)
	}
	return userID, nil
}

func (s RedisSessions) Delete(ctx context.Context, token string) error {
	return DeleteSession(ctx, s.Client, token)
}

func (s RedisSessions) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	return DeleteAllUserSessions(ctx, s.Client, userID)
}

func (s RedisSessions) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
