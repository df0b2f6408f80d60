package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Token status constants
const (
	TokenStatusNormal = 1 // Token is valid
	TokenStatusLogout = 2 // Token was logged out
)

// TokenStore keeps issued tokens per user in a redis hash so logout can revoke them
type TokenStore struct {
	rdb          redis.UniversalClient
	accessExpire time.Duration
	keyPattern   string
}

// NewTokenStore creates a new TokenStore. keyPattern carries one %s for the user id.
func NewTokenStore(rdb redis.UniversalClient, expireHours int, keyPattern string) *TokenStore {
	return &TokenStore{
		rdb:          rdb,
		accessExpire: time.Duration(expireHours) * time.Hour,
		keyPattern:   keyPattern,
	}
}

func (s *TokenStore) tokenKey(userId string) string {
	return fmt.Sprintf(s.keyPattern, userId)
}

// StoreToken stores a token in Redis with normal status
func (s *TokenStore) StoreToken(ctx context.Context, userId, token string) error {
	key := s.tokenKey(userId)

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, token, TokenStatusNormal)
	pipe.Expire(ctx, key, s.accessExpire)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// TokenStatus returns the stored status, 0 if the token is unknown
func (s *TokenStore) TokenStatus(ctx context.Context, userId, token string) (int, error) {
	statusStr, err := s.rdb.HGet(ctx, s.tokenKey(userId), token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get token status: %w", err)
	}

	status, err := strconv.Atoi(statusStr)
	if err != nil {
		return 0, fmt.Errorf("invalid token status value: %w", err)
	}
	return status, nil
}

// IsTokenValid checks if token exists and has normal status
func (s *TokenStore) IsTokenValid(ctx context.Context, userId, token string) (bool, error) {
	status, err := s.TokenStatus(ctx, userId, token)
	if err != nil {
		return false, err
	}
	return status == TokenStatusNormal, nil
}

// InvalidateToken marks a token as logged out
func (s *TokenStore) InvalidateToken(ctx context.Context, userId, token string) error {
	key := s.tokenKey(userId)

	exists, err := s.rdb.HExists(ctx, key, token).Result()
	if err != nil {
		return fmt.Errorf("failed to check token existence: %w", err)
	}
	if !exists {
		return nil
	}

	if err := s.rdb.HSet(ctx, key, token, TokenStatusLogout).Err(); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}
	return nil
}

// CleanInvalidTokens removes tokens that are not in normal status
func (s *TokenStore) CleanInvalidTokens(ctx context.Context, userId string) error {
	key := s.tokenKey(userId)

	tokens, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to get tokens: %w", err)
	}

	var toDelete []string
	for token, statusStr := range tokens {
		if status, _ := strconv.Atoi(statusStr); status != TokenStatusNormal {
			toDelete = append(toDelete, token)
		}
	}

	if len(toDelete) > 0 {
		if err := s.rdb.HDel(ctx, key, toDelete...).Err(); err != nil {
			return fmt.Errorf("failed to delete tokens: %w", err)
		}
	}
	return nil
}
