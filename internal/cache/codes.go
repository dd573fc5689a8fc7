package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound means no code is stored for the key, or it expired.
var ErrCodeNotFound = errors.New("code not found or expired")

// Codes stores short-lived email verification and password reset codes.
// TTL enforcement is delegated to Redis.
type Codes struct {
	rdb *redis.Client
}

func NewCodes(rdb *redis.Client) *Codes {
	return &Codes{rdb: rdb}
}

func (c *Codes) SaveVerifyCode(ctx context.Context, userID, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, verifyKey(userID), code, ttl).Err()
}

func (c *Codes) CheckVerifyCode(ctx context.Context, userID, code string) error {
	return c.check(ctx, verifyKey(userID), code)
}

func (c *Codes) SaveResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, resetKey(email), code, ttl).Err()
}

func (c *Codes) CheckResetCode(ctx context.Context, email, code string) error {
	return c.check(ctx, resetKey(email), code)
}

// check compares and deletes on match so every code is single-use.
func (c *Codes) check(ctx context.Context, key, code string) error {
	stored, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeNotFound
	}
	if err != nil {
		return err
	}
	if stored != code {
		return ErrCodeNotFound
	}
	return c.rdb.Del(ctx, key).Err()
}

func verifyKey(userID string) string {
	return fmt.Sprintf("verify:%s", userID)
}

func resetKey(email string) string {
	return fmt.Sprintf("reset:%s", email)
}
