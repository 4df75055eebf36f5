package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// session values are stored as "<user id>|<created at unix>"
const sessionValueSep = "|"

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// UserForToken returns false for unknown or expired tokens.
func (c *LoginChecker) UserForToken(ctx context.Context, token string) (uuid.UUID, bool, error) {
	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return uuid.Nil, false, err
	}
	if time.Since(createdAt) > c.ttl {
		return uuid.Nil, false, nil
	}

	return userID, true, nil
}

func sessionValue(userID uuid.UUID, createdAt time.Time) string {
	return userID.String() + sessionValueSep + strconv.FormatInt(createdAt.Unix(), 10)
}

func parseSessionValue(val string) (uuid.UUID, time.Time, error) {
	userPart, createdPart, found := strings.Cut(val, sessionValueSep)
	if !found {
		return uuid.Nil, time.Time{}, fmt.Errorf("malformed session value [%s]", val)
	}

	userID, err := uuid.Parse(userPart)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("parse session user id: %w", err)
	}
	createdAtUnix, err := strconv.ParseInt(createdPart, 10, 64)
	if err != nil {
		return uuid.Nil, time.Time{}, fmt.Errorf("parse session created at: %w", err)
	}

	return userID, time.Unix(createdAtUnix, 0), nil
}
