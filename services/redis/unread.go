package redis

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func unreadKey(matchID string, userID uint) string {
	return fmt.Sprintf("unread:%s:%d", matchID, userID)
}

// IncrementUnread bumps the unread counter a user sees for a match. Called
// when the counterparty sends a message.
func (rc *RedisClient) IncrementUnread(matchID string, userID uint) error {
	return rc.Client.Incr(rc.Ctx, unreadKey(matchID, userID)).Err()
}

// ResetUnread clears the counter when the user opens the chat.
func (rc *RedisClient) ResetUnread(matchID string, userID uint) error {
	return rc.Client.Del(rc.Ctx, unreadKey(matchID, userID)).Err()
}

// GetUnread returns the current counter; a missing key counts as zero.
func (rc *RedisClient) GetUnread(matchID string, userID uint) (int64, error) {
	n, err := rc.Client.Get(rc.Ctx, unreadKey(matchID, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}
