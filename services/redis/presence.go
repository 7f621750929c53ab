package redis

import (
	redis_models "Spotter/models/redis"
	"encoding/json"
	"fmt"
	"time"
)

const presenceTTL = 24 * time.Hour

func presenceKey(username string) string {
	return fmt.Sprintf("presence:%s", username)
}

func lastSeenKey(username string) string {
	return fmt.Sprintf("last_seen:%s", username)
}

// SetUserOnline records an open socket connection for the user. The TTL is
// a safety net against connections that never get a disconnect event.
func (rc *RedisClient) SetUserOnline(username string) error {
	record := redis_models.Presence{
		Username:    username,
		ConnectedAt: time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal presence: %v", err)
	}
	return rc.Client.Set(rc.Ctx, presenceKey(username), data, presenceTTL).Err()
}

// SetUserOffline clears presence and stamps the last-seen record.
func (rc *RedisClient) SetUserOffline(username string) error {
	if err := rc.Client.Del(rc.Ctx, presenceKey(username)).Err(); err != nil {
		return fmt.Errorf("failed to clear presence: %v", err)
	}
	record := redis_models.LastSeen{
		Username: username,
		SeenAt:   time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal last seen: %v", err)
	}
	return rc.Client.Set(rc.Ctx, lastSeenKey(username), data, 0).Err()
}

// IsUserOnline reports whether the user currently has a socket connection.
func (rc *RedisClient) IsUserOnline(username string) (bool, error) {
	n, err := rc.Client.Exists(rc.Ctx, presenceKey(username)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
