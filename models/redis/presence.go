package redis

import "time"

// Presence is the value stored under a user's presence key while they hold
// an open socket connection.
type Presence struct {
	Username    string    `json:"username"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// LastSeen replaces the presence record when the socket disconnects.
type LastSeen struct {
	Username string    `json:"username"`
	SeenAt   time.Time `json:"seenAt"`
}
