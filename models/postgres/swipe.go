package postgres

import "time"

const (
	SwipeLike = "like"
	SwipePass = "pass"
)

/*
 * 'Swipe' records one discovery-card decision. A mutual pair of likes is
 * what creates a Match; a pass just hides the target from future discovery.
 */
type Swipe struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   uint      `gorm:"not null;uniqueIndex:idx_swipes_actor_target" json:"actorId"`
	TargetID  uint      `gorm:"not null;uniqueIndex:idx_swipes_actor_target" json:"targetId"`
	Action    string    `gorm:"size:10;not null" json:"action"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Actor  User `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE" json:"-"`
	Target User `gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE" json:"-"`
}
