package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutSession statuses, same closed-enum treatment as invitations.
const (
	SessionScheduled = "scheduled"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

var sessionTransitions = map[string][]string{
	SessionScheduled: {SessionCompleted, SessionCancelled},
}

// ValidSessionTransition reports whether moving from -> to is allowed.
func ValidSessionTransition(from, to string) bool {
	for _, next := range sessionTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

/*
 * 'WorkoutSession' is a planned group workout. The creator schedules it,
 * other users join via SessionParticipant rows.
 */
type WorkoutSession struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	CreatorID   uint      `gorm:"not null;index" json:"creatorId"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Activity    string    `gorm:"size:100;not null" json:"activity"`
	Location    string    `gorm:"size:200" json:"location"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Status      string    `gorm:"size:20;not null;default:scheduled" json:"status"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *WorkoutSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SessionScheduled
	}
	return nil
}

/*
 * 'SessionParticipant' joins a user to a workout session. A user can join a
 * session at most once.
 */
type SessionParticipant struct {
	SessionID string    `gorm:"primaryKey;size:36" json:"sessionId"`
	UserID    uint      `gorm:"primaryKey" json:"userId"`
	JoinedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"joinedAt"`

	// Relationships
	Session WorkoutSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	User    User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
