package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Message' belongs to exactly one Match and is immutable once created.
 * Ordering is by CreatedAt with the DB-assigned Seq as tiebreaker, so two
 * messages inserted in the same instant still have a stable total order.
 */
type Message struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Seq       int64     `gorm:"autoIncrement;uniqueIndex" json:"-"`
	MatchID   string    `gorm:"size:36;not null;index" json:"matchId"`
	SenderID  uint      `gorm:"not null" json:"senderId"`
	Text      string    `gorm:"size:1000;not null" json:"text"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	Match  Match `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"-"`
	Sender User  `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
