package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'Match' represents a confirmed pairing of two users that enables chat.
 * The pair is stored normalized (UserAID < UserBID) so the unique index
 * treats (a,b) and (b,a) as the same match.
 */
type Match struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserAID   uint      `gorm:"not null;uniqueIndex:idx_matches_pair" json:"userAId"`
	UserBID   uint      `gorm:"not null;uniqueIndex:idx_matches_pair" json:"userBId"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`

	// Relationships
	UserA User `gorm:"foreignKey:UserAID;constraint:OnDelete:CASCADE" json:"-"`
	UserB User `gorm:"foreignKey:UserBID;constraint:OnDelete:CASCADE" json:"-"`
}

var ErrSelfMatch = errors.New("a match needs two distinct users")

// GORM hook: reject self-matches and normalize the pair order.
func (m *Match) BeforeSave(tx *gorm.DB) error {
	if m.UserAID == m.UserBID {
		return ErrSelfMatch
	}
	if m.UserAID > m.UserBID {
		m.UserAID, m.UserBID = m.UserBID, m.UserAID
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// HasParticipant reports whether the given user is one of the two sides.
func (m *Match) HasParticipant(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// CounterpartyID returns the other side of the match for the given user.
func (m *Match) CounterpartyID(userID uint) uint {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
