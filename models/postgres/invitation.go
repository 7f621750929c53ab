package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invitation statuses. The status field is a closed enum: the only legal
// moves are the ones listed in invitationTransitions, terminal states are
// immutable.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationDeclined  = "declined"
	InvitationCancelled = "cancelled"
)

var invitationTransitions = map[string][]string{
	InvitationPending: {InvitationAccepted, InvitationDeclined, InvitationCancelled},
}

// ValidInvitationTransition reports whether moving from -> to is allowed.
func ValidInvitationTransition(from, to string) bool {
	for _, next := range invitationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

/*
 * 'Invitation' is a one-directional proposal to work out together. Accepting
 * it is tracked here; it does not create a Match (matches come from swipes).
 */
type Invitation struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"senderId"`
	RecipientID uint      `gorm:"not null;index" json:"recipientId"`
	Activity    string    `gorm:"size:200;not null" json:"activity"`
	ProposedAt  time.Time `json:"proposedAt"`
	Status      string    `gorm:"size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Sender    User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Status == "" {
		i.Status = InvitationPending
	}
	return nil
}
