package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'User' contains the blueprint definition of a User: login identity plus
 * the public profile shown on discovery cards.
 */
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Username     string         `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	DisplayName  string         `gorm:"size:100" json:"displayName"`
	Bio          string         `gorm:"size:500" json:"bio"`
	City         string         `gorm:"size:100" json:"city"`
	Preferences  datatypes.JSON `json:"preferences"` // goals, level, disciplines
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// PublicProfile is the subset of User exposed to other users (match
// listings, discovery cards, invitation inboxes).
type PublicProfile struct {
	ID          uint           `json:"id"`
	Username    string         `json:"username"`
	DisplayName string         `json:"displayName"`
	Bio         string         `json:"bio"`
	City        string         `json:"city"`
	Preferences datatypes.JSON `json:"preferences"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		City:        u.City,
		Preferences: u.Preferences,
	}
}
