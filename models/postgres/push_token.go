package postgres

import "time"

/*
 * 'PushToken' maps an Expo device token (e.g. "ExponentPushToken[xxx]") to
 * the user it should notify. The token value is the primary key:
 * re-registering an existing token reassigns it to the new owner instead of
 * creating a duplicate, since tokens follow devices, not accounts.
 */
type PushToken struct {
	Token     string    `gorm:"primaryKey;size:255" json:"token"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Platform  string    `gorm:"size:10;not null" json:"platform"` // "ios" or "android"
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
