package postgres

import (
	"time"

	"github.com/google/uuid"
)

/*
 * 'Profile' mirrors a Supabase auth user. Its ID is the auth user id, so the
 * row is created the first time the user signs in.
 */
type Profile struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string     `gorm:"size:255;index" json:"email"`
	DisplayName      string     `gorm:"size:50" json:"displayName"`
	IsAdmin          bool       `gorm:"not null" json:"isAdmin"`
	IsPro            bool       `gorm:"not null" json:"isPro"`
	ProExpiresAt     *time.Time `json:"proExpiresAt,omitempty"`
	StripeCustomerID string     `gorm:"size:255" json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// Relationships
	Stats *UserStats `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"stats,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

// HasActivePro reports whether the pro tier is in effect at now. A pro
// profile without an expiry never lapses.
func (p *Profile) HasActivePro(now time.Time) bool {
	if !p.IsPro {
		return false
	}
	return p.ProExpiresAt == nil || p.ProExpiresAt.After(now)
}
