package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'ProGrant' records pro access given to a profile outside of a payment:
 * who granted it, to whom, when and why.
 */
type ProGrant struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GrantedBy *uuid.UUID `gorm:"type:uuid;index" json:"grantedBy"`
	GrantedTo uuid.UUID  `gorm:"type:uuid;not null;index" json:"grantedTo"`
	Reason    string     `gorm:"size:500" json:"reason"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`

	// Relationships
	Granter *Profile `gorm:"foreignKey:GrantedBy;constraint:OnDelete:SET NULL;" json:"-"`
	Grantee Profile  `gorm:"foreignKey:GrantedTo;constraint:OnDelete:CASCADE;" json:"-"`
}

func (ProGrant) TableName() string {
	return "pro_grants"
}

func (g *ProGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
