package models

import (
	"time"

	"gorm.io/datatypes"
)

type House struct {
	BaseModel

	UserID        uint           `gorm:"not null;index" json:"user_id"` // owning landlord
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `json:"description"`
	Price         float64        `gorm:"not null;type:decimal(10,2)" json:"price"`
	Location      string         `gorm:"not null;index" json:"location"`
	Images        datatypes.JSON `gorm:"type:jsonb" json:"images"` // ordered array of public URLs
	Status        string         `gorm:"not null;default:available" json:"status"`
	Bedrooms      int            `gorm:"not null;default:1" json:"bedrooms"`
	Bathrooms     int            `gorm:"not null;default:1" json:"bathrooms"`
	Size          *int           `json:"size"`
	PropertyType  string         `json:"property_type"`
	AvailableFrom *time.Time     `gorm:"type:date" json:"available_from"` // NULL means available now

	// Relationships
	Owner        User          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	TourRequests []TourRequest `gorm:"foreignKey:HouseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
