package models

import "time"

type TourRequest struct {
	BaseModel

	HouseID       uint      `gorm:"not null;index" json:"house_id"`
	TenantID      uint      `gorm:"not null;index" json:"tenant_id"`
	LandlordID    uint      `gorm:"not null;index" json:"landlord_id"` // denormalized from the house at creation
	PreferredDate time.Time `gorm:"not null;type:date" json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"` // "HH:MM", optional
	Message       string    `json:"message"`
	Status        string    `gorm:"not null;default:pending" json:"status"`

	// Relationships
	House    House `gorm:"foreignKey:HouseID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Tenant   User  `gorm:"foreignKey:TenantID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Landlord User  `gorm:"foreignKey:LandlordID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
