package models

type User struct {
	BaseModel

	FirstName    string `gorm:"not null" json:"fname"`
	LastName     string `gorm:"not null" json:"lname"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"not null;default:tenant" json:"role"`
	Phone        string `json:"phone"`
	Bio          string `json:"bio"`
	AvatarURL    string `json:"avatar"`

	// Relationships
	Houses []House `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
