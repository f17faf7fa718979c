package models

import "time"

type Message struct {
	BaseModel

	SenderID   uint       `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index" json:"receiver_id"`
	HouseID    *uint      `gorm:"index" json:"house_id"` // optional listing the thread is about
	Content    string     `gorm:"not null;column:message_content" json:"message_content"`
	ReadAt     *time.Time `json:"read_at"`

	// Relationships
	Sender   User   `gorm:"foreignKey:SenderID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Receiver User   `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	House    *House `gorm:"foreignKey:HouseID;constraint:OnUpdate:Cascade,OnDelete:SET NULL" json:"-"`
}
