package models

import "time"

// BaseModel is the common identity of every persisted row. Records are hard
// deleted, so there is no soft-delete column.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
