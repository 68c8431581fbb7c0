package models

import (
	"time"

	"gorm.io/datatypes"
)

// LocalItem is one key of the client-side persistent store.
type LocalItem struct {
	Key       string         `gorm:"type:varchar(64);primaryKey"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:milli"`
}

func (LocalItem) TableName() string {
	return "local_items"
}

// CartItem is the persisted cart line.
type CartItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// ServerSession backs the development server's session cookie.
type ServerSession struct {
	Token     string    `gorm:"type:varchar(64);primaryKey"`
	Subject   string    `gorm:"type:varchar(16);not null"`
	SubjectID int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (ServerSession) TableName() string {
	return "server_sessions"
}
