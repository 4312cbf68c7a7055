package gormstore

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WalletSnapshot holds the single persisted wallet session per client.
type WalletSnapshot struct {
	ClientID  string         `gorm:"primaryKey"`
	Connected bool           `gorm:"not null"`
	Address   string         `gorm:"not null"`
	Balances  datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (WalletSnapshot) TableName() string { return "wallet_snapshots" }

// TokenRow mirrors the created-tokens table.
type TokenRow struct {
	TokenID       string    `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null"`
	Symbol        string    `gorm:"not null;uniqueIndex:uniq_tokens_symbol"`
	Description   string    `gorm:""`
	Category      string    `gorm:"not null"`
	PricePerToken float64   `gorm:"not null"`
	TotalSupply   int64     `gorm:"not null"`
	CreatorName   string    `gorm:"not null"`
	CreatorEmail  string    `gorm:"not null"`
	WebsiteURL    string    `gorm:""`
	TwitterURL    string    `gorm:""`
	ImageURL      string    `gorm:""`
	CreatedAt     time.Time `gorm:"not null;index:idx_tokens_created"`
}

func (TokenRow) TableName() string { return "tokens" }

func (row *TokenRow) BeforeCreate(tx *gorm.DB) error {
	if row.TokenID == "" {
		row.TokenID = uuid.NewString()
	}
	return nil
}

// ChatMessageRow mirrors the chat transcript table.
type ChatMessageRow struct {
	MessageID string    `gorm:"type:uuid;primaryKey"`
	SessionID string    `gorm:"not null;index:idx_chat_session_created,priority:1"`
	Message   string    `gorm:"not null"`
	Response  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_chat_session_created,priority:2"`
}

func (ChatMessageRow) TableName() string { return "chat_messages" }

func (row *ChatMessageRow) BeforeCreate(tx *gorm.DB) error {
	if row.MessageID == "" {
		row.MessageID = uuid.NewString()
	}
	return nil
}
