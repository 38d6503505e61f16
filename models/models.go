package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User role constants
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User status constants
const (
	UserStatusActive   = "ACTIVE"
	UserStatusInactive = "INACTIVE"
)

// User represents an account with a custodial wallet. WalletBalance is a
// cached projection of the wallet_transactions ledger and must only be
// mutated by the services package inside a transaction that also writes the
// matching ledger row.
type User struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Username      string          `gorm:"uniqueIndex;not null" json:"username"`
	Email         string          `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string          `json:"-"`
	Role          string          `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	Status        string          `gorm:"type:varchar(10);not null;default:'ACTIVE'" json:"status"`
	WalletBalance decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"wallet_balance"`
	AvatarPath    string          `json:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Session is one issued session token. Revocation is server side: a row with
// RevokedAt set is dead no matter what cookie the client still holds.
type Session struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"-"`
	Token         string     `gorm:"uniqueIndex;not null" json:"-"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	RevokedAt     *time.Time `json:"revoked_at,omitempty"`
	RevokedReason string     `json:"revoked_reason,omitempty"`
	IPAddress     string     `json:"-"`
	UserAgent     string     `json:"-"`
}

// Category groups games for browsing
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Game status constants
const (
	GameStatusActive   = "ACTIVE"
	GameStatusInactive = "INACTIVE"
)

// Game is a sellable catalog item. Only ACTIVE games are purchasable.
type Game struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null" json:"title"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CategoryID  uint            `gorm:"index" json:"category_id"`
	Category    Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImagePath   string          `json:"-"`
	Description string          `json:"description"`
	ReleasedAt  *time.Time      `json:"released_at,omitempty"`
	Status      string          `gorm:"type:varchar(10);not null;default:'ACTIVE'" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartItem is one line of a user's cart. The (user, game) pair is unique;
// adding the same game again increments Qty instead of inserting a new row.
// Cart rows are working state, not an audit record.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_cart_user_game;not null" json:"user_id"`
	GameID    uint      `gorm:"uniqueIndex:idx_cart_user_game;not null" json:"game_id"`
	Game      Game      `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Qty       int       `gorm:"not null;default:1" json:"qty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserGame is an ownership grant: proof that the user may access the game.
// Created once per successful paid purchase, never duplicated, never deleted.
type UserGame struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_games_user_game;not null" json:"user_id"`
	GameID      uint      `gorm:"uniqueIndex:idx_user_games_user_game;not null" json:"game_id"`
	Game        Game      `gorm:"foreignKey:GameID" json:"game,omitempty"`
	PurchasedAt time.Time `json:"purchased_at"`
}
