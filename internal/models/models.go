package models

import (
	"errors"
	"time"
)

// Order represents one checkout attempt. The external reference is the sole
// join key between the checkout path and the payment webhook path; it is
// immutable once the row exists.
type Order struct {
	ID                int64     `db:"id" json:"id"`
	ExternalReference string    `db:"external_reference" json:"external_reference"`
	PayerEmail        string    `db:"payer_email" json:"payer_email"`
	Products          string    `db:"products" json:"products"`
	TotalPrice        float64   `db:"total_price" json:"total_price"`
	Status            string    `db:"status" json:"status"`
	MPPreferenceID    string    `db:"mp_preference_id" json:"mp_preference_id,omitempty"`
	MPPaymentID       string    `db:"mp_payment_id" json:"mp_payment_id,omitempty"`
	MPStatus          string    `db:"mp_status" json:"mp_status,omitempty"`
	MPStatusDetail    string    `db:"mp_status_detail" json:"mp_status_detail,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// LineItem is one cart entry as submitted at checkout. Items are serialized
// into Order.Products as JSON; they are not persisted independently.
type LineItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id,omitempty"`
}

// Order statuses. Initiating is the intent row written before the gateway
// call; Completed and Cancelled are terminal.
const (
	OrderStatusInitiating = "initiating"
	OrderStatusPending    = "pending"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Product represents a catalog entry
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	Category    string    `db:"category" json:"category,omitempty"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Recipe represents club recipe content. Content and VideoURL are gated by
// TierRequired.
type Recipe struct {
	ID           int64     `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description,omitempty"`
	Content      string    `db:"content" json:"content,omitempty"`
	ImageURL     string    `db:"image_url" json:"image_url,omitempty"`
	VideoURL     string    `db:"video_url" json:"video_url,omitempty"`
	TierRequired string    `db:"tier_required" json:"tier_required,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ClubSubscription is a purchasable membership plan
type ClubSubscription struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Tier        string    `db:"tier" json:"tier"`
	Price       float64   `db:"price" json:"price"`
	Description string    `db:"description" json:"description,omitempty"`
	Features    string    `db:"features" json:"features"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClubDiscount is a member discount code
type ClubDiscount struct {
	ID                 int64     `db:"id" json:"id"`
	Code               string    `db:"code" json:"code"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description,omitempty"`
	DiscountPercentage int       `db:"discount_percentage" json:"discount_percentage"`
	TierRequired       string    `db:"tier_required" json:"tier_required,omitempty"`
	ValidUntil         time.Time `db:"valid_until" json:"valid_until"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// ClubMessage is an announcement shown to club members
type ClubMessage struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Content    string    `db:"content" json:"content"`
	TargetTier string    `db:"target_tier" json:"target_tier,omitempty"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ContactRequest is a custom cake inquiry from the storefront
type ContactRequest struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Phone      string    `db:"phone" json:"phone"`
	Product    string    `db:"product" json:"product"`
	Date       string    `db:"date" json:"date"`
	VoucherURL string    `db:"voucher_url" json:"voucher_url,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Membership tiers, lowest to highest
const (
	TierBasic   = "basic"
	TierPremium = "premium"
	TierVIP     = "vip"
)

var tierRank = map[string]int{
	TierBasic:   1,
	TierPremium: 2,
	TierVIP:     3,
}

// TierAtLeast reports whether tier grants access to content requiring
// required. An empty required means the content is open to everyone; an
// unknown tier grants nothing.
func TierAtLeast(tier, required string) bool {
	if required == "" {
		return true
	}
	need, ok := tierRank[required]
	if !ok {
		return false
	}
	have, ok := tierRank[tier]
	if !ok {
		return false
	}
	return have >= need
}

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
	ErrRecipeNotFound  = errors.New("recipe not found")
)
