package entity

import "time"

// Item sale status, mutated by the seller.
const (
	ItemStatusAvailable = "available"
	ItemStatusSold      = "sold"
	ItemStatusPending   = "pending"
)

// Admin-gated listing visibility. Non-admin buyers only ever see approved
// items; sellers see their own items regardless of approval.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type ItemImage struct {
	ID           string `json:"id" firestore:"id"`
	URL          string `json:"url" firestore:"url"`
	DisplayOrder int    `json:"display_order" firestore:"displayOrder"`
}

type Item struct {
	ID          string      `json:"id" firestore:"id"`
	SellerID    string      `json:"seller_id" firestore:"sellerId"`
	CategoryID  string      `json:"category_id" firestore:"categoryId"`
	Title       string      `json:"title" firestore:"title"`
	Description string      `json:"description" firestore:"description"`
	Price       float64     `json:"price" firestore:"price"`
	Images      []ItemImage `json:"images" firestore:"images"`

	Status         string `json:"status" firestore:"status"`
	ApprovalStatus string `json:"approval_status" firestore:"approvalStatus"`

	Views     int       `json:"views" firestore:"views"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
