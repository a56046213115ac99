package model

import "time"

// RentalRequest records a tenant's offer to rent a listing and the
// landlord's response.  It corresponds to a row in `rental_requests`.
// A tenant may hold at most one pending request per listing; the
// repository enforces this with a conditional insert.
//
// Fields:
//  ID              – primary key identifier.
//  TenantID        – user asking to rent.
//  ListingID       – listing being requested.
//  Message         – optional note from the tenant.
//  Status          – pending/accepted/rejected/cancelled.
//  ScheduledVisit  – optional proposed visit time.
//  RespondedAt     – when the landlord replied (null until then).
//  ResponseMessage – optional note from the landlord.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type RentalRequest struct {
	ID              uint64     // rental_requests.id
	TenantID        uint64     // rental_requests.tenant_id
	ListingID       uint64     // rental_requests.listing_id
	Message         string     // rental_requests.message
	Status          string     // rental_requests.status
	ScheduledVisit  *time.Time // rental_requests.scheduled_visit (nullable)
	RespondedAt     *time.Time // rental_requests.responded_at (nullable)
	ResponseMessage string     // rental_requests.response_message
	CreatedAt       time.Time  // rental_requests.created_at
	UpdatedAt       time.Time  // rental_requests.updated_at
}

// ListingLike joins a user to a listing they favourited.  The pair is
// unique; toggling a like creates or deletes the row.
type ListingLike struct {
	ID        uint64    // listing_likes.id
	UserID    uint64    // listing_likes.user_id
	ListingID uint64    // listing_likes.listing_id
	CreatedAt time.Time // listing_likes.created_at
}
