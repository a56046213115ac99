package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// RentalRequestDetail is a rental request with its tenant and listing
// resolved, as served to both sides of the negotiation.
type RentalRequestDetail struct {
	ID              uint64         `json:"id"`
	Status          string         `json:"status"`
	Message         string         `json:"message,omitempty"`
	ResponseMessage string         `json:"response_message,omitempty"`
	ScheduledVisit  *time.Time     `json:"scheduled_visit,omitempty"`
	RespondedAt     *time.Time     `json:"responded_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Tenant          UserSummary    `json:"tenant"`
	Listing         ListingSummary `json:"listing"`
}

// RentalRequestRepo persists tenant rental requests and the landlord's
// replies. Status moves only through the rental transition table; every
// terminal reply records who answered and when.
type RentalRequestRepo struct {
	db *sql.DB
}

// NewRentalRequestRepo returns a repo bound to the given database.
func NewRentalRequestRepo(db *sql.DB) *RentalRequestRepo { return &RentalRequestRepo{db: db} }

// CreateIfNonePending inserts a pending request from tenantID for
// listingID. The insert is conditional on no pending request already
// existing for the same pair, so a tenant cannot stack duplicates even
// under concurrent submits. Returns ErrDuplicatePending on conflict.
func (r *RentalRequestRepo) CreateIfNonePending(ctx context.Context, tenantID, listingID uint64, message string, visit *time.Time) (*model.RentalRequest, error) {
	const ins = `INSERT INTO rental_requests (tenant_id, listing_id, message, scheduled_visit, status)
		SELECT ?, ?, ?, ?, ? FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM rental_requests WHERE tenant_id=? AND listing_id=? AND status=?
		)`
	res, err := r.db.ExecContext(ctx, ins,
		tenantID, listingID, message, visit, model.RentalPending,
		tenantID, listingID, model.RentalPending)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrDuplicatePending
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	req := &model.RentalRequest{
		ID: uint64(id), TenantID: tenantID, ListingID: listingID,
		Message: message, ScheduledVisit: visit, Status: model.RentalPending,
	}
	const sel = `SELECT created_at, updated_at FROM rental_requests WHERE id=?`
	if err := r.db.QueryRowContext(ctx, sel, req.ID).Scan(&req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	return req, nil
}

// HasPending reports whether tenantID currently has a pending request
// for listingID. Used to shape the listing detail view.
func (r *RentalRequestRepo) HasPending(ctx context.Context, tenantID, listingID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rental_requests WHERE tenant_id=? AND listing_id=? AND status=?",
		tenantID, listingID, model.RentalPending).Scan(&n)
	return n > 0, err
}

const rentalDetailCols = `r.id, r.status, r.message, r.response_message, r.scheduled_visit,
	r.responded_at, r.created_at,
	t.id, t.name, t.email, t.profile_image, t.verification_status, t.role,
	l.id, l.title, l.category, l.subcategory, l.rent, l.location_city,
	l.is_verified, l.verification_status, l.is_available`

const rentalDetailFrom = ` FROM rental_requests r
	JOIN users t ON t.id = r.tenant_id
	JOIN listings l ON l.id = r.listing_id`

func scanRentalDetail(scan func(dest ...any) error) (*RentalRequestDetail, error) {
	var det RentalRequestDetail
	var message, response sql.NullString
	var visit, responded sql.NullTime
	err := scan(&det.ID, &det.Status, &message, &response, &visit, &responded, &det.CreatedAt,
		&det.Tenant.ID, &det.Tenant.Name, &det.Tenant.Email, &det.Tenant.ProfileImage,
		&det.Tenant.VerificationStatus, &det.Tenant.Role,
		&det.Listing.ID, &det.Listing.Title, &det.Listing.Category, &det.Listing.Subcategory,
		&det.Listing.Rent, &det.Listing.City, &det.Listing.IsVerified,
		&det.Listing.VerificationStatus, &det.Listing.IsAvailable)
	if err != nil {
		return nil, err
	}
	det.Message = message.String
	det.ResponseMessage = response.String
	if visit.Valid {
		t := visit.Time
		det.ScheduledVisit = &t
	}
	if responded.Valid {
		t := responded.Time
		det.RespondedAt = &t
	}
	return &det, nil
}

// GetByID returns one rental request with tenant and listing resolved.
func (r *RentalRequestRepo) GetByID(ctx context.Context, id uint64) (*RentalRequestDetail, error) {
	return scanRentalDetail(r.db.QueryRowContext(ctx,
		"SELECT "+rentalDetailCols+rentalDetailFrom+" WHERE r.id = ?", id).Scan)
}

// Reply lets the owner of the listing accept or reject a pending
// request. The row is locked while the current status is checked against
// the transition table; callers that do not own the listing get
// ErrForbidden and the row is untouched.
func (r *RentalRequestRepo) Reply(ctx context.Context, requestID, ownerID uint64, newStatus, responseMessage string) (*RentalRequestDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	var listingOwner uint64
	err = tx.QueryRowContext(ctx,
		`SELECT r.status, l.owner_id FROM rental_requests r
		 JOIN listings l ON l.id = r.listing_id
		 WHERE r.id=? FOR UPDATE`, requestID).Scan(&current, &listingOwner)
	if err != nil {
		return nil, err
	}
	if listingOwner != ownerID {
		return nil, ErrForbidden
	}
	if !model.CanTransitionRental(current, newStatus) {
		return nil, ErrIllegalTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE rental_requests SET status=?, response_message=?, responded_at=? WHERE id=?",
		newStatus, responseMessage, time.Now().UTC(), requestID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, requestID)
}

// Cancel lets the tenant withdraw their own pending request. Requests
// owned by someone else return ErrForbidden; requests already answered
// or withdrawn return ErrIllegalTransition.
func (r *RentalRequestRepo) Cancel(ctx context.Context, requestID, tenantID uint64) (*RentalRequestDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	var owner uint64
	err = tx.QueryRowContext(ctx,
		"SELECT status, tenant_id FROM rental_requests WHERE id=? FOR UPDATE", requestID).
		Scan(&current, &owner)
	if err != nil {
		return nil, err
	}
	if owner != tenantID {
		return nil, ErrForbidden
	}
	if !model.CanTransitionRental(current, model.RentalCancelled) {
		return nil, ErrIllegalTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE rental_requests SET status=?, responded_at=? WHERE id=?",
		model.RentalCancelled, time.Now().UTC(), requestID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, requestID)
}

// ListForTenant returns all requests the tenant has made, newest first.
func (r *RentalRequestRepo) ListForTenant(ctx context.Context, tenantID uint64) ([]RentalRequestDetail, error) {
	return r.list(ctx, " WHERE r.tenant_id = ? ORDER BY r.created_at DESC", tenantID)
}

// ListForLandlord returns all requests made against the landlord's
// listings, newest first.
func (r *RentalRequestRepo) ListForLandlord(ctx context.Context, ownerID uint64) ([]RentalRequestDetail, error) {
	return r.list(ctx, " WHERE l.owner_id = ? ORDER BY r.created_at DESC", ownerID)
}

// ListForListing returns all requests for one listing, newest first.
func (r *RentalRequestRepo) ListForListing(ctx context.Context, listingID uint64) ([]RentalRequestDetail, error) {
	return r.list(ctx, " WHERE r.listing_id = ? ORDER BY r.created_at DESC", listingID)
}

func (r *RentalRequestRepo) list(ctx context.Context, tail string, arg any) ([]RentalRequestDetail, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+rentalDetailCols+rentalDetailFrom+tail, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RentalRequestDetail, 0)
	for rows.Next() {
		det, err := scanRentalDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	return out, rows.Err()
}
