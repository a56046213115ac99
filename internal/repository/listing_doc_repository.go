package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// ListingDocRequestRepo persists property ownership submissions for
// listings. It mirrors IdentityRequestRepo but scopes the open-record
// invariant to the listing: a listing with a pending or already approved
// submission rejects further submissions.
type ListingDocRequestRepo struct {
	db *sql.DB
}

// NewListingDocRequestRepo returns a repo bound to the given database.
func NewListingDocRequestRepo(db *sql.DB) *ListingDocRequestRepo {
	return &ListingDocRequestRepo{db: db}
}

// CreateIfNoneOpen inserts a pending submission for (userID, listingID)
// plus its document rows and flips the listing's verification status to
// pending. The conditional insert refuses when the listing already has a
// pending or approved submission, returning ErrDuplicatePending.
func (r *ListingDocRequestRepo) CreateIfNoneOpen(ctx context.Context, userID, listingID uint64, docs []model.DocumentFile) (*model.ListingDocRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const ins = `INSERT INTO listing_doc_requests (user_id, listing_id, status, submitted_at)
		SELECT ?, ?, ?, NOW() FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM listing_doc_requests WHERE listing_id=? AND status IN (?,?)
		)`
	res, err := tx.ExecContext(ctx, ins,
		userID, listingID, model.SubmissionPending,
		listingID, model.SubmissionPending, model.SubmissionApproved)
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
	reqID := uint64(id)

	if err := insertDocumentsTx(ctx, tx, "listing_doc_request_documents", reqID, docs); err != nil {
		return nil, err
	}
	if err := setListingStatusTx(ctx, tx, listingID, model.VerificationPending); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	req := &model.ListingDocRequest{
		ID: reqID, UserID: userID, ListingID: listingID,
		Status: model.SubmissionPending, Documents: docs,
	}
	const sel = `SELECT submitted_at, created_at, updated_at FROM listing_doc_requests WHERE id=?`
	if err := r.db.QueryRowContext(ctx, sel, reqID).Scan(&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	return req, nil
}

const listingDocDetailCols = `r.id, r.status, r.admin_notes, r.submitted_at, r.reviewed_at,
	u.id, u.name, u.email, u.profile_image, u.verification_status, u.role,
	l.id, l.title, l.category, l.subcategory, l.rent, l.location_city,
	l.is_verified, l.verification_status, l.is_available,
	a.id, a.name, a.email, a.profile_image, a.verification_status, a.role`

const listingDocDetailFrom = ` FROM listing_doc_requests r
	JOIN users u ON u.id = r.user_id
	JOIN listings l ON l.id = r.listing_id
	LEFT JOIN users a ON a.id = r.reviewed_by`

func scanListingDocDetail(scan func(dest ...any) error) (*ListingDocRequestDetail, error) {
	var det ListingDocRequestDetail
	var notes sql.NullString
	var reviewedAt sql.NullTime
	var revID sql.NullInt64
	var revName, revEmail, revImage, revStatus, revRole sql.NullString
	err := scan(&det.ID, &det.Status, &notes, &det.SubmittedAt, &reviewedAt,
		&det.User.ID, &det.User.Name, &det.User.Email, &det.User.ProfileImage,
		&det.User.VerificationStatus, &det.User.Role,
		&det.Listing.ID, &det.Listing.Title, &det.Listing.Category, &det.Listing.Subcategory,
		&det.Listing.Rent, &det.Listing.City, &det.Listing.IsVerified,
		&det.Listing.VerificationStatus, &det.Listing.IsAvailable,
		&revID, &revName, &revEmail, &revImage, &revStatus, &revRole)
	if err != nil {
		return nil, err
	}
	det.AdminNotes = notes.String
	if reviewedAt.Valid {
		t := reviewedAt.Time
		det.ReviewedAt = &t
	}
	if revID.Valid {
		det.ReviewedBy = &UserSummary{
			ID:                 uint64(revID.Int64),
			Name:               revName.String,
			Email:              revEmail.String,
			ProfileImage:       revImage.String,
			VerificationStatus: revStatus.String,
			Role:               revRole.String,
		}
	}
	det.Documents = []DocumentView{}
	return &det, nil
}

// GetByID returns one property submission with submitter, listing,
// reviewer and documents resolved. sql.ErrNoRows when missing.
func (r *ListingDocRequestRepo) GetByID(ctx context.Context, id uint64) (*ListingDocRequestDetail, error) {
	det, err := scanListingDocDetail(r.db.QueryRowContext(ctx,
		"SELECT "+listingDocDetailCols+listingDocDetailFrom+" WHERE r.id = ?", id).Scan)
	if err != nil {
		return nil, err
	}
	det.Documents, err = loadDocuments(ctx, r.db, "listing_doc_request_documents", det.ID)
	if err != nil {
		return nil, err
	}
	return det, nil
}

// Search returns a page of property submissions whose status or any
// attached document type matches the needle, plus the total count.
func (r *ListingDocRequestRepo) Search(ctx context.Context, q ReviewSearchQuery) ([]ListingDocRequestDetail, int64, error) {
	cond := "1=1"
	args := []any{}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		cond = `(LOWER(r.status) LIKE ? OR EXISTS (
			SELECT 1 FROM listing_doc_request_documents d
			WHERE d.request_id = r.id AND LOWER(d.document_type) LIKE ?))`
		args = append(args, needle, needle)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listing_doc_requests r WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)
	query := "SELECT " + listingDocDetailCols + listingDocDetailFrom +
		" WHERE " + cond + reviewOrderClause(q.SortBy, q.SortDesc) + " LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ListingDocRequestDetail, 0, limit)
	for rows.Next() {
		det, err := scanListingDocDetail(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *det)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Documents, err = loadDocuments(ctx, r.db, "listing_doc_request_documents", out[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// ListByListing returns all submissions made for one listing, newest
// first. Used by the landlord's document view.
func (r *ListingDocRequestRepo) ListByListing(ctx context.Context, listingID uint64) ([]ListingDocRequestDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingDocDetailCols+listingDocDetailFrom+
			" WHERE r.listing_id = ? ORDER BY r.created_at DESC", listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ListingDocRequestDetail, 0)
	for rows.Next() {
		det, err := scanListingDocDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Documents, err = loadDocuments(ctx, r.db, "listing_doc_request_documents", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Review transitions the submission to newStatus on behalf of adminID.
// Same locking and transition rules as the identity flow; approval marks
// the owning listing verified within the transaction.
func (r *ListingDocRequestRepo) Review(ctx context.Context, requestID, adminID uint64, newStatus, notes string) (*ListingDocRequestDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var listingID uint64
	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT listing_id, status FROM listing_doc_requests WHERE id=? FOR UPDATE", requestID).
		Scan(&listingID, &current)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionSubmission(current, newStatus) {
		return nil, ErrIllegalTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE listing_doc_requests SET status=?, admin_notes=?, reviewed_at=?, reviewed_by=? WHERE id=?",
		newStatus, notes, time.Now().UTC(), adminID, requestID); err != nil {
		return nil, err
	}
	if newStatus == model.SubmissionApproved {
		if err := markListingVerifiedTx(ctx, tx, listingID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, requestID)
}
