package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// IdentityRequestRepo persists identity verification submissions and their
// document rows, and performs the admin review transitions. All multi-step
// writes run inside transactions so the pending-uniqueness invariant and
// the approval side effect cannot be half-applied.
type IdentityRequestRepo struct {
	db *sql.DB
}

// NewIdentityRequestRepo returns a repo bound to the given database.
func NewIdentityRequestRepo(db *sql.DB) *IdentityRequestRepo { return &IdentityRequestRepo{db: db} }

// CreateIfNonePending inserts a pending identity request for userID along
// with its document rows, and flips the user's verification status to
// pending. The insert is conditional: when the user already has a pending
// request the statement affects no rows and ErrDuplicatePending is
// returned, so two concurrent submissions cannot both land.
func (r *IdentityRequestRepo) CreateIfNonePending(ctx context.Context, userID uint64, docs []model.DocumentFile) (*model.IdentityRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const ins = `INSERT INTO identity_requests (user_id, status, submitted_at)
		SELECT ?, ?, NOW() FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM identity_requests WHERE user_id=? AND status=?
		)`
	res, err := tx.ExecContext(ctx, ins, userID, model.SubmissionPending, userID, model.SubmissionPending)
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

	if err := insertDocumentsTx(ctx, tx, "identity_request_documents", reqID, docs); err != nil {
		return nil, err
	}
	if err := setUserStatusTx(ctx, tx, userID, model.VerificationPending); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	req := &model.IdentityRequest{ID: reqID, UserID: userID, Status: model.SubmissionPending, Documents: docs}
	const sel = `SELECT submitted_at, created_at, updated_at FROM identity_requests WHERE id=?`
	if err := r.db.QueryRowContext(ctx, sel, reqID).Scan(&req.SubmittedAt, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	return req, nil
}

// insertDocumentsTx bulk-inserts document rows for a review record into
// the named child table.
func insertDocumentsTx(ctx context.Context, tx *sql.Tx, table string, requestID uint64, docs []model.DocumentFile) error {
	if len(docs) == 0 {
		return nil
	}
	query := "INSERT INTO " + table +
		" (request_id, document_type, url, storage_key, original_name, file_size, uploaded_at) VALUES "
	args := make([]any, 0, len(docs)*7)
	for i, d := range docs {
		if i > 0 {
			query += ","
		}
		query += "(?,?,?,?,?,?,?)"
		args = append(args, requestID, d.DocumentType, d.URL, d.StorageKey, d.OriginalName, d.FileSize, d.UploadedAt)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// loadDocuments returns the document views for one review record.
func loadDocuments(ctx context.Context, db *sql.DB, table string, requestID uint64) ([]DocumentView, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT id, document_type, url, storage_key, original_name, file_size, uploaded_at FROM "+
			table+" WHERE request_id=? ORDER BY id", requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DocumentView, 0)
	for rows.Next() {
		var d DocumentView
		if err := rows.Scan(&d.ID, &d.DocumentType, &d.URL, &d.StorageKey, &d.OriginalName, &d.FileSize, &d.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID returns one identity request with submitter, reviewer and
// documents resolved. sql.ErrNoRows when missing.
func (r *IdentityRequestRepo) GetByID(ctx context.Context, id uint64) (*IdentityRequestDetail, error) {
	const q = `SELECT r.id, r.status, r.admin_notes, r.submitted_at, r.reviewed_at,
	                  u.id, u.name, u.email, u.profile_image, u.verification_status, u.role,
	                  a.id, a.name, a.email, a.profile_image, a.verification_status, a.role
	           FROM identity_requests r
	           JOIN users u ON u.id = r.user_id
	           LEFT JOIN users a ON a.id = r.reviewed_by
	           WHERE r.id = ?`
	det, err := scanIdentityDetail(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		return nil, err
	}
	det.Documents, err = loadDocuments(ctx, r.db, "identity_request_documents", det.ID)
	if err != nil {
		return nil, err
	}
	return det, nil
}

func scanIdentityDetail(scan func(dest ...any) error) (*IdentityRequestDetail, error) {
	var det IdentityRequestDetail
	var notes sql.NullString
	var reviewedAt sql.NullTime
	var revID sql.NullInt64
	var revName, revEmail, revImage, revStatus, revRole sql.NullString
	err := scan(&det.ID, &det.Status, &notes, &det.SubmittedAt, &reviewedAt,
		&det.User.ID, &det.User.Name, &det.User.Email, &det.User.ProfileImage,
		&det.User.VerificationStatus, &det.User.Role,
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

// Search returns a page of identity requests whose status or any attached
// document type matches the needle, plus the total count.
func (r *IdentityRequestRepo) Search(ctx context.Context, q ReviewSearchQuery) ([]IdentityRequestDetail, int64, error) {
	cond := "1=1"
	args := []any{}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		cond = `(LOWER(r.status) LIKE ? OR EXISTS (
			SELECT 1 FROM identity_request_documents d
			WHERE d.request_id = r.id AND LOWER(d.document_type) LIKE ?))`
		args = append(args, needle, needle)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM identity_requests r WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)
	query := `SELECT r.id, r.status, r.admin_notes, r.submitted_at, r.reviewed_at,
	                 u.id, u.name, u.email, u.profile_image, u.verification_status, u.role,
	                 a.id, a.name, a.email, a.profile_image, a.verification_status, a.role
	          FROM identity_requests r
	          JOIN users u ON u.id = r.user_id
	          LEFT JOIN users a ON a.id = r.reviewed_by
	          WHERE ` + cond + reviewOrderClause(q.SortBy, q.SortDesc) + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]IdentityRequestDetail, 0, limit)
	for rows.Next() {
		det, err := scanIdentityDetail(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *det)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Documents, err = loadDocuments(ctx, r.db, "identity_request_documents", out[i].ID)
		if err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

// ListByUser returns the submitter's own requests, newest first.
func (r *IdentityRequestRepo) ListByUser(ctx context.Context, userID uint64) ([]IdentityRequestDetail, error) {
	const q = `SELECT r.id, r.status, r.admin_notes, r.submitted_at, r.reviewed_at,
	                  u.id, u.name, u.email, u.profile_image, u.verification_status, u.role,
	                  a.id, a.name, a.email, a.profile_image, a.verification_status, a.role
	           FROM identity_requests r
	           JOIN users u ON u.id = r.user_id
	           LEFT JOIN users a ON a.id = r.reviewed_by
	           WHERE r.user_id = ? ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]IdentityRequestDetail, 0)
	for rows.Next() {
		det, err := scanIdentityDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *det)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Documents, err = loadDocuments(ctx, r.db, "identity_request_documents", out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Review transitions the request to newStatus on behalf of adminID. The
// current status is read under a row lock and checked against the
// transition table; illegal moves return ErrIllegalTransition and change
// nothing. Approval additionally marks the owning user verified within
// the same transaction.
func (r *IdentityRequestRepo) Review(ctx context.Context, requestID, adminID uint64, newStatus, notes string) (*IdentityRequestDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var userID uint64
	var current string
	err = tx.QueryRowContext(ctx,
		"SELECT user_id, status FROM identity_requests WHERE id=? FOR UPDATE", requestID).
		Scan(&userID, &current)
	if err != nil {
		return nil, err
	}
	if !model.CanTransitionSubmission(current, newStatus) {
		return nil, ErrIllegalTransition
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE identity_requests SET status=?, admin_notes=?, reviewed_at=?, reviewed_by=? WHERE id=?",
		newStatus, notes, time.Now().UTC(), adminID, requestID); err != nil {
		return nil, err
	}
	if newStatus == model.SubmissionApproved {
		if err := markUserVerifiedTx(ctx, tx, userID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, requestID)
}
