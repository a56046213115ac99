package repository

import (
	"context"
	"database/sql"
)

// LikeRepo tracks which listings a user has saved. A (user, listing)
// pair is either present or absent; Toggle flips between the two states
// and a unique key on the pair keeps concurrent flips from doubling up.
type LikeRepo struct {
	db *sql.DB
}

// NewLikeRepo returns a repo bound to the given database.
func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{db: db} }

// IsLiked reports whether userID has saved listingID.
func (r *LikeRepo) IsLiked(ctx context.Context, userID, listingID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listing_likes WHERE user_id=? AND listing_id=?",
		userID, listingID).Scan(&n)
	return n > 0, err
}

// Toggle flips the like state for (userID, listingID) and returns the
// resulting state: true when the listing is now liked. The delete-first
// order makes the operation a pure flip; INSERT IGNORE absorbs the race
// where two flips land at once.
func (r *LikeRepo) Toggle(ctx context.Context, userID, listingID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM listing_likes WHERE user_id=? AND listing_id=?", userID, listingID)
	if err != nil {
		return false, err
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if removed > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT IGNORE INTO listing_likes (user_id, listing_id) VALUES (?,?)", userID, listingID)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListLiked returns summaries of the user's saved listings that are
// still publicly visible (verified and available), newest save first.
func (r *LikeRepo) ListLiked(ctx context.Context, userID uint64) ([]ListingSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.title, l.category, l.subcategory, l.rent, l.location_city,
		        l.is_verified, l.verification_status, l.is_available
		 FROM listing_likes lk
		 JOIN listings l ON l.id = lk.listing_id
		 WHERE lk.user_id=? AND l.is_verified=1 AND l.is_available=1
		 ORDER BY lk.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ListingSummary, 0)
	for rows.Next() {
		var s ListingSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Subcategory, &s.Rent, &s.City,
			&s.IsVerified, &s.VerificationStatus, &s.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
