package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
)

// ListingRepo provides persistence for listings and their image rows.
// Description and amenities are stored as JSON text columns; images live
// in the listing_images table and are written in the same transaction as
// the listing itself.
type ListingRepo struct {
	db *sql.DB
}

// NewListingRepo returns a new ListingRepo bound to the given database.
func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `id, owner_id, title, description, category, subcategory,
	location_value, location_label, location_lat, location_lng,
	location_region, location_city, location_state, location_country,
	guest_count, room_count, bathroom_count, rent, amenities,
	is_verified, verification_status, is_available, created_at, updated_at`

// Create inserts a listing together with its image rows and populates the
// generated ID and timestamps on the provided model.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	desc, err := json.Marshal(l.Description)
	if err != nil {
		return err
	}
	amen, err := json.Marshal(l.Amenities)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `INSERT INTO listings
		(owner_id, title, description, category, subcategory,
		 location_value, location_label, location_lat, location_lng,
		 location_region, location_city, location_state, location_country,
		 guest_count, room_count, bathroom_count, rent, amenities, verification_status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, q,
		l.OwnerID, l.Title, string(desc), l.Category, l.Subcategory,
		l.Location.Value, l.Location.Label, l.Location.Lat, l.Location.Lng,
		l.Location.Region, l.Location.City, l.Location.State, l.Location.Country,
		l.GuestCount, l.RoomCount, l.BathroomCount, l.Rent, string(amen),
		model.VerificationUnverified)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)

	if len(l.Images) > 0 {
		query := `INSERT INTO listing_images (listing_id, url, label) VALUES `
		args := make([]any, 0, len(l.Images)*3)
		for i := range l.Images {
			if i > 0 {
				query += ","
			}
			query += "(?,?,?)"
			args = append(args, l.ID, l.Images[i].URL, l.Images[i].Label)
			l.Images[i].ListingID = l.ID
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	// Query back defaults set by the database.
	const sel = `SELECT is_verified, verification_status, is_available, created_at, updated_at FROM listings WHERE id=?`
	return r.db.QueryRowContext(ctx, sel, l.ID).Scan(
		&l.IsVerified, &l.VerificationStatus, &l.IsAvailable, &l.CreatedAt, &l.UpdatedAt)
}

func scanListing(scan func(dest ...any) error) (model.Listing, error) {
	var l model.Listing
	var desc, amen string
	err := scan(&l.ID, &l.OwnerID, &l.Title, &desc, &l.Category, &l.Subcategory,
		&l.Location.Value, &l.Location.Label, &l.Location.Lat, &l.Location.Lng,
		&l.Location.Region, &l.Location.City, &l.Location.State, &l.Location.Country,
		&l.GuestCount, &l.RoomCount, &l.BathroomCount, &l.Rent, &amen,
		&l.IsVerified, &l.VerificationStatus, &l.IsAvailable, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	if err := json.Unmarshal([]byte(desc), &l.Description); err != nil {
		l.Description = nil
	}
	if err := json.Unmarshal([]byte(amen), &l.Amenities); err != nil {
		l.Amenities = nil
	}
	return l, nil
}

// loadImages attaches image rows to the given listing.
func (r *ListingRepo) loadImages(ctx context.Context, l *model.Listing) error {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, listing_id, url, label FROM listing_images WHERE listing_id=? ORDER BY id", l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var img model.ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.URL, &img.Label); err != nil {
			return err
		}
		l.Images = append(l.Images, img)
	}
	return rows.Err()
}

// GetByID fetches a listing with its images. Returns sql.ErrNoRows when
// the listing does not exist.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.Listing, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+listingCols+" FROM listings WHERE id=? LIMIT 1", id)
	l, err := scanListing(row.Scan)
	if err != nil {
		return l, err
	}
	err = r.loadImages(ctx, &l)
	return l, err
}

// GetByIDForOwner fetches a listing and validates that ownerID owns it.
// sql.ErrNoRows when missing, ErrForbidden when owned by someone else.
func (r *ListingRepo) GetByIDForOwner(ctx context.Context, id, ownerID uint64) (model.Listing, error) {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return l, err
	}
	if l.OwnerID != ownerID {
		return model.Listing{}, ErrForbidden
	}
	return l, nil
}

// ListingSummary is the compact projection used in owner dashboards,
// rental request views and admin consoles.
type ListingSummary struct {
	ID                 uint64 `json:"id"`
	Title              string `json:"title"`
	Category           string `json:"category"`
	Subcategory        string `json:"subcategory"`
	Rent               uint64 `json:"rent"`
	City               string `json:"city"`
	IsVerified         bool   `json:"is_verified"`
	VerificationStatus string `json:"verification_status"`
	IsAvailable        bool   `json:"is_available"`
}

// ListByOwner returns summaries of all listings owned by ownerID, newest
// first.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]ListingSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, subcategory, rent, location_city,
		        is_verified, verification_status, is_available
		 FROM listings WHERE owner_id=? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ListingSummary, 0)
	for rows.Next() {
		var s ListingSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Category, &s.Subcategory, &s.Rent,
			&s.City, &s.IsVerified, &s.VerificationStatus, &s.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update rewrites the mutable listing fields after an ownership check.
// Verification flags and availability are deliberately not touched here.
func (r *ListingRepo) Update(ctx context.Context, l *model.Listing, ownerID uint64) error {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, "SELECT owner_id FROM listings WHERE id=?", l.ID).Scan(&actualOwner)
	if err != nil {
		return err
	}
	if actualOwner != ownerID {
		return ErrForbidden
	}
	desc, err := json.Marshal(l.Description)
	if err != nil {
		return err
	}
	amen, err := json.Marshal(l.Amenities)
	if err != nil {
		return err
	}
	const q = `UPDATE listings SET title=?, description=?, category=?, subcategory=?,
		location_value=?, location_label=?, location_lat=?, location_lng=?,
		location_region=?, location_city=?, location_state=?, location_country=?,
		guest_count=?, room_count=?, bathroom_count=?, rent=?, amenities=?
		WHERE id=?`
	_, err = r.db.ExecContext(ctx, q,
		l.Title, string(desc), l.Category, l.Subcategory,
		l.Location.Value, l.Location.Label, l.Location.Lat, l.Location.Lng,
		l.Location.Region, l.Location.City, l.Location.State, l.Location.Country,
		l.GuestCount, l.RoomCount, l.BathroomCount, l.Rent, string(amen), l.ID)
	return err
}

// SetAvailability flips is_available for a verified listing owned by
// ownerID. Returns sql.ErrNoRows when the listing is missing, ErrForbidden
// for a non-owner and ErrIllegalTransition when the listing has not been
// verified yet.
func (r *ListingRepo) SetAvailability(ctx context.Context, id, ownerID uint64, available bool) (model.Listing, error) {
	var actualOwner uint64
	var isVerified bool
	err := r.db.QueryRowContext(ctx,
		"SELECT owner_id, is_verified FROM listings WHERE id=?", id).Scan(&actualOwner, &isVerified)
	if err != nil {
		return model.Listing{}, err
	}
	if actualOwner != ownerID {
		return model.Listing{}, ErrForbidden
	}
	if !isVerified {
		return model.Listing{}, ErrIllegalTransition
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE listings SET is_available=? WHERE id=?", available, id); err != nil {
		return model.Listing{}, err
	}
	return r.GetByID(ctx, id)
}

// setListingStatusTx updates only verification_status inside a transaction.
func setListingStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE listings SET verification_status=? WHERE id=?", status, id)
	return err
}

// markListingVerifiedTx sets verification_status=verified and is_verified=1
// inside an ongoing review transaction. Fired only on approval.
func markListingVerifiedTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE listings SET verification_status=?, is_verified=1 WHERE id=?",
		model.VerificationVerified, id)
	return err
}

// ListingSearchQuery defines filters & pagination for browsing listings.
type ListingSearchQuery struct {
	Category     string
	Search       string
	Page         int
	PageSize     int
	SortBy       string
	SortDesc     bool
	VerifiedOnly bool
}

// listingSortColumns whitelists sortable columns for Search.
var listingSortColumns = map[string]string{
	"created_at": "created_at",
	"rent":       "rent",
	"title":      "title",
	"category":   "category",
	"city":       "location_city",
}

// OwnerProfile is the public projection of a landlord attached to listing
// and rental request reads.
type OwnerProfile struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ProfileImage       string `json:"profile_image"`
	VerificationStatus string `json:"verification_status"`
	Verified           bool   `json:"verified"`
}

// ListingPage is one page of search results plus the owner profile of each
// listing when requested by the admin console.
type ListingPage struct {
	Listings []model.Listing `json:"listings"`
	Total    int64           `json:"total"`
}

// Search returns a page of listings matching the query. Public browsing
// sets VerifiedOnly; the admin console searches everything. The free-text
// needle matches title, description, location, category and subcategory
// case-insensitively.
func (r *ListingRepo) Search(ctx context.Context, q ListingSearchQuery) (ListingPage, error) {
	where := []string{}
	args := []any{}
	if q.VerifiedOnly {
		where = append(where, "is_verified=1")
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Category)+"%")
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		where = append(where,
			"(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location_value) LIKE ? OR LOWER(category) LIKE ? OR LOWER(subcategory) LIKE ?)")
		args = append(args, needle, needle, needle, needle, needle)
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var page ListingPage
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listings WHERE "+cond, args...).Scan(&page.Total); err != nil {
		return page, err
	}

	col, ok := listingSortColumns[q.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+listingCols+" FROM listings WHERE "+cond+
			" ORDER BY "+col+" "+dir+" LIMIT ? OFFSET ?", argsData...)
	if err != nil {
		return page, err
	}
	defer rows.Close()

	page.Listings = make([]model.Listing, 0, limit)
	for rows.Next() {
		l, err := scanListing(rows.Scan)
		if err != nil {
			return page, err
		}
		page.Listings = append(page.Listings, l)
	}
	if err := rows.Err(); err != nil {
		return page, err
	}
	for i := range page.Listings {
		if err := r.loadImages(ctx, &page.Listings[i]); err != nil {
			return page, err
		}
	}
	return page, nil
}

// GetOwnerProfile returns the public profile of the user owning a listing.
func (r *ListingRepo) GetOwnerProfile(ctx context.Context, ownerID uint64) (OwnerProfile, error) {
	var p OwnerProfile
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, email, profile_image, verification_status, verified FROM users WHERE id=? LIMIT 1",
		ownerID).Scan(&p.ID, &p.Name, &p.Email, &p.ProfileImage, &p.VerificationStatus, &p.Verified)
	return p, err
}
