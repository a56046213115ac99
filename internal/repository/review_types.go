package repository

import "time"

// Shared projections for the admin review console. Model structs mirror
// tables and carry no JSON tags; these detail types are what handlers
// serialize.

// UserSummary is the public slice of a user embedded in review records.
type UserSummary struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ProfileImage       string `json:"profile_image"`
	VerificationStatus string `json:"verification_status"`
	Role               string `json:"role"`
}

// DocumentView is the serialized form of one uploaded evidence file.
type DocumentView struct {
	ID           uint64    `json:"id"`
	DocumentType string    `json:"document_type"`
	URL          string    `json:"url"`
	StorageKey   string    `json:"storage_key"`
	OriginalName string    `json:"original_name"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// IdentityRequestDetail is an identity submission with its submitter,
// reviewer and documents resolved.
type IdentityRequestDetail struct {
	ID          uint64         `json:"id"`
	Status      string         `json:"status"`
	AdminNotes  string         `json:"admin_notes,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	User        UserSummary    `json:"user"`
	ReviewedBy  *UserSummary   `json:"reviewed_by,omitempty"`
	Documents   []DocumentView `json:"documents"`
}

// ListingDocRequestDetail is a property submission with its submitter,
// listing, reviewer and documents resolved.
type ListingDocRequestDetail struct {
	ID          uint64         `json:"id"`
	Status      string         `json:"status"`
	AdminNotes  string         `json:"admin_notes,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	ReviewedAt  *time.Time     `json:"reviewed_at,omitempty"`
	User        UserSummary    `json:"user"`
	Listing     ListingSummary `json:"listing"`
	ReviewedBy  *UserSummary   `json:"reviewed_by,omitempty"`
	Documents   []DocumentView `json:"documents"`
}

// ReviewSearchQuery defines the free-text filter and pagination for the
// admin review queues. The needle matches document types and statuses
// case-insensitively.
type ReviewSearchQuery struct {
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

// reviewSortColumns whitelists sortable columns for the review queues.
var reviewSortColumns = map[string]string{
	"created_at":   "r.created_at",
	"submitted_at": "r.submitted_at",
	"reviewed_at":  "r.reviewed_at",
	"status":       "r.status",
}

func reviewOrderClause(sortBy string, desc bool) string {
	col, ok := reviewSortColumns[sortBy]
	if !ok {
		col = "r.created_at"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir
}
