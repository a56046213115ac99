package model

import "time"

// Identity document types inferred from uploaded filenames.
const (
	DocAadhaar        = "aadhaar"
	DocPAN            = "pan"
	DocDrivingLicense = "driving_license"
	DocPassport       = "passport"
	DocVoterID        = "voter_id"
	DocGovernmentID   = "government_id"
)

// Property document types declared by the landlord per uploaded file.
var PropertyDocumentTypes = []string{
	"title_deed",
	"electricity_bill",
	"water_bill",
	"property_tax",
	"rental_agreement",
	"other",
}

// ValidPropertyDocumentType reports whether t is an accepted property
// document type.
func ValidPropertyDocumentType(t string) bool { return contains(PropertyDocumentTypes, t) }

// DocumentFile describes one uploaded piece of evidence attached to a
// review record.  The same shape backs both identity_request_documents
// and listing_doc_request_documents rows.
//
// Fields:
//  ID           – primary key identifier.
//  RequestID    – owning review record.
//  DocumentType – what the file claims to be (aadhaar, title_deed, ...).
//  URL          – where the stored file can be fetched.
//  StorageKey   – file store key used for delete-by-key cleanup.
//  OriginalName – client-side filename.
//  FileSize     – size in bytes.
//  UploadedAt   – when the file landed in storage.
type DocumentFile struct {
	ID           uint64    // *_documents.id
	RequestID    uint64    // *_documents.request_id
	DocumentType string    // *_documents.document_type
	URL          string    // *_documents.url
	StorageKey   string    // *_documents.storage_key
	OriginalName string    // *_documents.original_name
	FileSize     int64     // *_documents.file_size
	UploadedAt   time.Time // *_documents.uploaded_at
}

// IdentityRequest is a user's identity verification submission awaiting
// admin review.  Corresponds to a row in `identity_requests` plus its
// document rows.  At most one pending request may exist per user; the
// repository enforces this with a conditional insert.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user whose identity is being verified.
//  Status      – pending/approved/rejected.
//  AdminNotes  – optional reviewer note.
//  SubmittedAt – when the documents were submitted.
//  ReviewedAt  – when an admin last reviewed (null until reviewed).
//  ReviewedBy  – admin user ID of the reviewer (null until reviewed).
//  Documents   – the uploaded evidence files.
type IdentityRequest struct {
	ID          uint64         // identity_requests.id
	UserID      uint64         // identity_requests.user_id
	Status      string         // identity_requests.status
	AdminNotes  string         // identity_requests.admin_notes
	SubmittedAt time.Time      // identity_requests.submitted_at
	ReviewedAt  *time.Time     // identity_requests.reviewed_at (nullable)
	ReviewedBy  *uint64        // identity_requests.reviewed_by (nullable)
	Documents   []DocumentFile // identity_request_documents rows
	CreatedAt   time.Time      // identity_requests.created_at
	UpdatedAt   time.Time      // identity_requests.updated_at
}

// ListingDocRequest is a landlord's property ownership submission for one
// listing.  Same review lifecycle as IdentityRequest; scoped to the
// (user, listing) pair.  A listing with a pending or approved submission
// rejects further submissions.
type ListingDocRequest struct {
	ID          uint64         // listing_doc_requests.id
	UserID      uint64         // listing_doc_requests.user_id
	ListingID   uint64         // listing_doc_requests.listing_id
	Status      string         // listing_doc_requests.status
	AdminNotes  string         // listing_doc_requests.admin_notes
	SubmittedAt time.Time      // listing_doc_requests.submitted_at
	ReviewedAt  *time.Time     // listing_doc_requests.reviewed_at (nullable)
	ReviewedBy  *uint64        // listing_doc_requests.reviewed_by (nullable)
	Documents   []DocumentFile // listing_doc_request_documents rows
	CreatedAt   time.Time      // listing_doc_requests.created_at
	UpdatedAt   time.Time      // listing_doc_requests.updated_at
}
