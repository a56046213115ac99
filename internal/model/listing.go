package model

import "time"

// Listing categories and subcategories accepted at creation time.  The
// subcategory set is shared across categories the way the product defines
// them (room sizes, flat layouts, PG gender splits, studio tiers).
var (
	ListingCategories = []string{"room", "flat", "pg", "studio"}

	ListingSubcategories = []string{
		"single", "shared",
		"1bhk", "2bhk", "3bhk",
		"boys", "girls", "co-ed",
		"standard", "premium",
	}

	ImageLabels = []string{"bedroom", "kitchen", "bathroom", "living_room", "exterior", "other"}
)

// ValidCategory reports whether c is an accepted listing category.
func ValidCategory(c string) bool { return contains(ListingCategories, c) }

// ValidSubcategory reports whether s is an accepted listing subcategory.
func ValidSubcategory(s string) bool { return contains(ListingSubcategories, s) }

// ValidImageLabel reports whether l is an accepted image label.
func ValidImageLabel(l string) bool { return contains(ImageLabels, l) }

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Location is the structured address block embedded in a listing.  It is
// stored in dedicated columns of the `listings` table.
type Location struct {
	Value   string  `json:"value"`
	Label   string  `json:"label"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Region  string  `json:"region"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Country string  `json:"country"`
}

// ListingImage is one row of the `listing_images` table.
//
// Fields:
//  ID        – primary key identifier.
//  ListingID – owning listing.
//  URL       – public image URL.
//  Label     – which room the image shows (bedroom, kitchen, ...).
type ListingImage struct {
	ID        uint64 // listing_images.id
	ListingID uint64 // listing_images.listing_id
	URL       string // listing_images.url
	Label     string // listing_images.label
}

// Listing represents a rental property owned by a landlord user.  It
// corresponds to a row in the `listings` table plus its image rows.
//
// Fields:
//  ID                 – primary key identifier.
//  OwnerID            – user ID of the landlord.
//  Title              – listing title.
//  Description        – ordered description paragraphs.
//  Category           – room/flat/pg/studio.
//  Subcategory        – size/layout/tier within the category.
//  Location           – structured address.
//  Images             – uploaded gallery images.
//  GuestCount         – maximum number of occupants (>=1).
//  RoomCount          – number of rooms (>=1).
//  BathroomCount      – number of bathrooms (>=1).
//  Rent               – monthly rent (>=0).
//  Amenities          – amenity tags.
//  IsVerified         – set when ownership documents were approved.
//  VerificationStatus – document review state of the listing.
//  IsAvailable        – may only be true when IsVerified is true.
//  CreatedAt          – timestamp of creation.
//  UpdatedAt          – timestamp of last update.
type Listing struct {
	ID                 uint64         // listings.id
	OwnerID            uint64         // listings.owner_id
	Title              string         // listings.title
	Description        []string       // listings.description (JSON column)
	Category           string         // listings.category
	Subcategory        string         // listings.subcategory
	Location           Location       // listings.location_* columns
	Images             []ListingImage // listing_images rows
	GuestCount         uint32         // listings.guest_count
	RoomCount          uint32         // listings.room_count
	BathroomCount      uint32         // listings.bathroom_count
	Rent               uint64         // listings.rent
	Amenities          []string       // listings.amenities (JSON column)
	IsVerified         bool           // listings.is_verified
	VerificationStatus string         // listings.verification_status
	IsAvailable        bool           // listings.is_available
	CreatedAt          time.Time      // listings.created_at
	UpdatedAt          time.Time      // listings.updated_at
}
