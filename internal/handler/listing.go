package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sudha-chandrann/CozyHuntBackend/internal/model"
	"github.com/sudha-chandrann/CozyHuntBackend/internal/repository"
)

// ListingHandler serves listing creation, the landlord dashboard and
// public browsing.
type ListingHandler struct {
	Listings *repository.ListingRepo
	Likes    *repository.LikeRepo
	Rentals  *repository.RentalRequestRepo
}

func NewListingHandler(l *repository.ListingRepo, lk *repository.LikeRepo, r *repository.RentalRequestRepo) *ListingHandler {
	return &ListingHandler{Listings: l, Likes: lk, Rentals: r}
}

// ----- DTOs -----

type listingImageReq struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

type listingReq struct {
	Title         string            `json:"title"`
	Description   []string          `json:"description"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory"`
	Location      model.Location    `json:"location"`
	Images        []listingImageReq `json:"images"`
	GuestCount    uint32            `json:"guest_count"`
	RoomCount     uint32            `json:"room_count"`
	BathroomCount uint32            `json:"bathroom_count"`
	Rent          *uint64           `json:"rent"`
	Amenities     []string          `json:"amenities"`
}

type listingImageView struct {
	ID    uint64 `json:"id"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

// listingView is the serialized form of a listing. Model structs carry
// no JSON tags, so handlers project through this.
type listingView struct {
	ID                 uint64             `json:"id"`
	OwnerID            uint64             `json:"owner_id"`
	Title              string             `json:"title"`
	Description        []string           `json:"description"`
	Category           string             `json:"category"`
	Subcategory        string             `json:"subcategory"`
	Location           model.Location     `json:"location"`
	Images             []listingImageView `json:"images"`
	GuestCount         uint32             `json:"guest_count"`
	RoomCount          uint32             `json:"room_count"`
	BathroomCount      uint32             `json:"bathroom_count"`
	Rent               uint64             `json:"rent"`
	Amenities          []string           `json:"amenities"`
	IsVerified         bool               `json:"is_verified"`
	VerificationStatus string             `json:"verification_status"`
	IsAvailable        bool               `json:"is_available"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func toListingView(l model.Listing) listingView {
	imgs := make([]listingImageView, 0, len(l.Images))
	for _, img := range l.Images {
		imgs = append(imgs, listingImageView{ID: img.ID, URL: img.URL, Label: img.Label})
	}
	return listingView{
		ID: l.ID, OwnerID: l.OwnerID, Title: l.Title, Description: l.Description,
		Category: l.Category, Subcategory: l.Subcategory, Location: l.Location,
		Images: imgs, GuestCount: l.GuestCount, RoomCount: l.RoomCount,
		BathroomCount: l.BathroomCount, Rent: l.Rent, Amenities: l.Amenities,
		IsVerified: l.IsVerified, VerificationStatus: l.VerificationStatus,
		IsAvailable: l.IsAvailable, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}
}

// validate checks the request and returns a human message on failure.
func (req *listingReq) validate() string {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return "title is required"
	}
	if !model.ValidCategory(req.Category) {
		return "category must be one of: " + strings.Join(model.ListingCategories, ", ")
	}
	if !model.ValidSubcategory(req.Subcategory) {
		return "invalid subcategory"
	}
	if req.Rent == nil {
		return "rent is required"
	}
	if req.GuestCount < 1 || req.RoomCount < 1 || req.BathroomCount < 1 {
		return "guest_count, room_count and bathroom_count must be at least 1"
	}
	if strings.TrimSpace(req.Location.City) == "" {
		return "location city is required"
	}
	for _, img := range req.Images {
		if strings.TrimSpace(img.URL) == "" {
			return "image url is required"
		}
		if !model.ValidImageLabel(img.Label) {
			return "invalid image label: " + img.Label
		}
	}
	return ""
}

func (req *listingReq) toModel(ownerID uint64) model.Listing {
	imgs := make([]model.ListingImage, 0, len(req.Images))
	for _, img := range req.Images {
		imgs = append(imgs, model.ListingImage{URL: img.URL, Label: img.Label})
	}
	return model.Listing{
		OwnerID: ownerID, Title: req.Title, Description: req.Description,
		Category: req.Category, Subcategory: req.Subcategory, Location: req.Location,
		Images: imgs, GuestCount: req.GuestCount, RoomCount: req.RoomCount,
		BathroomCount: req.BathroomCount, Rent: *req.Rent, Amenities: req.Amenities,
	}
}

// Create registers a new listing for the caller. New listings start
// unverified and unavailable until ownership documents are approved.
func (h *ListingHandler) Create(c echo.Context) error {
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l := req.toModel(currentUserID(c))
	if err := h.Listings.Create(ctx, &l); err != nil {
		return fail(c, http.StatusInternalServerError, "could not create listing")
	}
	return respond(c, http.StatusCreated, "listing created, submit ownership documents to get it verified",
		toListingView(l))
}

// Mine lists the caller's own listings.
func (h *ListingHandler) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	listings, err := h.Listings.ListByOwner(ctx, currentUserID(c))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listings")
	}
	return respond(c, http.StatusOK, "listings loaded", echo.Map{"listings": listings})
}

// Update rewrites the mutable fields of an owned listing.
func (h *ListingHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}
	var req listingReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l := req.toModel(currentUserID(c))
	l.ID = id
	if err := h.Listings.Update(ctx, &l, currentUserID(c)); err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "listing not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "you do not own this listing")
		default:
			return fail(c, http.StatusInternalServerError, "could not update listing")
		}
	}
	updated, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listing")
	}
	return respond(c, http.StatusOK, "listing updated", toListingView(updated))
}

// SetAvailability flips whether a verified listing is shown as open for
// rental requests. Unverified listings cannot be made available.
func (h *ListingHandler) SetAvailability(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}
	var req struct {
		Available *bool `json:"available"`
	}
	if err := c.Bind(&req); err != nil || req.Available == nil {
		return fail(c, http.StatusBadRequest, "available is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.SetAvailability(ctx, id, currentUserID(c), *req.Available)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return fail(c, http.StatusNotFound, "listing not found")
		case repository.ErrForbidden:
			return fail(c, http.StatusForbidden, "you do not own this listing")
		case repository.ErrIllegalTransition:
			return fail(c, http.StatusConflict, "listing must be verified before it can be made available")
		default:
			return fail(c, http.StatusInternalServerError, "could not update availability")
		}
	}
	return respond(c, http.StatusOK, "availability updated", toListingView(l))
}

// Browse serves the public listing catalogue: verified listings only,
// filtered, sorted and paginated.
func (h *ListingHandler) Browse(c echo.Context) error {
	page, pageSize := parsePage(c)
	sortBy, desc := parseSort(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.Listings.Search(ctx, repository.ListingSearchQuery{
		Category:     c.QueryParam("category"),
		Search:       c.QueryParam("search"),
		Page:         page,
		PageSize:     pageSize,
		SortBy:       sortBy,
		SortDesc:     desc,
		VerifiedOnly: true,
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listings")
	}

	views := make([]listingView, 0, len(result.Listings))
	for _, l := range result.Listings {
		views = append(views, toListingView(l))
	}
	return respond(c, http.StatusOK, "listings loaded", echo.Map{
		"listings":   views,
		"pagination": newPageBlock(page, pageSize, result.Total),
	})
}

// Detail returns one listing with its owner profile plus the caller's
// relationship to it (liked, already requested, able to request).
func (h *ListingHandler) Detail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid listing id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "listing not found")
		}
		return fail(c, http.StatusInternalServerError, "could not load listing")
	}

	uid := currentUserID(c)
	// Unverified listings are only visible to their owner.
	if !l.IsVerified && l.OwnerID != uid {
		return fail(c, http.StatusNotFound, "listing not found")
	}

	owner, err := h.Listings.GetOwnerProfile(ctx, l.OwnerID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listing")
	}

	isLiked, err := h.Likes.IsLiked(ctx, uid, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listing")
	}
	hasRequested, err := h.Rentals.HasPending(ctx, uid, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "could not load listing")
	}
	canRequest := l.OwnerID != uid && l.IsVerified && l.IsAvailable && !hasRequested

	return respond(c, http.StatusOK, "listing loaded", echo.Map{
		"listing":       toListingView(l),
		"owner":         owner,
		"is_liked":      isLiked,
		"has_requested": hasRequested,
		"can_request":   canRequest,
	})
}
