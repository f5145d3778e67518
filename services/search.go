package services

import (
	"errors"
	"time"

	"golang.org/x/exp/slices"

	"spotrent-server/models"
)

// ErrNoSpots signals an empty filtered page. Callers translate it into a 404
// response; an empty page past the last result is indistinguishable from zero
// matches on purpose, for compatibility with existing consumers.
var ErrNoSpots = errors.New("spots couldn't be found")

// EnrichedSpot is a spot summary with the derived, non-persisted fields
// consumers expect: the preview image and the average review rating. Lat, lng
// and price are plain float64 regardless of how the store encoded them.
type EnrichedSpot struct {
	ID           uint      `json:"id"`
	OwnerID      uint      `json:"ownerId"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Country      string    `json:"country"`
	Lat          *float64  `json:"lat"`
	Lng          *float64  `json:"lng"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	AvgRating    *float64  `json:"avgRating"`
	PreviewImage *string   `json:"previewImage"`
}

// SpotPage is one page of search results. The Spots key is capitalized in the
// response body by contract.
type SpotPage struct {
	Spots []EnrichedSpot `json:"Spots"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// AverageRating reduces review stars to their arithmetic mean, or nil when
// there are no reviews. The division is skipped entirely at zero count so a
// NaN can never leak into a response.
func AverageRating(reviews []models.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Stars
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}

// SelectPreviewImage picks the first image flagged as preview, else the first
// image by insertion order, else nil.
func SelectPreviewImage(images []models.SpotImage) *string {
	for _, img := range images {
		if img.Preview {
			url := img.URL
			return &url
		}
	}
	if len(images) > 0 {
		url := images[0].URL
		return &url
	}
	return nil
}

// EnrichSpot computes the derived fields for a single spot.
func EnrichSpot(s models.Spot) EnrichedSpot {
	return EnrichedSpot{
		ID:           s.ID,
		OwnerID:      s.OwnerID,
		Address:      s.Address,
		City:         s.City,
		State:        s.State,
		Country:      s.Country,
		Lat:          s.Lat,
		Lng:          s.Lng,
		Name:         s.Name,
		Description:  s.Description,
		Price:        s.Price,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		AvgRating:    AverageRating(s.Reviews),
		PreviewImage: SelectPreviewImage(s.Images),
	}
}

// matchesBounds applies every bound as a conjunction. A spot missing a geo
// coordinate is excluded whenever that axis is bounded, not treated as a
// wildcard match.
func matchesBounds(s models.Spot, bounds []Bound) bool {
	for _, b := range bounds {
		var v *float64
		switch b.Column {
		case "lat":
			v = s.Lat
		case "lng":
			v = s.Lng
		case "price":
			price := s.Price
			v = &price
		}
		if v == nil || !b.Matches(*v) {
			return false
		}
	}
	return true
}

// SearchSpots filters, enriches, orders and paginates the candidate set.
// Ordering is by ascending id (creation order) so pages are stable across
// calls for the same snapshot. An empty page yields ErrNoSpots.
func SearchSpots(candidates []models.Spot, f SpotFilters) (*SpotPage, error) {
	page, size := NormalizePage(f.Page, f.Size)
	bounds := f.Bounds()

	filtered := make([]models.Spot, 0, len(candidates))
	for _, s := range candidates {
		if matchesBounds(s, bounds) {
			filtered = append(filtered, s)
		}
	}

	slices.SortFunc(filtered, func(a, b models.Spot) int {
		return int(a.ID) - int(b.ID)
	})

	offset := (page - 1) * size
	if offset >= len(filtered) {
		return nil, ErrNoSpots
	}
	limit := offset + size
	if limit > len(filtered) {
		limit = len(filtered)
	}

	spots := make([]EnrichedSpot, 0, limit-offset)
	for _, s := range filtered[offset:limit] {
		spots = append(spots, EnrichSpot(s))
	}

	return &SpotPage{Spots: spots, Page: page, Size: size}, nil
}
