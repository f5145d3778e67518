package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"spotrent-server/models"
)

func spotWithID(id uint) models.Spot {
	return models.Spot{Model: gorm.Model{ID: id}}
}

func TestAverageRating(t *testing.T) {
	reviews := []models.Review{{Stars: 5}, {Stars: 5}, {Stars: 4}}

	avg := AverageRating(reviews)
	require.NotNil(t, avg)
	require.InDelta(t, 4.6666, *avg, 0.001)

	require.Nil(t, AverageRating(nil), "zero reviews yield nil, never 0 or NaN")
	require.Nil(t, AverageRating([]models.Review{}))
}

func TestSelectPreviewImage(t *testing.T) {
	flagged := []models.SpotImage{
		{URL: "http://img/a.jpg", Preview: false},
		{URL: "http://img/b.jpg", Preview: true},
	}
	url := SelectPreviewImage(flagged)
	require.NotNil(t, url)
	require.Equal(t, "http://img/b.jpg", *url)

	unflagged := []models.SpotImage{
		{URL: "http://img/first.jpg"},
		{URL: "http://img/second.jpg"},
	}
	url = SelectPreviewImage(unflagged)
	require.NotNil(t, url)
	require.Equal(t, "http://img/first.jpg", *url)

	require.Nil(t, SelectPreviewImage(nil))
}

func TestSearchSpots_Pagination(t *testing.T) {
	spots := make([]models.Spot, 0, 25)
	for i := uint(1); i <= 25; i++ {
		spots = append(spots, spotWithID(i))
	}

	page, err := SearchSpots(spots, SpotFilters{Page: 2, Size: 20})
	require.NoError(t, err)
	require.Len(t, page.Spots, 5)
	require.Equal(t, uint(21), page.Spots[0].ID)
	require.Equal(t, uint(25), page.Spots[4].ID)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 20, page.Size)

	_, err = SearchSpots(spots, SpotFilters{Page: 3, Size: 20})
	require.ErrorIs(t, err, ErrNoSpots)
}

func TestSearchSpots_EmptyCandidateSet(t *testing.T) {
	_, err := SearchSpots(nil, SpotFilters{})
	require.ErrorIs(t, err, ErrNoSpots)
}

func TestSearchSpots_StableOrderByID(t *testing.T) {
	spots := []models.Spot{spotWithID(3), spotWithID(1), spotWithID(2)}

	page, err := SearchSpots(spots, SpotFilters{})
	require.NoError(t, err)
	require.Equal(t, uint(1), page.Spots[0].ID)
	require.Equal(t, uint(2), page.Spots[1].ID)
	require.Equal(t, uint(3), page.Spots[2].ID)
}

func TestSearchSpots_BoundsCombineByConjunction(t *testing.T) {
	inRange := spotWithID(1)
	inRange.Lat = floatp(10)
	tooLow := spotWithID(2)
	tooLow.Lat = floatp(-5)
	tooHigh := spotWithID(3)
	tooHigh.Lat = floatp(50)

	// Supplying min and max together keeps both clauses; neither overwrites
	// the other.
	page, err := SearchSpots([]models.Spot{inRange, tooLow, tooHigh}, SpotFilters{
		MinLat: floatp(0),
		MaxLat: floatp(20),
	})
	require.NoError(t, err)
	require.Len(t, page.Spots, 1)
	require.Equal(t, uint(1), page.Spots[0].ID)

	// Supplying only one side still filters on that side.
	page, err = SearchSpots([]models.Spot{inRange, tooLow, tooHigh}, SpotFilters{
		MinLat: floatp(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Spots, 2)
}

func TestSearchSpots_MissingGeoExcludedWhenBounded(t *testing.T) {
	located := spotWithID(1)
	located.Lng = floatp(30)
	unlocated := spotWithID(2) // no coordinates at all

	page, err := SearchSpots([]models.Spot{located, unlocated}, SpotFilters{
		MinLng: floatp(0),
	})
	require.NoError(t, err)
	require.Len(t, page.Spots, 1)
	require.Equal(t, uint(1), page.Spots[0].ID)

	// Without a geo bound the unlocated spot is a match like any other.
	page, err = SearchSpots([]models.Spot{located, unlocated}, SpotFilters{})
	require.NoError(t, err)
	require.Len(t, page.Spots, 2)
}

func TestSearchSpots_PriceBounds(t *testing.T) {
	cheap := spotWithID(1)
	cheap.Price = 50
	mid := spotWithID(2)
	mid.Price = 100
	dear := spotWithID(3)
	dear.Price = 500

	page, err := SearchSpots([]models.Spot{cheap, mid, dear}, SpotFilters{
		MinPrice: floatp(50),
		MaxPrice: floatp(100),
	})
	require.NoError(t, err)
	require.Len(t, page.Spots, 2, "price bounds are inclusive")
}

func TestSearchSpots_Enrichment(t *testing.T) {
	spot := spotWithID(1)
	spot.Price = 123.45
	spot.Images = []models.SpotImage{{URL: "http://img/p.jpg", Preview: true}}
	spot.Reviews = []models.Review{{Stars: 4}, {Stars: 2}}

	page, err := SearchSpots([]models.Spot{spot}, SpotFilters{})
	require.NoError(t, err)

	got := page.Spots[0]
	require.Equal(t, 123.45, got.Price)
	require.NotNil(t, got.PreviewImage)
	require.Equal(t, "http://img/p.jpg", *got.PreviewImage)
	require.NotNil(t, got.AvgRating)
	require.InDelta(t, 3.0, *got.AvgRating, 0.0001)

	bare := spotWithID(2)
	page, err = SearchSpots([]models.Spot{bare}, SpotFilters{})
	require.NoError(t, err)
	require.Nil(t, page.Spots[0].PreviewImage)
	require.Nil(t, page.Spots[0].AvgRating)
}

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, 20},    // defaults
		{1, 20, 1, 20},   // in range untouched
		{11, 25, 10, 20}, // clamped to the upper bounds
		{-3, -1, 1, 20},
	}

	for _, tc := range cases {
		page, size := NormalizePage(tc.page, tc.size)
		require.Equal(t, tc.wantPage, page)
		require.Equal(t, tc.wantSize, size)
	}
}

func TestBoundSQL(t *testing.T) {
	sql, arg := Bound{Column: "lat", Op: GreaterOrEqual, Value: 12.5}.SQL()
	require.Equal(t, "lat >= ?", sql)
	require.Equal(t, 12.5, arg)

	sql, arg = Bound{Column: "price", Op: LessOrEqual, Value: 300}.SQL()
	require.Equal(t, "price <= ?", sql)
	require.Equal(t, float64(300), arg)
}

func TestSpotFilters_Bounds(t *testing.T) {
	f := SpotFilters{
		MinLng: floatp(-10),
		MaxLng: floatp(25),
	}

	bounds := f.Bounds()
	require.Len(t, bounds, 2)

	// Each longitude bound compares against its own value.
	require.Equal(t, Bound{Column: "lng", Op: GreaterOrEqual, Value: -10}, bounds[0])
	require.Equal(t, Bound{Column: "lng", Op: LessOrEqual, Value: 25}, bounds[1])

	require.Empty(t, SpotFilters{}.Bounds())
}

func floatp(v float64) *float64 { return &v }
