package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"

	"spotrent-server/models"
	"spotrent-server/services"
)

// buildFilterTestApp exposes parseSpotFilters through a probe handler so the
// query validation can be exercised without a store.
func buildFilterTestApp() *iris.Application {
	app := iris.New()
	app.Get("/probe", func(ctx iris.Context) {
		filters, ok := parseSpotFilters(ctx)
		if !ok {
			return
		}
		ctx.JSON(iris.Map{
			"page":   filters.Page,
			"size":   filters.Size,
			"minLat": filters.MinLat,
			"maxLng": filters.MaxLng,
		})
	})
	app.Build()
	return app
}

func TestParseSpotFilters_Defaults(t *testing.T) {
	app := buildFilterTestApp()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Page   int      `json:"page"`
		Size   int      `json:"size"`
		MinLat *float64 `json:"minLat"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Page != 1 || body.Size != 20 {
		t.Fatalf("expected defaults page=1 size=20, got page=%d size=%d", body.Page, body.Size)
	}
	if body.MinLat != nil {
		t.Fatalf("expected unsupplied minLat to stay nil, got %v", *body.MinLat)
	}
}

func TestParseSpotFilters_ParsesStringEncodedDecimals(t *testing.T) {
	app := buildFilterTestApp()

	req := httptest.NewRequest(http.MethodGet, "/probe?minLat=-12.25&maxLng=100.5&page=2&size=5", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Page   int      `json:"page"`
		Size   int      `json:"size"`
		MinLat *float64 `json:"minLat"`
		MaxLng *float64 `json:"maxLng"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Page != 2 || body.Size != 5 {
		t.Fatalf("expected page=2 size=5, got page=%d size=%d", body.Page, body.Size)
	}
	if body.MinLat == nil || *body.MinLat != -12.25 {
		t.Fatalf("minLat parsed wrong: %v", body.MinLat)
	}
	if body.MaxLng == nil || *body.MaxLng != 100.5 {
		t.Fatalf("maxLng parsed wrong: %v", body.MaxLng)
	}
}

func TestSpotsPayload_UsesSpotsKey(t *testing.T) {
	spots := []models.Spot{
		{Model: gorm.Model{ID: 1}, Name: "Cabin", Images: []models.SpotImage{{URL: "http://img/cabin.jpg", Preview: true}}},
		{Model: gorm.Model{ID: 2}, Name: "Loft"},
	}

	payload := spotsPayload(spots)

	enriched, ok := payload["Spots"].([]services.EnrichedSpot)
	if !ok {
		t.Fatalf("expected payload keyed by Spots with enriched entries, got %#v", payload)
	}
	if len(enriched) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(enriched))
	}
	if enriched[0].PreviewImage == nil || *enriched[0].PreviewImage != "http://img/cabin.jpg" {
		t.Fatalf("expected preview image to survive enrichment, got %v", enriched[0].PreviewImage)
	}
	if enriched[1].AvgRating != nil {
		t.Fatalf("expected nil avgRating for unreviewed spot, got %v", *enriched[1].AvgRating)
	}
}

func TestParseSpotFilters_Rejections(t *testing.T) {
	app := buildFilterTestApp()

	for _, query := range []string{
		"?page=11",
		"?page=0",
		"?size=21",
		"?minLat=abc",
		"?maxLng=12..5",
		"?minPrice=-1",
	} {
		req := httptest.NewRequest(http.MethodGet, "/probe"+query, nil)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d", query, resp.Code)
		}
	}
}
