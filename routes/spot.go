package routes

import (
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"

	"spotrent-server/models"
	"spotrent-server/services"
	"spotrent-server/storage"
	"spotrent-server/utils"
)

type CreateSpotInput struct {
	Address     string   `json:"address" validate:"required"`
	City        string   `json:"city" validate:"required"`
	State       string   `json:"state" validate:"required"`
	Country     string   `json:"country" validate:"required"`
	Lat         *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng         *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Name        string   `json:"name" validate:"required,max=49"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gte=0"`
}

type AddSpotImageInput struct {
	URL     string `json:"url" validate:"required,url"`
	Preview bool   `json:"preview"`
}

// parseSpotFilters reads the recognized query options. Numeric options are
// string-encoded decimals in the URL; they must parse as floats, and page and
// size must sit inside their allowed windows.
func parseSpotFilters(ctx iris.Context) (services.SpotFilters, bool) {
	var f services.SpotFilters

	page := ctx.URLParamIntDefault("page", services.DefaultPage)
	if page < 1 || page > services.MaxPage {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Page must be greater than or equal to 1 and less than or equal to 10", ctx)
		return f, false
	}
	size := ctx.URLParamIntDefault("size", services.DefaultSize)
	if size < 1 || size > services.MaxSize {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Size must be greater than or equal to 1 and less than or equal to 20", ctx)
		return f, false
	}
	f.Page = page
	f.Size = size

	bounds := []struct {
		param   string
		dest    **float64
		message string
		min     *float64
	}{
		{"minLat", &f.MinLat, "Minimum latitude is invalid", nil},
		{"maxLat", &f.MaxLat, "Maximum latitude is invalid", nil},
		{"minLng", &f.MinLng, "Minimum longitude is invalid", nil},
		{"maxLng", &f.MaxLng, "Maximum longitude is invalid", nil},
		{"minPrice", &f.MinPrice, "Minimum price must be greater than or equal to 0", floatPtr(0)},
		{"maxPrice", &f.MaxPrice, "Maximum price must be greater than or equal to 0", floatPtr(0)},
	}

	for _, b := range bounds {
		raw := ctx.URLParam(b.param)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || (b.min != nil && v < *b.min) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", b.message, ctx)
			return f, false
		}
		*b.dest = &v
	}

	return f, true
}

func floatPtr(v float64) *float64 { return &v }

// GetAllSpots returns one page of spots matching the supplied filters, each
// enriched with avgRating and previewImage.
func GetAllSpots(ctx iris.Context) {
	filters, ok := parseSpotFilters(ctx)
	if !ok {
		return
	}

	q := storage.DB.Model(&models.Spot{}).
		Preload("Images").
		Preload("Reviews")
	for _, bound := range filters.Bounds() {
		sql, arg := bound.SQL()
		q = q.Where(sql, arg)
	}

	var spots []models.Spot
	if err := q.Find(&spots).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	page, err := services.SearchSpots(spots, filters)
	if err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spots couldn't be found", ctx)
		return
	}

	ctx.JSON(page)
}

// GetCurrentUserSpots lists the authenticated user's own spots, enriched.
func GetCurrentUserSpots(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var spots []models.Spot
	if err := storage.DB.Preload("Images").Preload("Reviews").
		Where("owner_id = ?", claims.ID).
		Order("id ASC").
		Find(&spots).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(spotsPayload(spots))
}

// spotsPayload wraps enriched spots in the {"Spots": [...]} body shared by
// the search and owner-listing endpoints.
func spotsPayload(spots []models.Spot) iris.Map {
	enriched := make([]services.EnrichedSpot, 0, len(spots))
	for _, s := range spots {
		enriched = append(enriched, services.EnrichSpot(s))
	}
	return iris.Map{"Spots": enriched}
}

// GetSpot returns one spot with its images, owner and review aggregates.
func GetSpot(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.Preload("Images").Preload("Reviews").Preload("Owner").
		First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	ctx.JSON(iris.Map{
		"id":            spot.ID,
		"ownerId":       spot.OwnerID,
		"address":       spot.Address,
		"city":          spot.City,
		"state":         spot.State,
		"country":       spot.Country,
		"lat":           spot.Lat,
		"lng":           spot.Lng,
		"name":          spot.Name,
		"description":   spot.Description,
		"price":         spot.Price,
		"createdAt":     spot.CreatedAt,
		"updatedAt":     spot.UpdatedAt,
		"numReviews":    len(spot.Reviews),
		"avgStarRating": services.AverageRating(spot.Reviews),
		"SpotImages":    spot.Images,
		"Owner":         spot.Owner,
	})
}

func CreateSpot(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateSpotInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	spot := models.Spot{
		OwnerID:     claims.ID,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}

	if err := storage.DB.Create(&spot).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(spot)
}

func UpdateSpot(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	if spot.OwnerID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateSpotInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	spot.Address = input.Address
	spot.City = input.City
	spot.State = input.State
	spot.Country = input.Country
	spot.Lat = input.Lat
	spot.Lng = input.Lng
	spot.Name = input.Name
	spot.Description = input.Description
	spot.Price = input.Price

	if err := storage.DB.Save(&spot).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(spot)
}

func DeleteSpot(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	if spot.OwnerID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&spot).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONMessage(ctx, iris.StatusOK, "Successfully deleted")
}

// AddSpotImage attaches an image to a spot owned by the caller.
func AddSpotImage(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	if spot.OwnerID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input AddSpotImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	image := models.SpotImage{
		SpotID:  spot.ID,
		URL:     input.URL,
		Preview: input.Preview,
	}

	if err := storage.DB.Create(&image).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(image)
}
