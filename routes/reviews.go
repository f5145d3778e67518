package routes

import (
	"errors"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"

	"spotrent-server/models"
	"spotrent-server/services"
	"spotrent-server/storage"
	"spotrent-server/utils"
)

type CreateReviewInput struct {
	Body  string `json:"body" validate:"required,max=1000"`
	Stars int    `json:"stars" validate:"required,min=1,max=5"`
}

// ListSpotReviews returns a spot's reviews with reviewer info and the
// aggregate rating.
func ListSpotReviews(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	var reviews []models.Review
	if err := storage.DB.Preload("User").Preload("Images").
		Where("spot_id = ?", spot.ID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"Reviews":       reviews,
		"reviewCount":   len(reviews),
		"averageRating": services.AverageRating(reviews),
	})
}

// CreateSpotReview creates a review; a user gets at most one review per spot.
func CreateSpotReview(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.Review
	err := storage.DB.Where("spot_id = ? AND user_id = ?", spot.ID, claims.ID).First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"User already has a review for this spot", ctx)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.Review{
		UserID: claims.ID,
		SpotID: spot.ID,
		Body:   input.Body,
		Stars:  input.Stars,
	}

	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// DeleteReview removes the caller's own review.
func DeleteReview(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Review couldn't be found", ctx)
		return
	}

	if review.UserID != claims.ID {
		utils.CreateForbidden(ctx)
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONMessage(ctx, iris.StatusOK, "Successfully deleted")
}
