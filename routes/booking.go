package routes

import (
	"errors"
	"fmt"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spotrent-server/models"
	"spotrent-server/services"
	"spotrent-server/storage"
	"spotrent-server/utils"
)

type BookingInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

var errBookingConflict = errors.New("booking conflict")

// bookingWindows projects stored bookings onto the scheduler's input.
func bookingWindows(bookings []models.Booking) []services.BookingWindow {
	windows := make([]services.BookingWindow, 0, len(bookings))
	for _, b := range bookings {
		windows = append(windows, services.BookingWindow{
			ID:    b.ID,
			Start: b.StartDate,
			End:   b.EndDate,
		})
	}
	return windows
}

// writeBookingConflict renders the contract body for an overlap rejection:
// statusCode, a human-readable message, and an errors map keyed by the
// boundary that failed.
func writeBookingConflict(decision services.Decision, ctx iris.Context) {
	errs := iris.Map{}
	if decision.StartConflict {
		errs["startDate"] = "Start date conflicts with an existing booking"
	}
	if decision.EndConflict {
		errs["endDate"] = "End date conflicts with an existing booking"
	}

	ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
		"message":    "Sorry, this spot is already booked for the specified dates",
		"statusCode": iris.StatusForbidden,
		"errors":     errs,
	})
}

// GetCurrentUserBookings lists the caller's bookings, each nesting an
// enriched summary of the booked spot.
func GetCurrentUserBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var bookings []models.Booking
	if err := storage.DB.Preload("Spot.Images").
		Where("user_id = ?", claims.ID).
		Order("start_date ASC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	out := make([]iris.Map, 0, len(bookings))
	for _, b := range bookings {
		entry := iris.Map{
			"id":        b.ID,
			"spotId":    b.SpotID,
			"userId":    b.UserID,
			"startDate": b.StartDate,
			"endDate":   b.EndDate,
			"createdAt": b.CreatedAt,
			"updatedAt": b.UpdatedAt,
		}
		if b.Spot != nil {
			spot := *b.Spot
			entry["Spot"] = iris.Map{
				"id":           spot.ID,
				"ownerId":      spot.OwnerID,
				"address":      spot.Address,
				"city":         spot.City,
				"state":        spot.State,
				"country":      spot.Country,
				"lat":          spot.Lat,
				"lng":          spot.Lng,
				"name":         spot.Name,
				"price":        spot.Price,
				"previewImage": services.SelectPreviewImage(spot.Images),
			}
		}
		out = append(out, entry)
	}

	ctx.JSON(iris.Map{"Bookings": out})
}

// GetSpotBookings lists bookings for a spot. The spot's owner sees the full
// records including the guest; everyone else sees only the reserved ranges.
func GetSpotBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var spot models.Spot
	if err := storage.DB.First(&spot, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	}

	var bookings []models.Booking
	q := storage.DB.Where("spot_id = ?", spot.ID).Order("start_date ASC")
	if spot.OwnerID == claims.ID {
		q = q.Preload("User")
	}
	if err := q.Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if spot.OwnerID == claims.ID {
		ctx.JSON(iris.Map{"Bookings": bookings})
		return
	}

	public := make([]iris.Map, 0, len(bookings))
	for _, b := range bookings {
		public = append(public, iris.Map{
			"spotId":    b.SpotID,
			"startDate": b.StartDate,
			"endDate":   b.EndDate,
		})
	}
	ctx.JSON(iris.Map{"Bookings": public})
}

// CreateSpotBooking reserves a date range on a spot. The read of existing
// bookings, the availability decision and the insert run inside one
// transaction holding a row lock on the spot, so two concurrent requests for
// the same range cannot both commit.
func CreateSpotBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var input BookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate cannot be on or before startDate", ctx)
		return
	}

	var booking models.Booking
	var decision services.Decision

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		var spot models.Spot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&spot, id).Error; err != nil {
			return err
		}

		if spot.OwnerID == claims.ID {
			return errOwnBooking
		}

		var existing []models.Booking
		if err := tx.Where("spot_id = ?", spot.ID).Find(&existing).Error; err != nil {
			return err
		}

		decision = services.CheckAvailability(bookingWindows(existing), input.StartDate, input.EndDate, 0)
		if !decision.Approved {
			return errBookingConflict
		}

		booking = models.Booking{
			SpotID:    spot.ID,
			UserID:    claims.ID,
			StartDate: input.StartDate,
			EndDate:   input.EndDate,
		}
		return tx.Create(&booking).Error
	})

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Spot couldn't be found", ctx)
		return
	case errors.Is(err, errOwnBooking):
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You cannot book your own spot", ctx)
		return
	case errors.Is(err, errBookingConflict):
		writeBookingConflict(decision, ctx)
		return
	default:
		utils.CreateInternalServerError(ctx)
		return
	}

	notifyHost(booking, claims.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

var errOwnBooking = errors.New("owner booking own spot")

// UpdateBooking changes the dates of an existing booking. The booking's own
// id is excluded from conflict evaluation so a no-op or shrink always
// succeeds; an already-ended booking is immutable regardless of the proposed
// dates.
func UpdateBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var input BookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"endDate cannot come before startDate", ctx)
		return
	}

	var booking models.Booking
	var decision services.Decision
	now := time.Now()

	err := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			return err
		}

		if booking.UserID != claims.ID {
			return errNotYours
		}

		stored := services.BookingWindow{ID: booking.ID, Start: booking.StartDate, End: booking.EndDate}
		if err := services.CheckMutable(stored, now); err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&models.Spot{}, booking.SpotID).Error; err != nil {
			return err
		}

		var existing []models.Booking
		if err := tx.Where("spot_id = ?", booking.SpotID).Find(&existing).Error; err != nil {
			return err
		}

		decision = services.CheckAvailability(bookingWindows(existing), input.StartDate, input.EndDate, booking.ID)
		if !decision.Approved {
			return errBookingConflict
		}

		booking.StartDate = input.StartDate
		booking.EndDate = input.EndDate
		return tx.Save(&booking).Error
	})

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking couldn't be found", ctx)
		return
	case errors.Is(err, errNotYours):
		utils.CreateForbidden(ctx)
		return
	case errors.Is(err, services.ErrExpiredBooking):
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Past bookings can't be modified", ctx)
		return
	case errors.Is(err, errBookingConflict):
		writeBookingConflict(decision, ctx)
		return
	default:
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(booking)
}

var errNotYours = errors.New("booking belongs to another user")

// DeleteBooking cancels a booking. Allowed for the renter or the spot's
// owner, and only while the booking has not started yet.
func DeleteBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	id := ctx.Params().Get("id")

	var booking models.Booking
	if err := storage.DB.Preload("Spot").First(&booking, id).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking couldn't be found", ctx)
		return
	}

	isRenter := booking.UserID == claims.ID
	isOwner := booking.Spot != nil && booking.Spot.OwnerID == claims.ID
	if !isRenter && !isOwner {
		utils.CreateForbidden(ctx)
		return
	}

	stored := services.BookingWindow{ID: booking.ID, Start: booking.StartDate, End: booking.EndDate}
	if err := services.CheckDeletable(stored, time.Now()); err != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"Bookings that have been started can't be deleted", ctx)
		return
	}

	if err := storage.DB.Delete(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if booking.Spot != nil && isRenter {
		services.NewNotificationService().NotifyHostOfCancellation(booking, *booking.Spot)
	}

	utils.JSONMessage(ctx, iris.StatusOK, "Successfully deleted")
}

func notifyHost(booking models.Booking, guestID uint) {
	var spot models.Spot
	if err := storage.DB.First(&spot, booking.SpotID).Error; err != nil {
		return
	}

	guestName := fmt.Sprintf("Guest #%d", guestID)
	var guest models.User
	if err := storage.DB.First(&guest, guestID).Error; err == nil {
		guestName = fmt.Sprintf("%s %s", guest.FirstName, guest.LastName)
	}

	go services.NewNotificationService().NotifyHostOfBooking(booking, spot, guestName)
}
