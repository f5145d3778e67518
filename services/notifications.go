package services

import (
	"fmt"
	"log"
	"time"

	"spotrent-server/models"
	"spotrent-server/storage"
)

// NotificationService writes in-app notifications for hosts and guests.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyHostOfBooking tells a spot's owner about a new booking.
func (ns *NotificationService) NotifyHostOfBooking(booking models.Booking, spot models.Spot, guestName string) {
	notification := models.Notification{
		UserID: spot.OwnerID,
		Title:  "New Booking",
		Message: fmt.Sprintf("%s booked %s from %s to %s", guestName, spot.Name,
			booking.StartDate.Format("Jan 2, 2006"), booking.EndDate.Format("Jan 2, 2006")),
		Type:    "booking_created",
		RefID:   booking.ID,
		RefType: "booking",
	}

	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to create booking notification for host %d: %v", spot.OwnerID, err)
	}
}

// NotifyHostOfCancellation tells a spot's owner a booking was cancelled.
func (ns *NotificationService) NotifyHostOfCancellation(booking models.Booking, spot models.Spot) {
	notification := models.Notification{
		UserID: spot.OwnerID,
		Title:  "Booking Cancelled",
		Message: fmt.Sprintf("The booking for %s starting %s was cancelled", spot.Name,
			booking.StartDate.Format("Jan 2, 2006")),
		Type:    "booking_cancelled",
		RefID:   booking.ID,
		RefType: "booking",
	}

	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to create cancellation notification for host %d: %v", spot.OwnerID, err)
	}
}

// MarkRead flags every notification for a user older than now as read.
func (ns *NotificationService) MarkRead(userID uint) error {
	return storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND created_at <= ?", userID, false, time.Now()).
		Update("is_read", true).Error
}
