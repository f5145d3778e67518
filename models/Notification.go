package models

import "gorm.io/gorm"

// Notification is an in-app message for a user, e.g. a host learning about a
// new booking on one of their spots.
type Notification struct {
	gorm.Model
	UserID  uint   `json:"userID" gorm:"not null;index"`
	Title   string `json:"title"`
	Message string `json:"message" gorm:"type:text"`
	Type    string `json:"type"` // booking_created, booking_updated, booking_cancelled
	RefID   uint   `json:"refID"`
	RefType string `json:"refType"` // booking, spot
	IsRead  bool   `json:"isRead" gorm:"default:false"`
}
