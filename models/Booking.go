package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking reserves a spot for a guest over a half-open [StartDate, EndDate)
// date range. EndDate is strictly after StartDate; request validation enforces
// the ordering before a booking ever reaches the scheduler.
type Booking struct {
	gorm.Model
	SpotID    uint      `json:"spotId" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	StartDate time.Time `json:"startDate" gorm:"not null;index"`
	EndDate   time.Time `json:"endDate" gorm:"not null"`

	Spot *Spot `json:"spot,omitempty" gorm:"foreignKey:SpotID"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
