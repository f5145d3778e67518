package models

import (
	"gorm.io/gorm"
)

type Spot struct {
	gorm.Model
	OwnerID     uint        `json:"ownerId" gorm:"not null;index"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	Country     string      `json:"country"`
	Lat         *float64    `json:"lat"`
	Lng         *float64    `json:"lng"`
	Name        string      `json:"name" gorm:"size:50"`
	Description string      `json:"description" gorm:"type:text"`
	Price       float64     `json:"price" gorm:"not null;check:price >= 0"`
	Images      []SpotImage `json:"images,omitempty" gorm:"foreignKey:SpotID"`
	Reviews     []Review    `json:"reviews,omitempty" gorm:"foreignKey:SpotID"`
	Bookings    []Booking   `json:"bookings,omitempty" gorm:"foreignKey:SpotID"`
	Owner       *User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

type SpotImage struct {
	gorm.Model
	SpotID  uint   `json:"spotId" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	URL     string `json:"url" gorm:"not null"`
	Preview bool   `json:"preview"`
}
