package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	UserID uint          `json:"userId" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	SpotID uint          `json:"spotId" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User   User          `json:"user" gorm:"foreignKey:UserID"`
	Spot   Spot          `json:"spot" gorm:"foreignKey:SpotID"`
	Body   string        `json:"body" gorm:"type:text;not null"`
	Stars  int           `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Images []ReviewImage `json:"images,omitempty" gorm:"foreignKey:ReviewID"`
}

type ReviewImage struct {
	gorm.Model
	ReviewID uint   `json:"reviewId" gorm:"not null;index;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	URL      string `json:"url" gorm:"not null"`
}
