package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Email       string         `json:"email" gorm:"uniqueIndex"`
	Password    string         `json:"-"`
	SocialLogin bool           `json:"socialLogin"`
	AvatarURL   string         `json:"avatarURL"`
	SavedSpots  datatypes.JSON `json:"savedSpots"`
	Spots       []Spot         `json:"spots,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
	Bookings    []Booking      `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
	Reviews     []Review       `json:"reviews,omitempty" gorm:"foreignKey:UserID"`
}

// Custom JSON marshaling so SavedSpots always serializes as an array of ids
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		SavedSpots []int `json:"savedSpots"`
		*Alias
	}{
		SavedSpots: []int{},
		Alias:      (*Alias)(u),
	}

	if u.SavedSpots != nil {
		var saved []int
		if err := json.Unmarshal(u.SavedSpots, &saved); err == nil {
			aux.SavedSpots = saved
		}
	}

	return json.Marshal(aux)
}
