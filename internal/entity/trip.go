package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TripOneWay    = "one-way"
	TripReturn    = "return"
	TripMultiCity = "multi-city"
)

const (
	TripPending   = "pending"
	TripApproved  = "approved"
	TripRejected  = "rejected"
	TripConfirmed = "confirmed"
)

// DateLayout is the calendar-date format used for travel dates.
const DateLayout = "2006-01-02"

// TripStop is one leg of a multi-city trip.
type TripStop struct {
	Destination   string `json:"destination" binding:"required"`
	DepartureDate string `json:"departure_date" binding:"required"`
	Accommodation string `json:"accommodation"`
}

// TripStops 以 JSON 格式存储多城市行程。
type TripStops []TripStop

// Value 实现 driver.Valuer 接口。
func (s TripStops) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]TripStop(s))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (s *TripStops) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*s = TripStops{}
			return nil
		}
		return json.Unmarshal(v, (*[]TripStop)(s))
	case string:
		if v == "" {
			*s = TripStops{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]TripStop)(s))
	default:
		return fmt.Errorf("unsupported type for TripStops: %T", value)
	}
}

// DbTripRequest is a travel request raised by a requester for manager approval.
type DbTripRequest struct {
	ID            string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	RequesterID   string    `gorm:"column:requester_id;type:varchar(36);index;not null" json:"requester_id"`
	Email         string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	ManagerID     string    `gorm:"column:manager_id;type:varchar(36);index" json:"manager_id"`
	Type          string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Origin        string    `gorm:"column:origin;type:varchar(255)" json:"origin"`
	Destination   string    `gorm:"column:destination;type:varchar(255)" json:"destination"`
	DepartureDate string    `gorm:"column:departure_date;type:varchar(20)" json:"departure_date"`
	ReturnDate    string    `gorm:"column:return_date;type:varchar(20)" json:"return_date,omitempty"`
	Reason        string    `gorm:"column:reason;type:text" json:"reason"`
	Accommodation string    `gorm:"column:accommodation;type:varchar(255)" json:"accommodation"`
	Status        string    `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	Stops         TripStops `gorm:"column:stops;type:text" json:"stops,omitempty"`
}

// TableName overrides default pluralised name.
func (DbTripRequest) TableName() string {
	return "trip_requests"
}

// TripCreateRequest is the payload for every trip type. Type comes from the route.
type TripCreateRequest struct {
	Origin        string                `json:"origin" binding:"required"`
	Destination   string                `json:"destination"`
	DepartureDate string                `json:"departure_date"`
	ReturnDate    string                `json:"return_date"`
	Reason        string                `json:"reason" binding:"required"`
	Accommodation string                `json:"accommodation"`
	Stops         []TripStop            `json:"stops" binding:"omitempty,dive"`
	Remember      bool                  `json:"remember"`
	Profile       *ProfileUpdateRequest `json:"profile,omitempty"`
}

// TripUpdateRequest edits a pending request; nil means unchanged.
// Multi-city trips change their route through Stops only.
type TripUpdateRequest struct {
	Origin        *string     `json:"origin,omitempty"`
	Destination   *string     `json:"destination,omitempty"`
	DepartureDate *string     `json:"departure_date,omitempty"`
	ReturnDate    *string     `json:"return_date,omitempty"`
	Reason        *string     `json:"reason,omitempty"`
	Accommodation *string     `json:"accommodation,omitempty"`
	Stops         *[]TripStop `json:"stops,omitempty" binding:"omitempty,dive"`
}

// TripQuery filters trip requests.
type TripQuery struct {
	BaseParams
	RequesterID string `json:"-" form:"-"`
	ManagerID   string `json:"-" form:"-"`
	Status      string `json:"status" form:"status" query:"status"`
}
