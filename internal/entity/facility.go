package entity

import "time"

const (
	RoomAvailable = "available"
	RoomBooked    = "booked"
)

const (
	ReactionLike   = "like"
	ReactionUnlike = "unlike"
)

// DbFacility is an accommodation facility offered to travellers.
type DbFacility struct {
	ID        string      `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Name      string      `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Location  string      `gorm:"column:location;type:varchar(255);index;not null" json:"location"`
	Address   string      `gorm:"column:address;type:varchar(255)" json:"address"`
	Image     string      `gorm:"column:image;type:varchar(1024)" json:"image"`
	Amenities StringArray `gorm:"column:amenities;type:text" json:"amenities"`
	CreatedBy string      `gorm:"column:created_by;type:varchar(36);index" json:"created_by"`
	Likes     int         `gorm:"column:likes;not null;default:0" json:"likes"`
	Unlikes   int         `gorm:"column:unlikes;not null;default:0" json:"unlikes"`
	// Rating is the mean of every user's 1-5 score.
	Rating      float64  `gorm:"column:rating;not null;default:0" json:"rating"`
	RatingCount int64    `gorm:"column:rating_count;not null;default:0" json:"rating_count"`
	Rooms       []DbRoom `gorm:"foreignKey:FacilityID" json:"rooms"`
}

// TableName overrides default pluralised name.
func (DbFacility) TableName() string {
	return "facilities"
}

// DbRoom belongs to a facility and can be booked once.
type DbRoom struct {
	ID         string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FacilityID string    `gorm:"column:facility_id;type:varchar(36);index;not null" json:"facility_id"`
	RoomType   string    `gorm:"column:room_type;type:varchar(100);not null" json:"room_type"`
	Cost       float64   `gorm:"column:cost;not null;default:0" json:"cost"`
	Status     string    `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
}

// TableName overrides default pluralised name.
func (DbRoom) TableName() string {
	return "rooms"
}

// DbFacilityReaction records one user's like or unlike of a facility.
type DbFacilityReaction struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	FacilityID string    `gorm:"column:facility_id;type:varchar(36);uniqueIndex:idx_reaction_facility_user;not null" json:"facility_id"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_reaction_facility_user;not null" json:"user_id"`
	Kind       string    `gorm:"column:kind;type:varchar(10);not null" json:"kind"`
}

// TableName overrides default pluralised name.
func (DbFacilityReaction) TableName() string {
	return "facility_reactions"
}

// DbFacilityRating is one user's score for a facility; rating again overwrites it.
type DbFacilityRating struct {
	FacilityID string    `gorm:"primarykey;column:facility_id;type:varchar(36)" json:"facility_id"`
	UserID     string    `gorm:"primarykey;column:user_id;type:varchar(36)" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Rating     int       `gorm:"column:rating;not null" json:"rating"`
}

// TableName overrides default pluralised name.
func (DbFacilityRating) TableName() string {
	return "facility_ratings"
}

// DbFacilityFeedback is a free-text comment left by a requester.
type DbFacilityFeedback struct {
	ID         string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FacilityID string    `gorm:"column:facility_id;type:varchar(36);index;not null" json:"facility_id"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	Comment    string    `gorm:"column:comment;type:text;not null" json:"comment"`
}

// TableName overrides default pluralised name.
func (DbFacilityFeedback) TableName() string {
	return "facility_feedback"
}

// DbBooking reserves a room for a date range.
type DbBooking struct {
	ID         string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FacilityID string    `gorm:"column:facility_id;type:varchar(36);index;not null" json:"facility_id"`
	RoomID     string    `gorm:"column:room_id;type:varchar(36);index;not null" json:"room_id"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	CheckIn    string    `gorm:"column:check_in;type:varchar(20);not null" json:"check_in"`
	CheckOut   string    `gorm:"column:check_out;type:varchar(20);not null" json:"check_out"`
}

// TableName overrides default pluralised name.
func (DbBooking) TableName() string {
	return "bookings"
}

type FacilityCreateRequest struct {
	Name      string   `form:"name" json:"name" binding:"required"`
	Location  string   `form:"location" json:"location" binding:"required"`
	Address   string   `form:"address" json:"address"`
	Amenities []string `form:"amenities" json:"amenities"`
}

type RoomCreateRequest struct {
	RoomType string  `json:"room_type" binding:"required"`
	Cost     float64 `json:"cost" binding:"gte=0"`
}

type BookingRequest struct {
	FacilityID string `json:"facility_id" binding:"required"`
	RoomID     string `json:"room_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
}

// FacilityRateRequest carries the score as a query parameter.
type FacilityRateRequest struct {
	Rating int `form:"rating" json:"rating" binding:"required,min=1,max=5"`
}

type FeedbackRequest struct {
	Comment string `json:"comment" binding:"required,max=2000"`
}

// FeedbackQuery pages through a facility's feedback.
type FeedbackQuery struct {
	BaseParams
	FacilityID string `json:"-" form:"-"`
}

// FacilityQuery filters the facility listing.
type FacilityQuery struct {
	BaseParams
	Location string `json:"location" form:"location" query:"location"`
}
