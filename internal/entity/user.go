package entity

import (
	"strings"
	"time"
)

const (
	RoleRequester   = "requester"
	RoleManager     = "manager"
	RoleTravelAdmin = "travel administrator"
	RoleSuperAdmin  = "super administrator"
)

// MaxSuperAdmins caps how many accounts may hold the super administrator role.
const MaxSuperAdmins = 2

// Roles lists every assignable role.
var Roles = []string{RoleRequester, RoleManager, RoleTravelAdmin, RoleSuperAdmin}

// ValidRole reports whether role is one of Roles.
func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DbUser represents a persisted user account.
type DbUser struct {
	ID                 string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	FirstName          string    `gorm:"column:first_name;type:varchar(100)" json:"first_name"`
	LastName           string    `gorm:"column:last_name;type:varchar(100)" json:"last_name"`
	Email              string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Role               string    `gorm:"column:role;type:varchar(50);index;not null;default:requester" json:"role"`
	IsVerified         bool      `gorm:"column:is_verified;not null;default:false" json:"is_verified"`
	ManagerID          *string   `gorm:"column:manager_id;type:varchar(36);index" json:"manager_id"`
	ManagerName        string    `gorm:"column:manager_name;type:varchar(255)" json:"manager_name"`
	SignupMethod       string    `gorm:"column:signup_method;type:varchar(50)" json:"signup_method,omitempty"`
	OAuthID            *string   `gorm:"column:oauth_id;type:varchar(255);uniqueIndex" json:"-"`
	Language           string    `gorm:"column:language;type:varchar(50)" json:"language"`
	Currency           string    `gorm:"column:currency;type:varchar(10)" json:"currency"`
	Department         string    `gorm:"column:department;type:varchar(100)" json:"department"`
	Gender             string    `gorm:"column:gender;type:varchar(20)" json:"gender"`
	Residence          string    `gorm:"column:residence;type:varchar(255)" json:"residence"`
	Birthdate          string    `gorm:"column:birthdate;type:varchar(20)" json:"birthdate"`
	Image              string    `gorm:"column:image;type:varchar(1024)" json:"image"`
	EmailNotifications bool      `gorm:"column:email_notifications;not null;default:true" json:"email_notifications"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// FullName joins first and last name the way manager names are displayed.
func (u *DbUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasManager reports whether a manager has been assigned.
func (u *DbUser) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// UserSummary is a lightweight user description returned to clients.
type UserSummary struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsVerified  bool      `json:"is_verified"`
	ManagerID   *string   `json:"manager_id,omitempty"`
	ManagerName string    `json:"manager_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserProfile is the self-service view of an account.
type UserProfile struct {
	ID                 string `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Email              string `json:"email"`
	EmailNotifications bool   `json:"email_notifications"`
	IsVerified         bool   `json:"is_verified"`
	Role               string `json:"role"`
	Language           string `json:"language"`
	Currency           string `json:"currency"`
	Department         string `json:"department"`
	Gender             string `json:"gender"`
	Residence          string `json:"residence"`
	Birthdate          string `json:"birthdate"`
	Image              string `json:"image"`
}

// UserQuery supports listing users with pagination.
type UserQuery struct {
	BaseParams
	Role    string `json:"role" form:"role" query:"role"`
	Keyword string `json:"keyword" form:"keyword" query:"keyword"`
}

type AuthLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthRegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      UserSummary `json:"user"`
	EmailSent *bool       `json:"email_sent,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type SetRoleRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type AssignManagerRequest struct {
	ID        string `json:"id" binding:"required"`
	ManagerID string `json:"manager_id" binding:"required"`
}

// ProfileUpdateRequest carries the editable profile fields; nil means unchanged.
type ProfileUpdateRequest struct {
	Language           *string `json:"language,omitempty"`
	Currency           *string `json:"currency,omitempty"`
	Department         *string `json:"department,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Residence          *string `json:"residence,omitempty"`
	Birthdate          *string `json:"birthdate,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
}

// Updates converts the request into store updates, lowercasing residence.
func (r ProfileUpdateRequest) Updates() UserUpdates {
	updates := UserUpdates{
		Language:           trimmedPtr(r.Language),
		Currency:           trimmedPtr(r.Currency),
		Department:         trimmedPtr(r.Department),
		Gender:             trimmedPtr(r.Gender),
		Birthdate:          trimmedPtr(r.Birthdate),
		EmailNotifications: r.EmailNotifications,
	}
	if r.Residence != nil {
		residence := strings.ToLower(strings.TrimSpace(*r.Residence))
		updates.Residence = &residence
	}
	return updates
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}
