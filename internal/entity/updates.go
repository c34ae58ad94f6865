package entity

// UserUpdates 用户更新字段
type UserUpdates struct {
	FirstName          *string
	LastName           *string
	PasswordHash       *string
	Role               *string
	IsVerified         *bool
	ManagerID          *string
	ManagerName        *string
	Language           *string
	Currency           *string
	Department         *string
	Gender             *string
	Residence          *string
	Birthdate          *string
	Image              *string
	EmailNotifications *bool
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	setString(updates, "first_name", u.FirstName)
	setString(updates, "last_name", u.LastName)
	setString(updates, "password_hash", u.PasswordHash)
	setString(updates, "role", u.Role)
	setString(updates, "manager_id", u.ManagerID)
	setString(updates, "manager_name", u.ManagerName)
	setString(updates, "language", u.Language)
	setString(updates, "currency", u.Currency)
	setString(updates, "department", u.Department)
	setString(updates, "gender", u.Gender)
	setString(updates, "residence", u.Residence)
	setString(updates, "birthdate", u.Birthdate)
	setString(updates, "image", u.Image)
	if u.IsVerified != nil {
		updates["is_verified"] = *u.IsVerified
	}
	if u.EmailNotifications != nil {
		updates["email_notifications"] = *u.EmailNotifications
	}
	return updates
}

// Apply 将更新写入内存中的用户对象
func (u UserUpdates) Apply(user *DbUser) {
	applyString(&user.FirstName, u.FirstName)
	applyString(&user.LastName, u.LastName)
	applyString(&user.PasswordHash, u.PasswordHash)
	applyString(&user.Role, u.Role)
	applyString(&user.ManagerName, u.ManagerName)
	applyString(&user.Language, u.Language)
	applyString(&user.Currency, u.Currency)
	applyString(&user.Department, u.Department)
	applyString(&user.Gender, u.Gender)
	applyString(&user.Residence, u.Residence)
	applyString(&user.Birthdate, u.Birthdate)
	applyString(&user.Image, u.Image)
	if u.ManagerID != nil {
		id := *u.ManagerID
		user.ManagerID = &id
	}
	if u.IsVerified != nil {
		user.IsVerified = *u.IsVerified
	}
	if u.EmailNotifications != nil {
		user.EmailNotifications = *u.EmailNotifications
	}
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// TripRequestUpdates 出差申请更新字段
type TripRequestUpdates struct {
	Origin        *string
	Destination   *string
	DepartureDate *string
	ReturnDate    *string
	Reason        *string
	Accommodation *string
	Status        *string
	Stops         *TripStops
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u TripRequestUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	setString(updates, "origin", u.Origin)
	setString(updates, "destination", u.Destination)
	setString(updates, "departure_date", u.DepartureDate)
	setString(updates, "return_date", u.ReturnDate)
	setString(updates, "reason", u.Reason)
	setString(updates, "accommodation", u.Accommodation)
	setString(updates, "status", u.Status)
	if u.Stops != nil {
		updates["stops"] = *u.Stops
	}
	return updates
}

// Apply 将更新写入内存中的申请对象
func (u TripRequestUpdates) Apply(trip *DbTripRequest) {
	applyString(&trip.Origin, u.Origin)
	applyString(&trip.Destination, u.Destination)
	applyString(&trip.DepartureDate, u.DepartureDate)
	applyString(&trip.ReturnDate, u.ReturnDate)
	applyString(&trip.Reason, u.Reason)
	applyString(&trip.Accommodation, u.Accommodation)
	applyString(&trip.Status, u.Status)
	if u.Stops != nil {
		trip.Stops = append(TripStops(nil), (*u.Stops)...)
	}
}

// IsEmpty 检查是否没有任何更新字段
func (u TripRequestUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

func setString(m map[string]interface{}, column string, v *string) {
	if v != nil {
		m[column] = *v
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
