package converter

import (
	"barefoot/internal/entity"
)

// UserToSummary converts a DbUser to UserSummary.
func UserToSummary(u *entity.DbUser) entity.UserSummary {
	if u == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		ManagerID:   u.ManagerID,
		ManagerName: u.ManagerName,
		CreatedAt:   u.CreatedAt,
	}
}

// UsersToSummaries converts a slice of DbUser to UserSummary.
func UsersToSummaries(users []entity.DbUser) []entity.UserSummary {
	summaries := make([]entity.UserSummary, len(users))
	for i := range users {
		summaries[i] = UserToSummary(&users[i])
	}
	return summaries
}

// UserToProfile converts a DbUser to the self-service profile view.
func UserToProfile(u *entity.DbUser) entity.UserProfile {
	if u == nil {
		return entity.UserProfile{}
	}
	return entity.UserProfile{
		ID:                 u.ID,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Email:              u.Email,
		EmailNotifications: u.EmailNotifications,
		IsVerified:         u.IsVerified,
		Role:               u.Role,
		Language:           u.Language,
		Currency:           u.Currency,
		Department:         u.Department,
		Gender:             u.Gender,
		Residence:          u.Residence,
		Birthdate:          u.Birthdate,
		Image:              u.Image,
	}
}
