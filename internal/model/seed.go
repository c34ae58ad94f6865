package model

import (
	"barefoot/internal/config"
	"barefoot/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Hasher hashes seed passwords.
type Hasher interface {
	Hash(password string) (string, error)
}

type userSeed struct {
	User        entity.DbUser
	ManagerMail string
}

// SeedDefaultUsers ensures one account per role exists so a fresh install can be administered.
func SeedDefaultUsers(ctx context.Context, repo Repository, hasher Hasher, cfg config.Config) error {
	if repo == nil || !cfg.SeedDefaultUsers {
		return nil
	}
	password := strings.TrimSpace(cfg.SeedPassword)
	if password == "" {
		return fmt.Errorf("SEED_PASSWORD is required when SEED_DEFAULT_USERS is enabled")
	}

	for _, seed := range buildDefaultUserSeeds() {
		existing, err := repo.GetUserByEmail(ctx, seed.User.Email)
		switch {
		case err == nil:
			logrus.WithField("email", existing.Email).Debug("seed user already present")
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		user := seed.User
		hash, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		if seed.ManagerMail != "" {
			manager, err := repo.GetUserByEmail(ctx, seed.ManagerMail)
			if err != nil {
				return fmt.Errorf("seed manager %s: %w", seed.ManagerMail, err)
			}
			managerID := manager.ID
			user.ManagerID = &managerID
			user.ManagerName = manager.FullName()
		}
		if err := repo.CreateUser(ctx, &user); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		logrus.WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Info("seed user created")
	}
	return nil
}

// buildDefaultUserSeeds lists managers before the requesters that reference them.
func buildDefaultUserSeeds() []userSeed {
	return []userSeed{
		{User: entity.DbUser{FirstName: "super", LastName: "admin", Email: "superadmin@barefootnomad.com", Role: entity.RoleSuperAdmin, IsVerified: true, EmailNotifications: true}},
		{User: entity.DbUser{FirstName: "travel", LastName: "admin", Email: "traveladmin@barefootnomad.com", Role: entity.RoleTravelAdmin, IsVerified: true, EmailNotifications: true}},
		{User: entity.DbUser{FirstName: "line", LastName: "manager", Email: "manager@barefootnomad.com", Role: entity.RoleManager, IsVerified: true, EmailNotifications: true}},
		{
			User:        entity.DbUser{FirstName: "default", LastName: "requester", Email: "requester@barefootnomad.com", Role: entity.RoleRequester, IsVerified: true, EmailNotifications: true},
			ManagerMail: "manager@barefootnomad.com",
		},
	}
}
