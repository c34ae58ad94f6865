package sql

import (
	"barefoot/internal/entity"
	"fmt"

	"gorm.io/gorm"
)

var errNotInitialised = fmt.Errorf("repository not initialised")

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) ready() error {
	if r == nil || r.db == nil {
		return errNotInitialised
	}
	return nil
}

// orderClause builds an ORDER BY from a whitelisted sort column.
func orderClause(params entity.BaseParams, allowed map[string]struct{}, fallback string) string {
	if _, ok := allowed[params.SortBy]; !ok {
		return fallback
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	return params.SortBy + " " + direction
}
