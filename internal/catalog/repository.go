package catalog

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidOrder      = errors.New("image ids must list every image of the project exactly once")
	ErrImageNotInProject = errors.New("image does not belong to project")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidSlug       = errors.New("invalid slug")
)

// Repository is the catalog of projects and their images.
//
// IMPORTANT: pass db in, do NOT import portfolio-app/database here (keeps the
// package testable against any gorm dialect).
type Repository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
