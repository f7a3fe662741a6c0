package database

import (
	"context"

	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rpupo63/portfolio-tracker-backend/models"
)

// ProjectStore is durable keyed storage for projects with auto-incrementing ids.
//
// Add and Update reject a blank title with a missing-required-field error.
// FindByID, Update and Delete report errs.ErrNotFound when no row has the id.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]*models.Project, error)
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	Add(ctx context.Context, fields models.ProjectFields) (*models.Project, error)
	Update(ctx context.Context, id uint, fields models.ProjectFields) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

func validateFields(fields models.ProjectFields) error {
	if !fields.HasTitle() {
		return errs.NewMissingRequiredFieldError("title")
	}
	return nil
}

func projectNotFound() error {
	return errs.NewNotFound("project")
}
