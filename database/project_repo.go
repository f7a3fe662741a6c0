package database

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-tracker-backend/models"
	"gorm.io/gorm"
)

// mutableColumns lists every column an update overwrites
var mutableColumns = []string{"title", "description", "technologies", "project_url", "github_url"}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects from the database in id order
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	projects := []*models.Project{}
	err := r.db.WithContext(ctx).Order("id").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, projectNotFound()
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project and returns the stored row with its assigned id
func (r *ProjectRepo) Add(ctx context.Context, fields models.ProjectFields) (*models.Project, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	var project models.Project
	project.Apply(fields)
	if err := r.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update overwrites every mutable column of the project with the given id
func (r *ProjectRepo) Update(ctx context.Context, id uint, fields models.ProjectFields) error {
	if err := validateFields(fields); err != nil {
		return err
	}

	var values models.Project
	values.Apply(fields)

	// Select forces zero values through so omitted fields are cleared
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Select(mutableColumns).
		Updates(&values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectNotFound()
	}
	return nil
}

// Delete removes a project from the database by id
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return projectNotFound()
	}
	return nil
}

// Count returns the number of stored projects
func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&count).Error
	return count, err
}
