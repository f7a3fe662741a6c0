package database

import (
	"context"

	"github.com/rpupo63/portfolio-tracker-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo ProjectStore
	conn        *gorm.DB // nil for the in-memory backend
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
		conn:        db,
	}
}

// NewMemory returns a Database backed entirely by process memory
func NewMemory() Database {
	return NewWithStore(NewMemoryProjectRepo())
}

// NewWithStore wraps an arbitrary project store
func NewWithStore(store ProjectStore) Database {
	return Database{projectRepo: store}
}

func (d Database) ProjectRepo() ProjectStore {
	return d.projectRepo
}

// Conn returns the gorm handle, or nil when the backend is not relational
func (d Database) Conn() *gorm.DB {
	return d.conn
}

// Ping verifies the backing connection is usable
func (d Database) Ping(ctx context.Context) error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool
func (d Database) Close() error {
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedSampleData inserts the sample projects when the store is empty and
// returns how many rows were added.
func (d Database) SeedSampleData(ctx context.Context) (int, error) {
	count, err := d.projectRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("Found existing projects, skipping sample data")
		return 0, nil
	}

	inserted := 0
	for _, fields := range models.SampleProjects() {
		if _, err := d.projectRepo.Add(ctx, fields); err != nil {
			return inserted, err
		}
		inserted++
	}
	log.Info().Int("count", inserted).Msg("Sample data inserted")
	return inserted, nil
}
