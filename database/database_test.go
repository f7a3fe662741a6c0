package database

import (
	"context"
	"sync"
	"testing"

	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rpupo63/portfolio-tracker-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]string
		want    string
		wantErr func(error) bool
	}{
		{
			name:   "sqlite default path",
			config: map[string]string{},
			want:   "portfolio.db",
		},
		{
			name:   "sqlite custom path",
			config: map[string]string{"DB_TYPE": "sqlite", "DB_PATH": "/tmp/p.db"},
			want:   "/tmp/p.db",
		},
		{
			name: "postgres",
			config: map[string]string{
				"DB_TYPE": "postgres", "DB_HOST": "db", "DB_USERNAME": "u",
				"DB_PASSWORD": "p", "DB_DATABASE": "portfolio",
			},
			want: "host=db user=u password=p dbname=portfolio port=5432 sslmode=disable",
		},
		{
			name: "supabase",
			config: map[string]string{
				"DB_TYPE": "supa", "SUPABASE_DB_HOST": "h", "SUPABASE_DB_USER": "u",
				"SUPABASE_DB_PASSWORD": "p", "SUPABASE_DB_NAME": "n",
			},
			want: "host=h user=u password=p dbname=n port=5432 sslmode=require",
		},
		{
			name: "mysql",
			config: map[string]string{
				"DB_TYPE": "mysql", "DB_HOST": "db", "DB_USERNAME": "u",
				"DB_PASSWORD": "p", "DB_DATABASE": "portfolio",
			},
			want: "u:p@tcp(db:3306)/portfolio?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		},
		{
			name: "sqlserver escapes credentials",
			config: map[string]string{
				"DB_TYPE": "sqlserver", "DB_HOST": "db", "DB_USERNAME": "sa",
				"DB_PASSWORD": "p@ss", "DB_DATABASE": "portfolio",
			},
			want: "sqlserver://sa:p%40ss@db:1433?database=portfolio",
		},
		{
			name:   "explicit dsn wins",
			config: map[string]string{"DB_TYPE": "postgres", "DB_DSN": "postgres://x"},
			want:   "postgres://x",
		},
		{
			name:    "unsupported type",
			config:  map[string]string{"DB_TYPE": "oracle"},
			wantErr: errs.IsUnsupportedDatabaseError,
		},
		{
			name:    "postgres without host",
			config:  map[string]string{"DB_TYPE": "postgres", "DB_USERNAME": "u", "DB_PASSWORD": "p"},
			wantErr: errs.IsEnvironmentVariableError,
		},
		{
			name:    "mysql without host",
			config:  map[string]string{"DB_TYPE": "mysql", "DB_HOST": ""},
			wantErr: errs.IsEnvironmentVariableError,
		},
		{
			name:    "sqlserver without host",
			config:  map[string]string{"DB_TYPE": "sqlserver"},
			wantErr: errs.IsEnvironmentVariableError,
		},
		{
			name:    "supabase without host",
			config:  map[string]string{"DB_TYPE": "supa", "DB_HOST": "db", "SUPABASE_DB_USER": "u"},
			wantErr: errs.IsEnvironmentVariableError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildDSN(tt.config)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpen_Memory(t *testing.T) {
	db, err := Open(map[string]string{"DB_TYPE": "memory"})
	require.NoError(t, err)

	assert.Nil(t, db.Conn())
	assert.IsType(t, &MemoryProjectRepo{}, db.ProjectRepo())
	assert.NoError(t, db.Ping(context.Background()))
	assert.NoError(t, db.Close())
}

func TestOpen_SQLiteCreatesTable(t *testing.T) {
	db := newSQLiteTestDB(t)

	require.NotNil(t, db.Conn())
	assert.True(t, db.Conn().Migrator().HasTable("Projects"))
	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := Open(map[string]string{"DB_TYPE": "oracle"})
	require.Error(t, err)
	assert.True(t, errs.IsUnsupportedDatabaseError(err))
}

func TestOpen_MissingHostFailsBeforeConnecting(t *testing.T) {
	_, err := Open(map[string]string{"DB_TYPE": "postgres", "DB_USERNAME": "portfolio"})
	require.Error(t, err)
	assert.True(t, errs.IsEnvironmentVariableError(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DB_HOST", apiErr.Field)
}

func TestDatabase_SeedSampleData(t *testing.T) {
	ctx := context.Background()
	db := NewMemory()

	inserted, err := db.SeedSampleData(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(models.SampleProjects()), inserted)

	// a non-empty store is left alone
	inserted, err = db.SeedSampleData(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := db.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(models.SampleProjects())), count)
}

func TestDatabase_CloseSQLite(t *testing.T) {
	db, err := Open(map[string]string{"DB_TYPE": "sqlite", "DB_PATH": ":memory:", "DB_LOG_LEVEL": "silent"})
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestMemoryProjectRepo_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepo()

	const workers = 50
	ids := make(chan uint, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			project, err := repo.Add(ctx, weatherApp())
			if err == nil {
				ids <- project.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[uint]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestMemoryProjectRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProjectRepo()

	created, err := repo.Add(ctx, weatherApp())
	require.NoError(t, err)
	created.Title = "mutated by caller"

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weather App", got.Title)
}

func TestParseGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseGormLogLevel("silent"))
	assert.Equal(t, logger.Error, parseGormLogLevel("ERROR"))
	assert.Equal(t, logger.Info, parseGormLogLevel(" info "))
	assert.Equal(t, logger.Warn, parseGormLogLevel("warn"))
	assert.Equal(t, logger.Warn, parseGormLogLevel("bogus"))
}
