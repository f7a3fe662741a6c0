package models

import (
	"encoding/json"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProjectFields_HasTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Weather App", true},
		{"  x  ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ProjectFields{Title: tt.title}.HasTitle(), "title %q", tt.title)
	}
}

func TestProject_ApplyKeepsID(t *testing.T) {
	p := Project{ID: 7, Title: "old", Description: "old description", GithubURL: "https://github.com/u/old"}
	p.Apply(ProjectFields{Title: "new", Technologies: "Go"})

	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, ProjectFields{Title: "new", Technologies: "Go"}, p.Fields())
}

func TestProject_TechnologyList(t *testing.T) {
	assert.Equal(t, []string{"React", "OpenWeather API", "CSS3"}, Project{Technologies: "React, OpenWeather API,  CSS3"}.TechnologyList())
	assert.Equal(t, []string{"Go"}, Project{Technologies: " , Go ,"}.TechnologyList())
	assert.Empty(t, Project{}.TechnologyList())
}

func TestProject_MarshalJSONIncludesTechnologyList(t *testing.T) {
	body, err := json.Marshal(&Project{ID: 7, Title: "Weather App", Technologies: "React, OpenWeather API"})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"title": "Weather App",
		"description": "",
		"technologies": "React, OpenWeather API",
		"project_url": "",
		"github_url": "",
		"technology_list": ["React", "OpenWeather API"]
	}`, string(body))

	body, err = json.Marshal(Project{ID: 1, Title: "Bare"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"technology_list":[]`)

	var decoded Project
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, Project{ID: 1, Title: "Bare"}, decoded)
}

func TestProject_TableName(t *testing.T) {
	assert.Equal(t, "Projects", Project{}.TableName())
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestEnsureTables_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureTables(db))
	require.NoError(t, db.Create(&Project{Title: "kept"}).Error)

	// a second call must not recreate or alter the existing table
	require.NoError(t, EnsureTables(db))

	var count int64
	require.NoError(t, db.Model(&Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestColumnMismatches(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, EnsureTables(db))

	mismatches, err := ColumnMismatches(db, &Project{})
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	require.NoError(t, db.Exec("ALTER TABLE Projects ADD COLUMN created_at DATETIME").Error)

	mismatches, err = ColumnMismatches(db, &Project{})
	require.NoError(t, err)
	assert.Equal(t, []string{"created_at"}, mismatches)

	total, err := GenerateColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
