package models

import (
	"fmt"
	"log"
	"os"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Column Mismatch Report Usage:

This file contains functionality to generate a report of database columns that aren't
accounted for as fields in the corresponding Go model structs.

To generate the report:

1. Set the environment variable: GENERATE_COLUMN_REPORT=true
2. Run the application: go run .

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: Projects ---
Found 1 columns not accounted for in model:
  - created_at

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// AllModels lists every model that owns a table
func AllModels() []interface{} {
	return []interface{}{&Project{}}
}

// GenerateModels creates any missing tables and writes gorm/gen query helpers to ./generated
func GenerateModels(db *gorm.DB) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./generated",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Project{})

	fmt.Println("Ensuring tables exist...")
	if err := EnsureTables(db); err != nil {
		return err
	}

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// EnsureTables creates each model's table when it is absent. Existing tables are never altered.
func EnsureTables(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, model := range AllModels() {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}
	return nil
}

// GenerateColumnMismatchReport prints the database columns that no model field maps to
// and returns the total number of mismatches found.
func GenerateColumnMismatchReport(db *gorm.DB) (int, error) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	totalMismatches := 0
	for _, model := range AllModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return totalMismatches, fmt.Errorf("parsing model %T: %w", model, err)
		}
		tableName := stmt.Schema.Table
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		if !db.Migrator().HasTable(model) {
			fmt.Println("Table does not exist yet (will be created on startup)")
			continue
		}

		mismatches, err := ColumnMismatches(db, model)
		if err != nil {
			return totalMismatches, err
		}

		if len(mismatches) > 0 {
			fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Printf("  - %s\n", col)
			}
			totalMismatches += len(mismatches)
		} else {
			fmt.Println("All columns are accounted for in the model.")
		}
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", totalMismatches)
	return totalMismatches, nil
}

// ColumnMismatches returns the sorted columns of model's table that have no matching model field
func ColumnMismatches(db *gorm.DB, model interface{}) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parsing model %T: %w", model, err)
	}

	columnTypes, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", stmt.Schema.Table, err)
	}

	var mismatches []string
	for _, col := range columnTypes {
		if _, ok := stmt.Schema.FieldsByDBName[col.Name()]; !ok {
			mismatches = append(mismatches, col.Name())
		}
	}
	sort.Strings(mismatches)
	return mismatches, nil
}
