package database

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/portfolio-tracker-backend/config"
	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rpupo63/portfolio-tracker-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Supported DB_TYPE values
const (
	TypeMemory    = "memory"
	TypeSQLite    = "sqlite"
	TypePostgres  = "postgres"
	TypeSupabase  = "supa"
	TypeMySQL     = "mysql"
	TypeSQLServer = "sqlserver"
)

const defaultSQLitePath = "portfolio.db"

// Open connects to the backend named by DB_TYPE, creates the Projects table if
// it is absent and returns the ready Database.
func Open(c map[string]string) (Database, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", TypeSQLite))
	if dbType == TypeMemory {
		log.Info().Msg("Using in-memory project store")
		return NewMemory(), nil
	}

	db, err := OpenGorm(c)
	if err != nil {
		return Database{}, err
	}

	if err := models.EnsureTables(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return Database{}, fmt.Errorf("preparing schema: %w", err)
	}

	return New(db), nil
}

// OpenGorm opens a gorm connection for any relational DB_TYPE and verifies it with a round trip
func OpenGorm(c map[string]string) (*gorm.DB, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", TypeSQLite))

	dsn, err := BuildDSN(c)
	if err != nil {
		return nil, err
	}

	dialector, err := dialectorFor(dbType, dsn)
	if err != nil {
		return nil, err
	}

	gormLog := newGormLogger(
		log.With().Str("component", "gorm").Logger(),
		parseGormLogLevel(config.GetString(c, "DB_LOG_LEVEL", "warn")),
		10*time.Second,
	)

	log.Info().Str("dbType", dbType).Msg("Connecting to database...")
	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s database: %w", dbType, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dbType == TypeSQLite {
		// one connection keeps writes serialized and lets :memory: databases survive
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		maxOpen, err := config.GetInt(c, "DB_MAX_OPEN_CONNS", 10)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		maxIdle, err := config.GetInt(c, "DB_MAX_IDLE_CONNS", 5)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxIdle)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if replicas := config.GetList(c, "DB_REPLICA_DSNS", nil); len(replicas) > 0 && dbType != TypeSQLite {
		if err := registerReplicas(db, dbType, replicas); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		log.Info().Int("replicas", len(replicas)).Msg("Read replicas registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("testing database connection: %w", err)
	}

	return db, nil
}

// BuildDSN assembles the connection string for DB_TYPE. DB_DSN, when set, wins for every relational type.
func BuildDSN(c map[string]string) (string, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", TypeSQLite))
	if dsn := config.GetString(c, "DB_DSN", ""); dsn != "" && dbType != TypeMemory {
		return dsn, nil
	}

	host := config.GetString(c, "DB_HOST", "")
	user := config.GetString(c, "DB_USERNAME", "")
	password := config.GetString(c, "DB_PASSWORD", "")
	name := config.GetString(c, "DB_DATABASE", "portfolio")

	switch dbType {
	case TypePostgres, TypeMySQL, TypeSQLServer:
		if host == "" {
			return "", errs.NewEnvironmentVariableError("DB_HOST")
		}
	case TypeSupabase:
		if config.GetString(c, "SUPABASE_DB_HOST", "") == "" {
			return "", errs.NewEnvironmentVariableError("SUPABASE_DB_HOST")
		}
	}

	switch dbType {
	case TypeSQLite:
		return config.GetString(c, "DB_PATH", defaultSQLitePath), nil
	case TypePostgres:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			host, user, password, name,
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		), nil
	case TypeSupabase:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case TypeMySQL:
		// clientFoundRows makes an update that changes nothing still count the matched row
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
			user, password,
			net.JoinHostPort(host, config.GetString(c, "DB_PORT", "3306")),
			name,
		), nil
	case TypeSQLServer:
		u := url.URL{
			Scheme:   "sqlserver",
			User:     url.UserPassword(user, password),
			Host:     net.JoinHostPort(host, config.GetString(c, "DB_PORT", "1433")),
			RawQuery: url.Values{"database": {name}}.Encode(),
		}
		return u.String(), nil
	default:
		return "", errs.NewUnsupportedDatabaseError(dbType)
	}
}

func dialectorFor(dbType, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case TypeSQLite:
		return sqlite.Open(dsn), nil
	case TypePostgres, TypeSupabase:
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case TypeMySQL:
		return mysql.Open(dsn), nil
	case TypeSQLServer:
		return sqlserver.Open(dsn), nil
	default:
		return nil, errs.NewUnsupportedDatabaseError(dbType)
	}
}

func registerReplicas(db *gorm.DB, dbType string, dsns []string) error {
	replicas := make([]gorm.Dialector, 0, len(dsns))
	for _, dsn := range dsns {
		dialector, err := dialectorFor(dbType, dsn)
		if err != nil {
			return err
		}
		replicas = append(replicas, dialector)
	}

	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}))
}
