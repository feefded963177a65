package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rpupo63/cms-backend/config"
	"github.com/mattn/go-sqlite3"
	"github.com/rpupo63/cms-backend/errs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DriverPostgres = "postgres"
	DriverSupabase = "supa"
	DriverSQLite   = "sqlite"
)

// sqliteDriverName is go-sqlite3 with lower() replaced by a Unicode aware
// version. The built-in one folds ASCII only.
const sqliteDriverName = "sqlite3_cms"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower folds text and hands every other value back untouched
func unicodeLower(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}

// ConnectionConfig describes how to reach the content store
type ConnectionConfig struct {
	Driver          string
	DSN             string
	ReplicaDSNs     []string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	Logger          logger.Interface
}

// ConfigFromEnv builds the connection settings for DB_TYPE
func ConfigFromEnv(c map[string]string) (ConnectionConfig, error) {
	cfg := ConnectionConfig{
		Driver:          config.GetString(c, "DB_TYPE", ""),
		ReplicaDSNs:     config.GetList(c, "DB_REPLICA_DSN"),
		MaxOpenConns:    config.GetInt(c, "DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    config.GetInt(c, "DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: config.GetDuration(c, "DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}

	switch cfg.Driver {
	case DriverSupabase:
		cfg.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	case DriverPostgres:
		cfg.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "cms"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
	case DriverSQLite:
		cfg.DSN = SQLiteDSN(config.GetString(c, "SQLITE_PATH", "cms.db"))
	case "":
		return cfg, errs.NewConfigMissingError("DB_TYPE")
	default:
		return cfg, errs.NewConfigInvalidError("DB_TYPE", fmt.Errorf("unsupported database type %q", cfg.Driver))
	}
	return cfg, nil
}

// SQLiteDSN turns a file path into a DSN with foreign keys enforced
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
}

// NewLogger returns the SQL logger used for every connection
func NewLogger(slowThreshold time.Duration, level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Open connects to the store, registers read replicas and applies pool limits
func Open(cfg ConnectionConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres, DriverSupabase:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		})
	case DriverSQLite:
		dialector = sqlite.New(sqlite.Config{
			DriverName: sqliteDriverName,
			DSN:        cfg.DSN,
		})
	default:
		return nil, errs.NewConfigInvalidError("DB_TYPE", fmt.Errorf("unsupported database type %q", cfg.Driver))
	}

	gormLogger := cfg.Logger
	if gormLogger == nil {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", "database", err)
	}

	if len(cfg.ReplicaDSNs) > 0 && cfg.Driver != DriverSQLite {
		replicas := make([]gorm.Dialector, 0, len(cfg.ReplicaDSNs))
		for _, dsn := range cfg.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})
		if err := db.Use(resolver); err != nil {
			return nil, errs.NewDatabaseError("register replicas for", "database", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errs.NewDatabaseError("open pool for", "database", err)
	}
	if cfg.Driver == DriverSQLite {
		// single writer; transactions must never wait on a second connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("test connection to", "database", err)
	}
	return db, nil
}
