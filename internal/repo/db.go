package repo

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath — файл БД, если DATABASE_URI не задан.
const DefaultSQLitePath = "brainrot.db"

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Dialect — поддерживаемые СУБД.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

// DialectFor определяет СУБД по строке подключения.
func DialectFor(dsn string) Dialect {
	d := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(d, "postgres://") || strings.HasPrefix(d, "postgresql://") || strings.HasPrefix(d, "host=") {
		return DialectPostgres
	}
	return DialectSQLite
}

// InitDB открывает БД (postgres или sqlite на modernc) и применяет миграции.
func InitDB(dsn string) (*gorm.DB, error) {
	dialect := DialectFor(dsn)

	var dial gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dial = postgres.Open(dsn)
	default:
		if strings.TrimSpace(dsn) == "" {
			dsn = DefaultSQLitePath
		}
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// одно соединение: sqlite пишет последовательно, in-memory база видна только в нём
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(context.Background(), db, dialect); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate применяет встроенные миграции goose для указанной СУБД.
func Migrate(ctx context.Context, db *gorm.DB, dialect Dialect) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if err := goose.SetDialect(string(dialect)); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	dir := "migrations/sqlite"
	if dialect == DialectPostgres {
		dir = "migrations/postgres"
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}
