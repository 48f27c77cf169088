package database

import (
	"database/sql"
	"fmt"
	"time"

	"hireflow_backend/internal/config"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/models"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open подключается к Postgres. TranslateError включен: репозитории
// опираются на gorm.ErrDuplicatedKey для уникальных индексов.
func Open(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	dialector := postgres.Open(cfg.Database.DSN)
	if cfg.Telemetry.Enabled {
		sqlDB, err := openTraced(cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// openTraced открывает пул через pgx, обернутый otelsql: каждый запрос получает спан
func openTraced(dsn string) (*sql.DB, error) {
	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register otelsql: %w", err)
	}
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	return sqlDB, nil
}

// Models - все таблицы в порядке зависимостей
func Models() []interface{} {
	return []interface{}{
		&models.College{},
		&models.Company{},
		&models.User{},
		&models.RefreshToken{},
		&models.Student{},
		&models.Drive{},
		&models.DriveCollege{},
		&models.Application{},
		&models.TimelineEntry{},
		&models.Offer{},
		&models.PlacementRecord{},
		&models.Notification{},
	}
}

// Migrate выполняет AutoMigrate всех моделей
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("Database migration completed", "tables", len(Models()))
	return nil
}
