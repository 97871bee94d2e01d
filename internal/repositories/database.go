package repositories

import (
	"fmt"

	"storefront/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenGORM connects to a relational database and migrates the schema.
// driver is one of "postgres", "mysql" or "sqlite".
func OpenGORM(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.User{}, &models.Order{}, &models.OrderItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// NewGORMRepositories wires the GORM implementations over db.
func NewGORMRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Products: NewGORMProductRepository(db),
		Users:    NewGORMUserRepository(db),
		Orders:   NewGORMOrderRepository(db),
		Close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMemoryRepositories wires the in-memory implementations.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Products: NewMemoryProductRepository(),
		Users:    NewMemoryUserRepository(),
		Orders:   NewMemoryOrderRepository(),
		Close:    func() error { return nil },
	}
}
