package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reviewhub/internal/model"
)

const reviewUniqueIndex = "idx_reviews_title_author"

// Open returns a connected GORM DB instance for the given driver. Driver
// errors for unique violations are translated to gorm.ErrDuplicatedKey.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the schema, including the one-review-per-author
// unique index the struct tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Title{}, "Genres", &model.TitleGenre{}); err != nil {
		return fmt.Errorf("setup join table: %w", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	if !db.Migrator().HasIndex(&model.Review{}, reviewUniqueIndex) {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX %s ON reviews (title_id, author_id)", reviewUniqueIndex)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create %s: %w", reviewUniqueIndex, err)
		}
	}
	return nil
}
