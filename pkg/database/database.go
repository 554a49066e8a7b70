package database

import (
	"fmt"
	"log"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/Harini-0111/electronics-astra-user/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ShouldMigrate reports whether startup runs AutoMigrate: always outside
// release mode, and in release mode only when forced with -migrate.
func ShouldMigrate(force bool, mode string) bool {
	return force || mode != "release"
}

// InitDB opens the MySQL connection and, when migrate is set, migrates
// the portal schema. The unique indexes created here (students.email,
// students.public_id, the friend-request direction index, the file-share
// target index) are the authoritative guards against concurrent duplicate
// writes; the in-code existence checks in the services are only fast
// paths.
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces MySQL 1062 as gorm.ErrDuplicatedKey so the repositories
		// can translate commit-time races into domain conflicts.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		log.Println("Skipping database migration")
		return db, nil
	}

	err = db.AutoMigrate(
		&model.Student{},
		&model.FriendRequest{},
		&model.Friendship{},
		&model.LibraryFile{},
		&model.FileShare{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
