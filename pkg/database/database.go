package database

import (
	"campus_backend/internal/config"
	"campus_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logMode := logger.Silent
	if cfg.Server.Mode != "release" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// Schema migration runs automatically outside release mode; in release
	// it requires the explicit -migrate flag.
	if cfg.Server.Mode == "release" && !cfg.ForceMigrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Centre{},
		&model.Course{},
		&model.Batch{},
		&model.Subject{},
		&model.Enrollment{},
		&model.FacultyAssignment{},
		&model.Assessment{},
		&model.Question{},
		&model.Option{},
		&model.Skill{},
		&model.SkillMapping{},
		&model.Attempt{},
		&model.Answer{},
		&model.StudentSkill{},
		&model.QuestionBank{},
		&model.BankQuestion{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
