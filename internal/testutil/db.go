// Package testutil opens throwaway databases and seeds fixtures for
// repository and service tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"coursehub/internal/microservices/http-api/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database that lives as long as t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user with the given username and role.
func SeedUser(t testing.TB, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse inserts an active course owned by instructorID with
// sections × lessonsPerSection lessons. Titles are "Section N" and
// "Lesson M", numbered from 1 across the whole course.
func SeedCourse(t testing.TB, db *gorm.DB, instructorID, title string, sections, lessonsPerSection int) *models.Course {
	t.Helper()
	c := &models.Course{
		Slug:          strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "-" + uuid.NewString()[:8],
		Title:         title,
		Category:      "Development",
		Level:         models.LevelBeginner,
		InstructorID:  instructorID,
		FullPrice:     100,
		DiscountPrice: 20,
		IsActive:      true,
		TotalSections: sections,
		TotalLessons:  sections * lessonsPerSection,
	}
	n := 1
	for s := 0; s < sections; s++ {
		sec := models.Section{Title: fmt.Sprintf("Section %d", s+1), Position: s}
		for l := 0; l < lessonsPerSection; l++ {
			sec.Lessons = append(sec.Lessons, models.Lesson{
				Title:    fmt.Sprintf("Lesson %d", n),
				Duration: 60 * n,
				Position: l,
			})
			n++
		}
		c.Sections = append(c.Sections, sec)
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return c
}
