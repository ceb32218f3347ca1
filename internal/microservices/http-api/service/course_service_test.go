package service

import (
	"context"
	"strings"
	"testing"

	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseService_CreateComputesTotals(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, "teach", models.RoleInstructor)
	svc := NewCourseService(repository.NewCourseRepository(db))

	created, err := svc.Create(ctx, instructor.ID, dto.CreateCourseRequest{
		Title:     "Intro to SQL!",
		Category:  "Data",
		FullPrice: 80,
		Sections: []dto.CreateSectionRequest{
			{Title: "Basics", Lessons: []dto.CreateLessonRequest{{Title: "SELECT", Duration: 300}, {Title: "WHERE", Duration: 200}}},
			{Title: "Joins", Lessons: []dto.CreateLessonRequest{{Title: "INNER", Duration: 100}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.TotalSections)
	assert.Equal(t, 3, created.TotalLessons)
	assert.Equal(t, 600, created.TotalDuration)
	assert.True(t, strings.HasPrefix(created.Slug, "intro-to-sql-"))
	assert.Equal(t, models.LevelAll, created.Level)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "WHERE", got.Sections[0].Lessons[1].Title)

	_, err = svc.Create(ctx, instructor.ID, dto.CreateCourseRequest{Title: "Bad", Category: "x", FullPrice: 10, DiscountPrice: 20})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCourseService_ListAndDeactivate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, "teach", models.RoleInstructor)
	other := testutil.SeedUser(t, db, "other", models.RoleInstructor)
	admin := testutil.SeedUser(t, db, "root", models.RoleAdmin)
	for _, title := range []string{"Go One", "Go Two", "Go Three"} {
		testutil.SeedCourse(t, db, instructor.ID, title, 1, 1)
	}
	svc := NewCourseService(repository.NewCourseRepository(db))

	page, err := svc.List(ctx, dto.CourseQuery{Search: "go", Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCourses)
	assert.EqualValues(t, 1, page.TotalLeftCourses)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPageCoursesAmount)

	_, err = svc.List(ctx, dto.CourseQuery{Search: "haskell"})
	assert.ErrorIs(t, err, ErrNoCoursesMatch)

	lo, hi := 50.0, 10.0
	_, err = svc.List(ctx, dto.CourseQuery{MinPrice: &lo, MaxPrice: &hi})
	assert.ErrorIs(t, err, ErrValidation)

	target := page.Courses[0]
	assert.ErrorIs(t, svc.Deactivate(ctx, other.ID, models.RoleInstructor, target.ID), ErrForbidden)
	require.NoError(t, svc.Deactivate(ctx, admin.ID, models.RoleAdmin, target.ID))
	_, err = svc.Get(ctx, target.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.CartInfo(ctx, target.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	assert.ErrorIs(t, svc.Deactivate(ctx, admin.ID, models.RoleAdmin, "missing"), ErrCourseNotFound)
}

func TestCourseService_Reactivate(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, "teach", models.RoleInstructor)
	student := testutil.SeedUser(t, db, "learner", models.RoleStudent)
	course := testutil.SeedCourse(t, db, instructor.ID, "Go Basics", 1, 2)
	svc := NewCourseService(repository.NewCourseRepository(db))

	require.NoError(t, svc.Deactivate(ctx, instructor.ID, models.RoleInstructor, course.ID))
	_, err := svc.Get(ctx, course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)

	_, err = svc.Reactivate(ctx, student.ID, models.RoleStudent, course.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Reactivate(ctx, instructor.ID, models.RoleInstructor, "missing")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	restored, err := svc.Reactivate(ctx, instructor.ID, models.RoleInstructor, course.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	got, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", got.Title)

	// Reactivating an active course is a no-op.
	_, err = svc.Reactivate(ctx, instructor.ID, models.RoleInstructor, course.ID)
	assert.NoError(t, err)
}

func TestCourseService_Update(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	instructor := testutil.SeedUser(t, db, "teach", models.RoleInstructor)
	other := testutil.SeedUser(t, db, "other", models.RoleInstructor)
	admin := testutil.SeedUser(t, db, "root", models.RoleAdmin)
	// Seeded without a duration total; lessons run 60, 120, 180 and 240 seconds.
	course := testutil.SeedCourse(t, db, instructor.ID, "Go Basics", 2, 2)
	svc := NewCourseService(repository.NewCourseRepository(db))

	str := func(v string) *string { return &v }
	num := func(v float64) *float64 { return &v }

	_, err := svc.Update(ctx, instructor.ID, models.RoleInstructor, course.ID, dto.UpdateCourseRequest{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Update(ctx, instructor.ID, models.RoleInstructor, course.ID, dto.UpdateCourseRequest{Title: str("  ")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Update(ctx, other.ID, models.RoleInstructor, course.ID, dto.UpdateCourseRequest{Title: str("Mine now")})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, instructor.ID, models.RoleInstructor, "missing", dto.UpdateCourseRequest{Title: str("x")})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	// The stored full price is 100; a discount above it is rejected after merging.
	_, err = svc.Update(ctx, instructor.ID, models.RoleInstructor, course.ID, dto.UpdateCourseRequest{DiscountPrice: num(150)})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := svc.Update(ctx, instructor.ID, models.RoleInstructor, course.ID, dto.UpdateCourseRequest{
		Title:         str("Go Fundamentals"),
		Level:         str(models.LevelIntermediate),
		DiscountPrice: num(35),
	})
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", updated.Title)
	assert.Equal(t, 600, updated.TotalDuration)

	got, err := svc.Get(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go Fundamentals", got.Title)
	assert.Equal(t, models.LevelIntermediate, got.Level)
	assert.Equal(t, 35.0, got.DiscountPrice)
	assert.Equal(t, 100.0, got.FullPrice)
	assert.Equal(t, "Development", got.Category)
	assert.Equal(t, course.Slug, got.Slug)
	assert.Equal(t, 2, got.TotalSections)
	assert.Equal(t, 4, got.TotalLessons)
	assert.Equal(t, 600, got.TotalDuration)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, course.Sections[0].Lessons[0].ID, got.Sections[0].Lessons[0].ID)

	_, err = svc.Update(ctx, admin.ID, models.RoleAdmin, course.ID, dto.UpdateCourseRequest{FullPrice: num(30)})
	assert.ErrorIs(t, err, ErrValidation, "full price below the stored discount")
	updated, err = svc.Update(ctx, admin.ID, models.RoleAdmin, course.ID, dto.UpdateCourseRequest{FullPrice: num(30), DiscountPrice: num(0)})
	require.NoError(t, err)
	assert.Equal(t, 30.0, updated.FullPrice)
}

func TestCourseService_RatingStatsNeedsSearch(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCourseService(repository.NewCourseRepository(db))

	_, err := svc.RatingStats(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)

	resp, err := svc.RatingStats(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "go", resp.SearchTerm)
	assert.Len(t, resp.RatingBreakdown, len(repository.RatingThresholds))
}

func TestSlugify(t *testing.T) {
	s := slugify("  Hello, World!  ")
	assert.True(t, strings.HasPrefix(s, "hello-world-"), s)
	assert.True(t, strings.HasPrefix(slugify("!!!"), "course-"))
	assert.NotEqual(t, slugify("same"), slugify("same"))
}
