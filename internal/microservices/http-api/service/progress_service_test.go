package service

import (
	"context"
	"testing"
	"time"

	"coursehub/internal/logger"
	"coursehub/internal/microservices/http-api/dto"
	"coursehub/internal/microservices/http-api/models"
	"coursehub/internal/microservices/http-api/repository"
	"coursehub/internal/progress"
	"coursehub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type progressFixture struct {
	db      *gorm.DB
	svc     ProgressService
	cache   *memCache
	student *models.User
	course  *models.Course
}

func newProgressFixture(t *testing.T) *progressFixture {
	db := testutil.NewDB(t)
	instructor := testutil.SeedUser(t, db, "teach", models.RoleInstructor)
	student := testutil.SeedUser(t, db, "learn", models.RoleStudent)
	course := testutil.SeedCourse(t, db, instructor.ID, "Go Fundamentals", 3, 4)
	cache := newMemCache()

	svc := NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewCourseRepository(db),
		repository.NewUserRepository(db),
		cache,
		logger.Nop(),
	)
	return &progressFixture{db: db, svc: svc, cache: cache, student: student, course: course}
}

func (f *progressFixture) lesson(n int) string {
	// lessons are numbered 1..12 across 3 sections of 4
	n--
	return f.course.Sections[n/4].Lessons[n%4].ID
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestProgressService_InitializeOnce(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	rec, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	sections := rec.Sections.Data()
	require.Len(t, sections, 3)
	for _, s := range sections {
		require.Len(t, s.Lessons, 4)
	}

	_, err = f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrProgressExists)

	_, err = f.svc.Initialize(ctx, f.student.ID, "missing-course")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = f.svc.Initialize(ctx, "missing-user", f.course.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProgressService_ScenarioCompleteOneOfTwelve(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(5), dto.UpdateLessonProgressRequest{Completed: boolPtr(true)})
	require.NoError(t, err)

	report, err := f.svc.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, report.TotalLessons)
	assert.Equal(t, 1, report.CompletedLessons)
	assert.InDelta(t, 0.0833, report.PercentageCompleted, 0.0001)

	sec := report.Progress.Sections[1]
	assert.Equal(t, "Section 2", sec.Title)
	assert.Equal(t, 1, sec.CompletedLessonsInSection)
	assert.Equal(t, 4, sec.TotalLessonsInSection)
	assert.Equal(t, "Lesson 5", sec.Lessons[0].Title)
	assert.True(t, sec.Lessons[0].Completed)
}

func TestProgressService_PartialUpdateKeepsOtherFields(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(2), dto.UpdateLessonProgressRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	rec, err := f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(2), dto.UpdateLessonProgressRequest{LastWatched: intPtr(95)})
	require.NoError(t, err)

	tree := progress.NewTree(rec.Sections.Data())
	l, err := tree.Lesson(f.lesson(2))
	require.NoError(t, err)
	assert.True(t, l.Completed)
	assert.Equal(t, 95, l.LastWatched)

	sibling, err := tree.Lesson(f.lesson(3))
	require.NoError(t, err)
	assert.False(t, sibling.Completed)
	assert.Zero(t, sibling.LastWatched)
	assert.EqualValues(t, 3, rec.Version)
}

func TestProgressService_UpdateErrors(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(1), dto.UpdateLessonProgressRequest{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, ErrProgressNotFound)

	_, err = f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(1), dto.UpdateLessonProgressRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(1), dto.UpdateLessonProgressRequest{LastWatched: intPtr(-5)})
	assert.ErrorIs(t, err, progress.ErrInvalidSeconds)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, "no-such-lesson", dto.UpdateLessonProgressRequest{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, progress.ErrLessonNotFound)
}

func TestProgressService_NoteRoundTrip(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	note, err := f.svc.AddNote(ctx, f.student.ID, f.course.ID, f.lesson(5), dto.AddNoteRequest{Seconds: intPtr(42), Text: "remember this"})
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, 42, note.Seconds)

	notes, err := f.svc.ListNotes(ctx, f.student.ID, f.course.ID, progress.OrderLesson)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].NoteID)
	assert.Equal(t, "remember this", notes[0].Text)
	assert.Equal(t, "Lesson 5", notes[0].LessonTitle)
	assert.Equal(t, "Section 2", notes[0].SectionTitle)
	assert.Equal(t, 1, notes[0].SectionIndex)
	assert.Equal(t, 0, notes[0].LessonIndex)

	edited, err := f.svc.EditNote(ctx, f.student.ID, f.course.ID, f.lesson(5), note.ID, dto.EditNoteRequest{Text: strPtr("updated")})
	require.NoError(t, err)
	assert.Equal(t, "updated", edited.Text)
	assert.Equal(t, 42, edited.Seconds, "editing text must keep seconds")

	_, err = f.svc.EditNote(ctx, f.student.ID, f.course.ID, f.lesson(5), note.ID, dto.EditNoteRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.DeleteNote(ctx, f.student.ID, f.course.ID, f.lesson(5), note.ID))
	notes, err = f.svc.ListNotes(ctx, f.student.ID, f.course.ID, progress.OrderLesson)
	require.NoError(t, err)
	assert.Empty(t, notes)

	err = f.svc.DeleteNote(ctx, f.student.ID, f.course.ID, f.lesson(5), note.ID)
	assert.ErrorIs(t, err, progress.ErrNoteNotFound)
}

func TestProgressService_CacheFilledAndInvalidated(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	_, err = f.svc.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	_, hit := f.cache.Get(ctx, f.student.ID, f.course.ID)
	assert.True(t, hit)

	_, err = f.svc.UpdateLesson(ctx, f.student.ID, f.course.ID, f.lesson(1), dto.UpdateLessonProgressRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	_, hit = f.cache.Get(ctx, f.student.ID, f.course.ID)
	assert.False(t, hit)

	report, err := f.svc.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CompletedLessons)
}

func TestProgressService_ApplyRetriesLostRaces(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	base := repository.NewProgressRepository(f.db)

	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	// a rival writer completes lesson 1 while our first save is in flight
	racing := &racingProgressRepo{
		ProgressRepository: base,
		losses:             1,
		rival: func(rec *models.ProgressRecord) {
			fresh, err := base.Get(ctx, rec.UserID, rec.CourseID)
			require.NoError(t, err)
			tree := progress.NewTree(fresh.Sections.Data())
			require.NoError(t, progress.Apply(tree, time.Now(), progress.SetCompleted{LessonID: f.lesson(1), Completed: true}))
			require.NoError(t, base.SaveSections(ctx, fresh, tree.Sections()))
		},
	}
	svc := NewProgressService(racing, repository.NewCourseRepository(f.db), repository.NewUserRepository(f.db), f.cache, logger.Nop())

	rec, err := svc.Apply(ctx, f.student.ID, f.course.ID, progress.SetLastWatched{LessonID: f.lesson(2), Seconds: 30})
	require.NoError(t, err)
	assert.Equal(t, 2, racing.saves)

	tree := progress.NewTree(rec.Sections.Data())
	l1, _ := tree.Lesson(f.lesson(1))
	l2, _ := tree.Lesson(f.lesson(2))
	assert.True(t, l1.Completed, "rival write must survive")
	assert.Equal(t, 30, l2.LastWatched)
}

func TestProgressService_ApplyGivesUpAfterThreeLosses(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	racing := &racingProgressRepo{ProgressRepository: repository.NewProgressRepository(f.db), losses: 10}
	svc := NewProgressService(racing, repository.NewCourseRepository(f.db), repository.NewUserRepository(f.db), f.cache, logger.Nop())

	_, err = svc.Apply(ctx, f.student.ID, f.course.ID, progress.SetCompleted{LessonID: f.lesson(1), Completed: true})
	assert.ErrorIs(t, err, ErrProgressConflict)
	assert.Equal(t, maxApplyAttempts, racing.saves)
}

func TestProgressService_AddNoteIDStableAcrossRetries(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	racing := &racingProgressRepo{ProgressRepository: repository.NewProgressRepository(f.db), losses: 2}
	svc := NewProgressService(racing, repository.NewCourseRepository(f.db), repository.NewUserRepository(f.db), f.cache, logger.Nop())

	note, err := svc.AddNote(ctx, f.student.ID, f.course.ID, f.lesson(1), dto.AddNoteRequest{Seconds: intPtr(1), Text: "once"})
	require.NoError(t, err)

	notes, err := svc.ListNotes(ctx, f.student.ID, f.course.ID, progress.OrderLesson)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, note.ID, notes[0].NoteID)
}

func TestProgressService_StaleReportNotServedAfterDelete(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	_, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	note, err := f.svc.AddNote(ctx, f.student.ID, f.course.ID, f.lesson(5), dto.AddNoteRequest{Seconds: intPtr(10), Text: "remember this"})
	require.NoError(t, err)

	// a second reader loads the record, then the note is deleted before it
	// fills the shared cache
	slowReader := NewProgressService(
		repository.NewProgressRepository(f.db),
		&hookedCourseRepo{
			CourseRepository: repository.NewCourseRepository(f.db),
			before: func() {
				require.NoError(t, f.svc.DeleteNote(ctx, f.student.ID, f.course.ID, f.lesson(5), note.ID))
			},
		},
		repository.NewUserRepository(f.db),
		f.cache,
		logger.Nop(),
	)
	stale, err := slowReader.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	require.Len(t, stale.Progress.Sections[1].Lessons[0].Notes, 1)

	report, err := f.svc.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Empty(t, report.Progress.Sections[1].Lessons[0].Notes)
	assert.Greater(t, report.Progress.Version, stale.Progress.Version)

	cached, hit := f.cache.Get(ctx, f.student.ID, f.course.ID)
	require.True(t, hit)
	assert.Equal(t, report.Progress.Version, cached.Progress.Version)
}

func TestProgressService_CacheEntryFromEarlierRecordIgnored(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()
	rec, err := f.svc.Initialize(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)

	// same version number, but a record that has since been replaced
	f.cache.Set(ctx, f.student.ID, f.course.ID, &progress.Report{
		Progress: progress.ProgressView{Meta: progress.Meta{ID: "old-record", Version: rec.Version}},
	})

	report, err := f.svc.GetCourseProgress(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, report.Progress.ID)
	assert.Equal(t, 12, report.TotalLessons)
}

func TestProgressService_GetWithoutRecord(t *testing.T) {
	f := newProgressFixture(t)

	_, err := f.svc.GetCourseProgress(context.Background(), f.student.ID, f.course.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}
