package progress

import "time"

// LessonInfo is catalog data shown next to a lesson's progress.
type LessonInfo struct {
	Title    string
	Duration int
	VideoURL string
}

type SectionInfo struct {
	Title string
}

// Catalog maps section and lesson ids to their display data. Missing
// entries are rendered with empty titles.
type Catalog struct {
	Sections map[string]SectionInfo
	Lessons  map[string]LessonInfo
}

// Summary is the course-wide completion count.
type Summary struct {
	TotalLessons        int     `json:"totalLessons"`
	CompletedLessons    int     `json:"completedLessons"`
	PercentageCompleted float64 `json:"percentageCompleted"`
}

// Percentage returns completed/total, or 0 when total is 0.
func Percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// Summarize counts lessons across every section of s.
func Summarize(s Sections) Summary {
	var sum Summary
	for _, sec := range s {
		for _, l := range sec.Lessons {
			sum.TotalLessons++
			if l.Completed {
				sum.CompletedLessons++
			}
		}
	}
	sum.PercentageCompleted = Percentage(sum.CompletedLessons, sum.TotalLessons)
	return sum
}

type LessonView struct {
	LessonProgress
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	VideoURL string `json:"videoUrl,omitempty"`
}

type SectionView struct {
	SectionID                 string       `json:"sectionId"`
	Title                     string       `json:"title"`
	Lessons                   []LessonView `json:"lessons"`
	TotalLessonsInSection     int          `json:"totalLessonsInSection"`
	CompletedLessonsInSection int          `json:"completedLessonsInSection"`
}

// Meta identifies the stored progress record a report was built from.
type Meta struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ProgressView struct {
	Meta
	Sections []SectionView `json:"sections"`
}

// Report is the read model returned for GET progress.
type Report struct {
	Progress ProgressView `json:"progress"`
	Summary
}

// BuildReport enriches s with catalog titles and per-section counts.
func BuildReport(meta Meta, s Sections, cat Catalog) *Report {
	views := make([]SectionView, 0, len(s))
	for _, sec := range s {
		sv := SectionView{
			SectionID:             sec.SectionID,
			Title:                 cat.Sections[sec.SectionID].Title,
			Lessons:               make([]LessonView, 0, len(sec.Lessons)),
			TotalLessonsInSection: len(sec.Lessons),
		}
		for _, l := range sec.Lessons {
			if l.Completed {
				sv.CompletedLessonsInSection++
			}
			if l.Notes == nil {
				l.Notes = []Note{}
			}
			info := cat.Lessons[l.LessonID]
			sv.Lessons = append(sv.Lessons, LessonView{
				LessonProgress: l,
				Title:          info.Title,
				Duration:       info.Duration,
				VideoURL:       info.VideoURL,
			})
		}
		views = append(views, sv)
	}

	return &Report{
		Progress: ProgressView{Meta: meta, Sections: views},
		Summary:  Summarize(s),
	}
}
