package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	found := map[string]Item{
		"go":   {CourseID: "go", Title: "Go", FullPrice: 100, DiscountPrice: 20},
		"rust": {CourseID: "rust", Title: "Rust", FullPrice: 50, DiscountPrice: 10},
		"sql":  {CourseID: "sql", Title: "SQL", FullPrice: 30},
	}
	owned := map[string]bool{"sql": true}

	q := Build([]string{"go", "rust", "go", "nope", "sql"}, found, owned)

	assert.Equal(t, 2, q.AmountOfCourses)
	assert.Len(t, q.Items, 2)
	assert.Equal(t, 150.0, q.TotalOriginalPrice)
	assert.Equal(t, 30.0, q.TotalDiscountPrice)
	assert.Equal(t, 120.0, q.TotalSavings)
	assert.Equal(t, 80, q.TotalDiscountPercentage)
	assert.Equal(t, []string{"nope"}, q.Missing)
	assert.Equal(t, []string{"sql"}, q.AlreadyEnrolled)
}

func TestBuild_Empty(t *testing.T) {
	q := Build(nil, nil, nil)

	assert.Equal(t, 0, q.AmountOfCourses)
	assert.Equal(t, 0, q.TotalDiscountPercentage)
	assert.NotNil(t, q.Items)
	assert.NotNil(t, q.Missing)
	assert.NotNil(t, q.AlreadyEnrolled)
}

func TestItemPrice(t *testing.T) {
	assert.Equal(t, 40.0, Item{FullPrice: 40}.Price())
	assert.Equal(t, 15.0, Item{FullPrice: 40, DiscountPrice: 15}.Price())
}

func TestSavings(t *testing.T) {
	tests := []struct {
		name                 string
		original, discounted float64
		want                 float64
	}{
		{"normal", 100, 60, 40},
		{"never negative", 10, 25, 0},
		{"cents", 19.99, 9.99, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Savings(tt.original, tt.discounted))
		})
	}
}

func TestDiscountPercentage(t *testing.T) {
	assert.Equal(t, 0, DiscountPercentage(10, 0))
	assert.Equal(t, 33, DiscountPercentage(1, 3))
	assert.Equal(t, 67, DiscountPercentage(2, 3))
}
