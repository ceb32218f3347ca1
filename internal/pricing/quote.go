// Package pricing computes cart totals for a set of courses.
package pricing

import "math"

// Item is one priced course in a cart.
type Item struct {
	CourseID      string  `json:"courseId"`
	Title         string  `json:"title"`
	FullPrice     float64 `json:"fullPrice"`
	DiscountPrice float64 `json:"discountPrice"`
}

// Price is what the buyer pays for the item. A zero discount price means
// the course is not discounted.
func (i Item) Price() float64 {
	if i.DiscountPrice <= 0 {
		return i.FullPrice
	}
	return i.DiscountPrice
}

type Quote struct {
	Items                   []Item   `json:"items"`
	AmountOfCourses         int      `json:"amountOfCourses"`
	TotalOriginalPrice      float64  `json:"totalOriginalPrice"`
	TotalDiscountPrice      float64  `json:"totalDiscountPrice"`
	TotalSavings            float64  `json:"totalSavings"`
	TotalDiscountPercentage int      `json:"totalDiscountPercentage"`
	Missing                 []string `json:"missing"`
	AlreadyEnrolled         []string `json:"alreadyEnrolled"`
}

// Build prices requested course ids against found. Ids that are not in found
// go to Missing; ids in owned go to AlreadyEnrolled. Neither counts toward
// totals. Repeated ids are counted once, in first-seen order.
func Build(requested []string, found map[string]Item, owned map[string]bool) *Quote {
	q := &Quote{
		Items:           []Item{},
		Missing:         []string{},
		AlreadyEnrolled: []string{},
	}

	seen := make(map[string]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		item, ok := found[id]
		switch {
		case !ok:
			q.Missing = append(q.Missing, id)
		case owned[id]:
			q.AlreadyEnrolled = append(q.AlreadyEnrolled, id)
		default:
			q.Items = append(q.Items, item)
			q.TotalOriginalPrice += item.FullPrice
			q.TotalDiscountPrice += item.Price()
		}
	}

	q.AmountOfCourses = len(q.Items)
	q.TotalOriginalPrice = roundCents(q.TotalOriginalPrice)
	q.TotalDiscountPrice = roundCents(q.TotalDiscountPrice)
	q.TotalSavings = Savings(q.TotalOriginalPrice, q.TotalDiscountPrice)
	q.TotalDiscountPercentage = DiscountPercentage(q.TotalSavings, q.TotalOriginalPrice)
	return q
}

// Savings is original minus discounted, floored at zero.
func Savings(original, discounted float64) float64 {
	s := roundCents(original - discounted)
	if s < 0 {
		return 0
	}
	return s
}

// DiscountPercentage is savings as a whole percent of original, 0 when
// original is 0.
func DiscountPercentage(savings, original float64) int {
	if original <= 0 {
		return 0
	}
	return int(math.Round(savings / original * 100))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
