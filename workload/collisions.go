package workload

import (
	"sort"

	"studyload/models"
)

// Collisions maps a YYYY-MM-DD deadline to the two or more tasks due that day.
type Collisions map[string][]models.Task

// Dates returns the colliding dates in ascending order.
func (c Collisions) Dates() []string {
	dates := make([]string, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// FindCollisions buckets tasks by deadline. Tasks keep their input order
// inside a bucket.
func FindCollisions(tasks []models.Task) Collisions {
	buckets := make(map[string][]models.Task)
	for _, t := range tasks {
		key := t.DeadlineKey()
		buckets[key] = append(buckets[key], t)
	}

	collisions := Collisions{}
	for date, bucket := range buckets {
		if len(bucket) > 1 {
			collisions[date] = bucket
		}
	}
	return collisions
}
