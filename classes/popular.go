package classes

import (
	"sort"

	"easymoves/models"
)

// topByEnrollment orders classes by totalEnrolled descending and keeps
// the first limit entries. The sort is stable, so ties keep the store's
// order; which of two equally popular classes ranks first is not
// guaranteed.
func topByEnrollment(classes []models.Class, limit int) []models.Class {
	ranked := make([]models.Class, len(classes))
	copy(ranked, classes)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalEnrolled > ranked[j].TotalEnrolled
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
