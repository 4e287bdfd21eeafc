package service

import (
	"math"

	"github.com/M-A-D-A-R-A/lmnr/model"
)

func getTableName(db *model.DataDatabasesMap, name string) string {
	if db.Config.ClusterName != "" {
		return name + "_dist"
	}
	return name
}

// roundSmallValuesToZero flattens float aggregate noise below 1e-9 to an
// exact zero, so filled buckets and computed buckets compare equal.
func roundSmallValuesToZero(value float64) float64 {
	if math.Abs(value) < 1e-9 {
		return 0.0
	}
	return value
}
