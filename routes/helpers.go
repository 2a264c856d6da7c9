package routes

import (
	"time"

	"quickstaff-server/utils"
)

// parseDate accepts RFC3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(value string) (time.Time, error) {
	return utils.ParseDate(value)
}
