package importer

import "time"

// nowPtr returns a pointer to the current time, matching ImportJob's
// *time.Time FinishedAt field.
func nowPtr() *time.Time {
	now := time.Now().UTC()
	return &now
}
