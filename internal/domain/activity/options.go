package activity

import "time"

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID    *int64
	SessionID    *int64
	ActivityType *ActivityType
	Since        *time.Time
	Limit        int
	Offset       int
}
