package seed

import "time"

// Config controls a seeding run.
type Config struct {
	Reset   bool // delete every record and its blobs first
	Verbose bool // log each created record
}

// Stats counts what a run created.
type Stats struct {
	Events        int
	Results       int
	Gallery       int
	Announcements int
	Removed       int // blobs dropped by a reset
	StartTime     time.Time
	Duration      time.Duration
}
