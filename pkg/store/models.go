package store

import "time"

// Run records one completed comparison run.
type Run struct {
	ID          uint   `gorm:"primaryKey"`
	OldRevision string `gorm:"not null"`
	NewRevision string `gorm:"not null"`
	Arch        string `gorm:"not null"`
	Config      string `gorm:"not null"`
	Hostname    string
	OS          string
	Platform    string
	Kernel      string
	CPUModel    string
	Cores       int
	CreatedAt   time.Time

	Measurements []Measurement `gorm:"constraint:OnDelete:CASCADE"`
}

// Measurement records the measured size of one object for one revision
// within a run.
type Measurement struct {
	ID       uint   `gorm:"primaryKey"`
	RunID    uint   `gorm:"index;not null"`
	Revision string `gorm:"not null"`
	Artifact string `gorm:"not null"`
	Object   string `gorm:"not null"`
	Text     int64
	Data     int64
	BSS      int64
	Total    int64
}
