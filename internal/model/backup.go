package model

import "time"

// BackupVersion is written into every backup envelope.
const BackupVersion = "1.0.0"

// BackupEnvelope wraps a full collection with export metadata.
type BackupEnvelope struct {
	ExportDate    time.Time       `json:"exportDate"`
	Version       string          `json:"version"`
	TotalStudents int             `json:"totalStudents"`
	Students      []StudentRecord `json:"students"`
}

// BackupInfo describes the stored collection for the settings page.
type BackupInfo struct {
	TotalRecords  int        `json:"totalRecords"`
	SizeInBytes   int        `json:"sizeInBytes"`
	SizeFormatted string     `json:"sizeFormatted"`
	LastUpdated   *time.Time `json:"lastUpdated"`
	LastBackup    *time.Time `json:"lastBackup"`
}

// ImportResult reports what an import or restore committed.
type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
	// Reassigned counts incoming records whose id collided and was replaced.
	Reassigned int `json:"reassigned"`
}
