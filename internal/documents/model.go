package documents

import "time"

// Document is one persisted record per successfully ingested upload. A row
// exists only after the processing engine reported success for that upload.
type Document struct {
	ID               string
	UserID           string
	OriginalFilename string
	StoragePath      string
	UploadedAt       time.Time
	NumPages         int
	NumChunks        int
}
