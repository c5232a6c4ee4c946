package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID       string    `json:"documentId"`
	OriginalFilename string    `json:"originalFilename"`
	StoragePath      string    `json:"filepath,omitempty"`
	UploadedAt       time.Time `json:"uploadDate"`
	NumPages         int       `json:"numPages"`
	NumChunks        int       `json:"numChunks"`
}

func toResponse(doc Document, includePath bool) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:       doc.ID,
		OriginalFilename: doc.OriginalFilename,
		UploadedAt:       doc.UploadedAt,
		NumPages:         doc.NumPages,
		NumChunks:        doc.NumChunks,
	}
	if includePath {
		resp.StoragePath = doc.StoragePath
	}
	return resp
}
