package uploads

import (
	"errors"
	"fmt"
)

var (
	ErrNoFile             = errors.New("no file uploaded")
	ErrTooManyDocuments   = errors.New("upload limit exceeded: you may only upload up to 20 documents")
	ErrUnreadableDocument = errors.New("unable to parse document")
	ErrPersistence        = errors.New("failed to save document metadata")
)

// PageLimitError reports a document whose page count exceeds the cap.
type PageLimitError struct {
	Pages int
	Limit int
}

func (e *PageLimitError) Error() string {
	return fmt.Sprintf("document has %d pages, which exceeds the %d-page limit", e.Pages, e.Limit)
}
