package documents

import "context"

// Repo defines persistence operations for documents. CreateIfUnderLimit
// makes the per-user document cap part of the insert itself, so two
// concurrent uploads cannot both slip past the limit.
type Repo interface {
	CreateIfUnderLimit(ctx context.Context, doc Document, maxPerUser int) (bool, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
}
