package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateIfUnderLimit inserts the document only while the owner holds fewer
// than maxPerUser documents. The count and insert run as one statement, so
// the cap holds under concurrent uploads.
func (r *PGRepo) CreateIfUnderLimit(ctx context.Context, doc Document, maxPerUser int) (bool, error) {
	const query = `
INSERT INTO documents (id, user_id, original_filename, storage_path, uploaded_at, num_pages, num_chunks)
SELECT $1, $2, $3, $4, $5, $6, $7
WHERE (SELECT count(*) FROM documents WHERE user_id = $2) < $8`

	res, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.OriginalFilename,
		doc.StoragePath,
		doc.UploadedAt,
		doc.NumPages,
		doc.NumChunks,
		maxPerUser,
	)
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted == 1, nil
}

// CountByUser returns the number of documents owned by a user.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM documents WHERE user_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListByUser lists documents newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT id, user_id, original_filename, storage_path, uploaded_at, num_pages, num_chunks
FROM documents
WHERE user_id = $1
ORDER BY uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.OriginalFilename,
			&doc.StoragePath,
			&doc.UploadedAt,
			&doc.NumPages,
			&doc.NumChunks,
		); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// GetByID fetches a document by ID, scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT id, user_id, original_filename, storage_path, uploaded_at, num_pages, num_chunks
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`

	var doc Document
	err := r.DB.QueryRowContext(ctx, query, userID, documentID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.OriginalFilename,
		&doc.StoragePath,
		&doc.UploadedAt,
		&doc.NumPages,
		&doc.NumChunks,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
