package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateIfUnderLimitInserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{
		ID:               "doc-1",
		UserID:           "user-1",
		OriginalFilename: "report.pdf",
		StoragePath:      "/uploads/abc123_report.pdf",
		UploadedAt:       time.Now().UTC(),
		NumPages:         12,
		NumChunks:        5,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.OriginalFilename,
			doc.StoragePath,
			doc.UploadedAt,
			doc.NumPages,
			doc.NumChunks,
			20,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := repo.CreateIfUnderLimit(context.Background(), doc, 20)
	if err != nil {
		t.Fatalf("CreateIfUnderLimit: %v", err)
	}
	if !created {
		t.Fatalf("expected document to be created")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateIfUnderLimitRejectsAtCap(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := Document{ID: "doc-21", UserID: "user-1", UploadedAt: time.Now().UTC()}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.OriginalFilename,
			doc.StoragePath,
			doc.UploadedAt,
			doc.NumPages,
			doc.NumChunks,
			20,
		).
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := repo.CreateIfUnderLimit(context.Background(), doc, 20)
	if err != nil {
		t.Fatalf("CreateIfUnderLimit: %v", err)
	}
	if created {
		t.Fatalf("expected insert to be rejected at the cap")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCountByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT count").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected 7, got %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "original_filename", "storage_path", "uploaded_at", "num_pages", "num_chunks",
	}).
		AddRow("doc-2", "user-1", "b.pdf", "/uploads/b.pdf", now, 3, 2).
		AddRow("doc-1", "user-1", "a.pdf", "/uploads/a.pdf", now.Add(-time.Hour), 10, 4)

	mock.ExpectQuery("SELECT id, user_id, original_filename").
		WithArgs("user-1").
		WillReturnRows(rows)

	docs, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "doc-2" || docs[1].NumChunks != 4 {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, user_id, original_filename").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "original_filename", "storage_path", "uploaded_at", "num_pages", "num_chunks",
		}))

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
