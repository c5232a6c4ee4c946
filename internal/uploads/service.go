package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docqa-backend/internal/documents"
	"docqa-backend/internal/engine"
	"docqa-backend/internal/extract"
	"docqa-backend/internal/shared/telemetry"
	"docqa-backend/internal/shared/util"
)

const (
	// DefaultMaxDocsPerUser caps the number of documents one user may own.
	DefaultMaxDocsPerUser = 20
	// DefaultMaxPages caps the page count of a single document.
	DefaultMaxPages = 1000
	// ChunkExt is the artifact extension the engine writes, one file per
	// semantic unit.
	ChunkExt = ".txt"
)

// PageCounter obtains a page count without fully processing the document.
type PageCounter func(ctx context.Context, data []byte) (int, error)

// UploadResult is what a successful upload returns to the client.
type UploadResult struct {
	DocumentID string
	NumPages   int
	NumChunks  int
}

// Service orchestrates one ingestion job: validate, persist the raw file,
// invoke the processing engine, reconcile results, persist metadata. Side
// effects are recorded as they happen and rolled back when a later stage
// fails, so a failed job leaves neither a stored file nor stray artifacts.
type Service struct {
	Repo           documents.Repo
	Engine         engine.Invoker
	UploadDir      string
	ChunksDir      string
	MaxDocsPerUser int
	MaxPages       int
	CountPages     PageCounter
}

// NewService constructs a Service with default limits.
func NewService(repo documents.Repo, eng engine.Invoker, uploadDir, chunksDir string) *Service {
	return &Service{
		Repo:           repo,
		Engine:         eng,
		UploadDir:      uploadDir,
		ChunksDir:      chunksDir,
		MaxDocsPerUser: DefaultMaxDocsPerUser,
		MaxPages:       DefaultMaxPages,
		CountPages:     extract.PageCount,
	}
}

// Submit runs the upload pipeline. Every gate fails fast; nothing is
// retried.
func (s *Service) Submit(ctx context.Context, userID, fileName string, data []byte) (UploadResult, error) {
	if fileName == "" || len(data) == 0 {
		return UploadResult{}, ErrNoFile
	}

	// Cheap admission check before any work. The insert below re-checks the
	// cap atomically, so a concurrent upload racing past this point is still
	// rejected.
	count, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if count >= s.MaxDocsPerUser {
		return UploadResult{}, ErrTooManyDocuments
	}

	pages, err := s.CountPages(ctx, data)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	if pages > s.MaxPages {
		return UploadResult{}, &PageLimitError{Pages: pages, Limit: s.MaxPages}
	}

	var job compensator
	defer job.finish()

	storedPath, err := s.persistFile(fileName, data)
	if err != nil {
		return UploadResult{}, err
	}
	job.record(func() {
		if rmErr := os.Remove(storedPath); rmErr != nil {
			telemetry.Error("upload.cleanup.file", map[string]any{"path": storedPath, "err": rmErr.Error()})
		}
	})

	before, err := engine.ListArtifacts(s.ChunksDir, ChunkExt)
	if err != nil {
		return UploadResult{}, fmt.Errorf("list artifacts: %w", err)
	}

	if _, err := s.Engine.Ingest(ctx, storedPath); err != nil {
		s.cleanupNewArtifacts(before)
		return UploadResult{}, err
	}

	after, err := engine.ListArtifacts(s.ChunksDir, ChunkExt)
	if err != nil {
		return UploadResult{}, fmt.Errorf("list artifacts: %w", err)
	}
	produced := engine.DiffArtifacts(before, after)
	job.record(func() { s.removeArtifacts(produced) })

	doc := documents.Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		OriginalFilename: fileName,
		StoragePath:      "/uploads/" + filepath.Base(storedPath),
		UploadedAt:       time.Now().UTC(),
		NumPages:         pages,
		NumChunks:        len(produced),
	}

	created, err := s.Repo.CreateIfUnderLimit(ctx, doc, s.MaxDocsPerUser)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !created {
		return UploadResult{}, ErrTooManyDocuments
	}

	job.commit()
	return UploadResult{DocumentID: doc.ID, NumPages: pages, NumChunks: len(produced)}, nil
}

// persistFile writes the raw bytes under a stable, collision-avoiding name
// derived from the original filename.
func (s *Service) persistFile(fileName string, data []byte) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoFile, err)
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	stored := util.ShortHash(data) + "_" + sanitized
	fullPath := filepath.Join(s.UploadDir, stored)
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return fullPath, nil
}

func (s *Service) cleanupNewArtifacts(before map[string]struct{}) {
	after, err := engine.ListArtifacts(s.ChunksDir, ChunkExt)
	if err != nil {
		telemetry.Error("upload.cleanup.artifacts", map[string]any{"err": err.Error()})
		return
	}
	s.removeArtifacts(engine.DiffArtifacts(before, after))
}

func (s *Service) removeArtifacts(names []string) {
	for _, name := range names {
		path := filepath.Join(s.ChunksDir, name)
		if err := os.Remove(path); err != nil {
			telemetry.Error("upload.cleanup.artifacts", map[string]any{"path": path, "err": err.Error()})
		}
	}
}

// compensator tracks the side effects of one ingestion job. Unless the job
// commits, recorded undo actions run in reverse order when it finishes.
type compensator struct {
	undo      []func()
	committed bool
}

func (c *compensator) record(fn func()) { c.undo = append(c.undo, fn) }

func (c *compensator) commit() { c.committed = true }

func (c *compensator) finish() {
	if c.committed {
		return
	}
	for i := len(c.undo) - 1; i >= 0; i-- {
		c.undo[i]()
	}
}
