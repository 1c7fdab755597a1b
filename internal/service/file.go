package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fileapi/internal/model"
	"fileapi/internal/repository"
	"fileapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("file not found")
	ErrReaderNil  = errors.New("reader is nil")
	// ErrContentMissing means the metadata row exists but its blob is gone.
	ErrContentMissing = errors.New("file content missing")
)

const defaultPageSize = 10

// Pagination summarizes a page of the file listing.
type Pagination struct {
	TotalFiles  int `json:"totalFiles"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Files      []model.File `json:"files"`
	Pagination Pagination   `json:"pagination"`
}

// FileService defines the use cases for handling uploaded files.
type FileService interface {
	// Upload stores the blob under a generated name, then inserts the metadata
	// row (rolling the blob back if the insert fails).
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.File, error)

	// List returns a page of files (1-indexed) with a pagination summary.
	List(ctx context.Context, page, pageSize int) (*FileListResult, error)

	// Get returns a single file's metadata by its ID.
	Get(ctx context.Context, id string) (*model.File, error)

	// Download resolves the row first, then opens its blob for streaming.
	// Returns ErrNotFound if the row is absent and ErrContentMissing if the
	// row exists but the blob does not.
	Download(ctx context.Context, id string) (io.ReadCloser, *model.File, error)

	// Update replaces the blob and refreshes the row's metadata from the new
	// attachment. The old blob is removed best-effort after the row commits.
	Update(ctx context.Context, id string, r io.Reader, originalFilename string, contentType string, size int64) (*model.File, error)

	// Delete removes the metadata row, then best-effort removes the blob.
	Delete(ctx context.Context, id string) error
}

type fileService struct {
	store storage.Storage
	repo  repository.FileRepository
}

// NewFileService constructs a new FileService.
func NewFileService(store storage.Storage, repo repository.FileRepository) FileService {
	return &fileService{store: store, repo: repo}
}

// generateStoredName builds a collision-resistant on-disk name:
// <unix nanos>-<uuid><original extension>.
func generateStoredName(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
}

// splitName separates "report.pdf" into ("report", "pdf").
func splitName(originalFilename string) (name, extension string) {
	base := filepath.Base(originalFilename)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), strings.TrimPrefix(ext, ".")
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.File, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	storedName := generateStoredName(originalFilename)
	written, err := s.store.Put(ctx, storedName, r)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	name, extension := splitName(originalFilename)
	if size <= 0 {
		size = written
	}

	now := time.Now().UTC()
	file := &model.File{
		ID:        uuid.New().String(),
		Name:      name,
		Extension: extension,
		MimeType:  contentType,
		Size:      size,
		Filename:  storedName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.repo.Create(ctx, file)
	if err != nil {
		// Roll back the blob so the failed insert leaves nothing behind.
		if delErr := s.store.Delete(ctx, storedName); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *fileService) List(ctx context.Context, page, pageSize int) (*FileListResult, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: pageSize, Offset: offset})
	if err != nil {
		return nil, err
	}

	totalPages := (res.Total + pageSize - 1) / pageSize

	return &FileListResult{
		Files: res.Items,
		Pagination: Pagination{
			TotalFiles:  res.Total,
			TotalPages:  totalPages,
			CurrentPage: page,
			PageSize:    pageSize,
		},
	}, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) Download(ctx context.Context, id string) (io.ReadCloser, *model.File, error) {
	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.store.Get(ctx, file.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			log.Printf("file %s: blob %s missing on disk", file.ID, file.Filename)
			return nil, nil, ErrContentMissing
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return rc, file, nil
}

func (s *fileService) Update(ctx context.Context, id string, r io.Reader, originalFilename string, contentType string, size int64) (*model.File, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	file, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStoredName := file.Filename

	// New blob first: if anything below fails the row still points at a blob
	// that exists.
	storedName := generateStoredName(originalFilename)
	written, err := s.store.Put(ctx, storedName, r)
	if err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	name, extension := splitName(originalFilename)
	if size <= 0 {
		size = written
	}

	file.Name = name
	file.Extension = extension
	file.MimeType = contentType
	file.Size = size
	file.Filename = storedName
	file.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, file)
	if err != nil {
		if delErr := s.store.Delete(ctx, storedName); delErr != nil {
			return nil, fmt.Errorf("db update failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db update failed: %w", err)
	}

	// Old blob is now unreferenced; losing it only leaks disk space.
	if err := s.store.Delete(ctx, oldStoredName); err != nil && !errors.Is(err, storage.ErrNotExist) {
		log.Printf("file %s: failed to remove old blob %s: %v", updated.ID, oldStoredName, err)
	}

	return updated, nil
}

func (s *fileService) Delete(ctx context.Context, id string) error {
	file, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// Row first; the blob removal below is best-effort.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, file.Filename); err != nil && !errors.Is(err, storage.ErrNotExist) {
		log.Printf("file %s: failed to remove blob %s: %v", id, file.Filename, err)
	}
	return nil
}
