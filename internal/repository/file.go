package repository

import (
	"context"

	"fileapi/internal/model"
)

// FileRepository defines data access for file metadata using SQL queries only.
// No business logic here, strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file record.
	// The caller provides required fields (ID, Filename, timestamps) according to the schema defaults.
	Create(ctx context.Context, file *model.File) (*model.File, error)

	// FindByID returns a file by its ID.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// List returns a paginated list of files and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.File], error)

	// Update replaces the mutable columns (name, extension, mime_type, size, filename, updated_at)
	// of the row identified by file.ID and returns the stored row.
	Update(ctx context.Context, file *model.File) (*model.File, error)

	// Delete removes a file by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error
}
