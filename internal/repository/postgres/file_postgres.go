package postgres

import (
	"context"
	"database/sql"

	"fileapi/internal/model"
	"fileapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, file *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, name, extension, mime_type, size, filename, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, name, extension, mime_type, size, filename, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		file.ID,
		file.Name,
		file.Extension,
		file.MimeType,
		file.Size,
		file.Filename,
		file.CreatedAt,
		file.UpdatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single file by its ID.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `
		SELECT id, name, extension, mime_type, size, filename, created_at, updated_at
		FROM files
		WHERE id = $1
	`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// List returns files using LIMIT/OFFSET pagination and a total count.
// Rows are ordered by id ascending so pages are stable across requests.
func (r *FilePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM files`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT id, name, extension, mime_type, size, filename, created_at, updated_at
		FROM files
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(
			&f.ID,
			&f.Name,
			&f.Extension,
			&f.MimeType,
			&f.Size,
			&f.Filename,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{
		Items: items,
		Total: total,
	}, nil
}

// Update replaces the mutable columns of the row identified by file.ID.
// Returns sql.ErrNoRows if the row does not exist.
func (r *FilePostgres) Update(ctx context.Context, file *model.File) (*model.File, error) {
	const q = `
		UPDATE files
		SET name = $2, extension = $3, mime_type = $4, size = $5, filename = $6, updated_at = $7
		WHERE id = $1
		RETURNING id, name, extension, mime_type, size, filename, created_at, updated_at
	`
	row := r.db.QueryRowContext(ctx, q,
		file.ID,
		file.Name,
		file.Extension,
		file.MimeType,
		file.Size,
		file.Filename,
		file.UpdatedAt,
	)
	return scanFile(row)
}

// Delete removes a file by ID. It does not return an error if the row does not exist.
func (r *FilePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM files WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func scanFile(row *sql.Row) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Extension,
		&f.MimeType,
		&f.Size,
		&f.Filename,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
