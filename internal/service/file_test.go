package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fileapi/internal/model"
	"fileapi/internal/repository"
	repoMocks "fileapi/internal/repository/mocks"
	"fileapi/internal/storage"
	storeMocks "fileapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFileService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name             string
		originalFilename string
		contentType      string
		size             int64
		setupMocks       func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader
		wantErr          error
		wantErrMsg       string
		checkFile        func(t *testing.T, f *model.File)
	}{
		{
			name:             "happy path",
			originalFilename: "report.pdf",
			contentType:      "application/pdf",
			size:             11,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader {
				r := strings.NewReader("hello world")
				mStore.On("Put", ctx, mock.MatchedBy(func(name string) bool {
					return strings.HasSuffix(name, ".pdf") && strings.Contains(name, "-")
				}), r).Return(int64(11), nil)

				mRepo.On("Create", ctx, mock.MatchedBy(func(f *model.File) bool {
					return f.Name == "report" &&
						f.Extension == "pdf" &&
						f.MimeType == "application/pdf" &&
						f.Size == 11 &&
						f.Filename != "" &&
						f.Filename != "report.pdf"
				})).Return(&model.File{ID: "gen-id", Filename: "stored.pdf"}, nil)

				return r
			},
			checkFile: func(t *testing.T, f *model.File) {
				assert.Equal(t, "gen-id", f.ID)
			},
		},
		{
			name:             "validation error - nil reader",
			originalFilename: "report.pdf",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader {
				return nil
			},
			wantErr: ErrReaderNil,
		},
		{
			name:             "storage error",
			originalFilename: "report.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r).
					Return(int64(0), errors.New("disk full"))
				return r
			},
			wantErrMsg: "store blob: disk full",
		},
		{
			name:             "repository error with successful rollback",
			originalFilename: "report.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r).Return(int64(5), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(nil)
				return r
			},
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:             "repository error with failed rollback",
			originalFilename: "report.pdf",
			size:             5,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockFileRepository) io.Reader {
				r := strings.NewReader("hello")
				mStore.On("Put", ctx, mock.Anything, r).Return(int64(5), nil)
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))
				return r
			},
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockFileRepository)
			svc := NewFileService(mStore, mRepo)

			r := tt.setupMocks(mStore, mRepo)

			file, err := svc.Upload(ctx, r, tt.originalFilename, tt.contentType, tt.size)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else if tt.wantErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
			} else {
				assert.NoError(t, err)
				if tt.checkFile != nil {
					tt.checkFile(t, file)
				}
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFileService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("third page of 25 files", func(t *testing.T) {
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(nil, mRepo)

		items := make([]model.File, 5)
		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 20}).
			Return(&repository.PageResult[model.File]{Items: items, Total: 25}, nil)

		res, err := svc.List(ctx, 3, 10)

		require.NoError(t, err)
		assert.Len(t, res.Files, 5)
		assert.Equal(t, 25, res.Pagination.TotalFiles)
		assert.Equal(t, 3, res.Pagination.TotalPages)
		assert.Equal(t, 3, res.Pagination.CurrentPage)
		assert.Equal(t, 10, res.Pagination.PageSize)
		mRepo.AssertExpectations(t)
	})

	t.Run("defaults applied", func(t *testing.T) {
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(nil, mRepo)

		mRepo.On("List", ctx, repository.PageQuery{Limit: 10, Offset: 0}).
			Return(&repository.PageResult[model.File]{Items: []model.File{}, Total: 0}, nil)

		res, err := svc.List(ctx, 0, -5)

		require.NoError(t, err)
		assert.Equal(t, 1, res.Pagination.CurrentPage)
		assert.Equal(t, 10, res.Pagination.PageSize)
		assert.Equal(t, 0, res.Pagination.TotalPages)
	})

	t.Run("repository error", func(t *testing.T) {
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(nil, mRepo)

		mRepo.On("List", ctx, mock.Anything).Return(nil, errors.New("db fail"))

		_, err := svc.List(ctx, 1, 10)
		assert.Error(t, err)
	})
}

func TestFileService_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		setupMocks func(mRepo *repoMocks.MockFileRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			id:   "valid-id",
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {
				mRepo.On("FindByID", ctx, "valid-id").Return(&model.File{ID: "valid-id"}, nil)
			},
		},
		{
			name:       "validation - empty id",
			id:         "",
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {},
			wantErr:    ErrIDRequired,
		},
		{
			name: "not found - mapping sql.ErrNoRows",
			id:   "missing-id",
			setupMocks: func(mRepo *repoMocks.MockFileRepository) {
				mRepo.On("FindByID", ctx, "missing-id").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockFileRepository)
			svc := NewFileService(nil, mRepo)
			tt.setupMocks(mRepo)

			file, err := svc.Get(ctx, tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, file)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestFileService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		file := &model.File{ID: "id-1", Filename: "stored.pdf", MimeType: "application/pdf"}
		mRepo.On("FindByID", ctx, "id-1").Return(file, nil)
		mStore.On("Get", ctx, "stored.pdf").
			Return(io.NopCloser(strings.NewReader("content")), nil)

		rc, got, err := svc.Download(ctx, "id-1")

		require.NoError(t, err)
		assert.Equal(t, file, got)
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "content", string(data))
	})

	t.Run("row missing - storage never touched", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, _, err := svc.Download(ctx, "missing")

		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("blob missing is reported distinctly", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.File{ID: "id-1", Filename: "stored.pdf"}, nil)
		mStore.On("Get", ctx, "stored.pdf").Return(nil, storage.ErrNotExist)

		_, _, err := svc.Download(ctx, "id-1")
		assert.ErrorIs(t, err, ErrContentMissing)
	})
}

func TestFileService_Update(t *testing.T) {
	ctx := context.Background()
	existing := func() *model.File {
		return &model.File{
			ID:        "id-1",
			Name:      "old",
			Extension: "txt",
			MimeType:  "text/plain",
			Size:      3,
			Filename:  "old-stored.txt",
			CreatedAt: time.Now().UTC(),
		}
	}

	t.Run("happy path refreshes metadata and swaps blobs", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		r := strings.NewReader("new content")
		mRepo.On("FindByID", ctx, "id-1").Return(existing(), nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, ".pdf") && name != "old-stored.txt"
		}), r).Return(int64(11), nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(f *model.File) bool {
			return f.ID == "id-1" &&
				f.Name == "new" &&
				f.Extension == "pdf" &&
				f.MimeType == "application/pdf" &&
				f.Size == 11 &&
				f.Filename != "old-stored.txt"
		})).Return(&model.File{ID: "id-1", Filename: "new-stored.pdf"}, nil)
		mStore.On("Delete", ctx, "old-stored.txt").Return(nil)

		updated, err := svc.Update(ctx, "id-1", r, "new.pdf", "application/pdf", 11)

		require.NoError(t, err)
		assert.Equal(t, "new-stored.pdf", updated.Filename)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("row missing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, "missing", strings.NewReader("x"), "new.pdf", "application/pdf", 1)

		assert.ErrorIs(t, err, ErrNotFound)
		mStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("db failure rolls back the new blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		r := strings.NewReader("new content")
		mRepo.On("FindByID", ctx, "id-1").Return(existing(), nil)
		mStore.On("Put", ctx, mock.Anything, r).Return(int64(11), nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.MatchedBy(func(name string) bool {
			return name != "old-stored.txt"
		})).Return(nil)

		_, err := svc.Update(ctx, "id-1", r, "new.pdf", "application/pdf", 11)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "db update failed")
		// The old blob must survive a failed update.
		mStore.AssertNotCalled(t, "Delete", ctx, "old-stored.txt")
	})

	t.Run("old blob cleanup failure is not fatal", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		r := strings.NewReader("new content")
		mRepo.On("FindByID", ctx, "id-1").Return(existing(), nil)
		mStore.On("Put", ctx, mock.Anything, r).Return(int64(11), nil)
		mRepo.On("Update", ctx, mock.Anything).
			Return(&model.File{ID: "id-1", Filename: "new-stored.pdf"}, nil)
		mStore.On("Delete", ctx, "old-stored.txt").Return(errors.New("busy"))

		updated, err := svc.Update(ctx, "id-1", r, "new.pdf", "application/pdf", 11)

		require.NoError(t, err)
		assert.Equal(t, "new-stored.pdf", updated.Filename)
	})
}

func TestFileService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("row deleted before blob", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.File{ID: "id-1", Filename: "stored.pdf"}, nil)
		mRepo.On("Delete", ctx, "id-1").Return(nil)
		mStore.On("Delete", ctx, "stored.pdf").Return(nil)

		assert.NoError(t, svc.Delete(ctx, "id-1"))
		mRepo.AssertExpectations(t)
		mStore.AssertExpectations(t)
	})

	t.Run("row missing", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("blob cleanup failure is not fatal", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.File{ID: "id-1", Filename: "stored.pdf"}, nil)
		mRepo.On("Delete", ctx, "id-1").Return(nil)
		mStore.On("Delete", ctx, "stored.pdf").Return(errors.New("busy"))

		assert.NoError(t, svc.Delete(ctx, "id-1"))
	})

	t.Run("repository delete error is surfaced", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockFileRepository)
		svc := NewFileService(mStore, mRepo)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.File{ID: "id-1", Filename: "stored.pdf"}, nil)
		mRepo.On("Delete", ctx, "id-1").Return(errors.New("db fail"))

		assert.Error(t, svc.Delete(ctx, "id-1"))
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
