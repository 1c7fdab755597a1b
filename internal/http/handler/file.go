package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fileapi/internal/service"
)

// UploadFile stores a new file (POST /file/upload, multipart field: file).
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		file, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"file": file})
	}
}

// ListFiles returns a page of file metadata (GET /file/list?list_size=&page=).
// Non-numeric or non-positive parameters fall back to the defaults.
func ListFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pageSize, err := strconv.Atoi(c.Query("list_size", "10"))
		if err != nil {
			pageSize = 10
		}
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil {
			page = 1
		}

		res, err := svc.List(c.UserContext(), page, pageSize)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(res)
	}
}

// GetFile returns a single file's metadata (GET /file/:id).
func GetFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			// A non-UUID id can never match a row; same answer as a missing one.
			return writeError(c, fiber.StatusNotFound, "file not found")
		}

		file, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"file": file})
	}
}

// DownloadFile streams the stored blob (GET /file/download/:id).
// The row is resolved before any filesystem access; a row whose blob is gone
// reports a distinct error.
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "file not found")
		}

		rc, file, err := svc.Download(c.UserContext(), id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "file not found")
			case errors.Is(err, service.ErrContentMissing):
				return writeError(c, fiber.StatusInternalServerError, "file content missing")
			default:
				return writeError(c, fiber.StatusInternalServerError, "internal server error")
			}
		}

		c.Set(fiber.HeaderContentType, file.MimeType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
		return c.SendStream(rc)
	}
}

// UpdateFile replaces a file's blob and metadata (PUT /file/update/:id).
func UpdateFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "file not found")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		file, err := svc.Update(c.UserContext(), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"file": file})
	}
}

// DeleteFile removes a file's row and blob (DELETE /file/delete/:id).
func DeleteFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "file not found")
		}

		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "internal server error")
		}
		return c.JSON(fiber.Map{"message": "file deleted"})
	}
}
