package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
)

// UploadRoute is where uploaded files are served from.
const UploadRoute = "/uploads"

var allowedExtensions = map[string]string{
	".jpg":  "image",
	".jpeg": "image",
	".png":  "image",
	".gif":  "image",
	".webp": "image",
	".mp4":  "video",
	".webm": "video",
	".mov":  "video",
	".mp3":  "audio",
	".wav":  "audio",
	".ogg":  "audio",
	".m4a":  "audio",
}

// UploadResponse describes a stored file
type UploadResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

// UploadFile stores a multipart "file" field and returns its public URL
func (h *Handler) UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("No file uploaded")
	}

	if file.Size > h.upload.MaxSize {
		return apperr.Validation(fmt.Sprintf("File size exceeds limit of %.2fMB", float64(h.upload.MaxSize)/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	kind, ok := allowedExtensions[ext]
	if !ok {
		return apperr.Validation(fmt.Sprintf("Unsupported file type %q", ext))
	}

	dir := filepath.Join(h.upload.Dir, kind+"s")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperr.Persistence(errors.Wrap(err, "create upload directory"))
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(file, filepath.Join(dir, name)); err != nil {
		return apperr.Persistence(errors.Wrap(err, "save upload"))
	}

	return success(c, fiber.StatusOK, UploadResponse{
		URL:      h.publicURL(kind+"s", name),
		Filename: file.Filename,
		Size:     file.Size,
		Type:     kind,
	})
}

func (h *Handler) publicURL(dir, name string) string {
	path := UploadRoute + "/" + dir + "/" + name
	if h.upload.PublicBaseURL == "" {
		return path
	}
	return strings.TrimRight(h.upload.PublicBaseURL, "/") + path
}
