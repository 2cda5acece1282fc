package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Service is the save-bytes-to-path primitive expense attachments use.
type Service interface {
	SaveFile(file *multipart.FileHeader, folder, name string) (string, error)
	DeleteFile(folder, name string) error
}

type localService struct {
	root string
}

// NewLocalService stores files under root/<folder>/<name>.
func NewLocalService(root string) Service {
	return &localService{root: root}
}

func (s *localService) SaveFile(file *multipart.FileHeader, folder, name string) (string, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create stored file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write stored file: %w", err)
	}

	return name, nil
}

func (s *localService) DeleteFile(folder, name string) error {
	path := filepath.Join(s.root, folder, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}
