package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ImageStore saves catalog item images and returns the public path they are
// served from.
type ImageStore interface {
	Save(src io.Reader, originalName string) (string, error)
	Delete(publicPath string)
}

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("only image files are allowed")
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + name, nil
}

// Delete removes a stored image. Failures are ignored: a stale file on disk
// never blocks a catalog mutation.
func (s *DiskStore) Delete(publicPath string) {
	if publicPath == "" {
		return
	}
	name := strings.TrimPrefix(publicPath, "/uploads/")
	_ = os.Remove(filepath.Join(s.dir, filepath.Base(name)))
}

var _ ImageStore = (*DiskStore)(nil)
