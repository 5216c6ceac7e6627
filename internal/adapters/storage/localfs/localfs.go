package localfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage guarda archivos en disco y los expone bajo /uploads/. Es el
// fallback cuando no hay un blob store S3 configurado.
type Storage struct {
	dir string
}

func New(dir string) *Storage { return &Storage{dir: dir} }

func (s *Storage) Store(_ context.Context, data []byte, filename, _ string) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitize(filename))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "_")
}
