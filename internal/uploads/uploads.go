// Package uploads stores product images on disk and hands back the URL path
// the catalogue records.
package uploads

import (
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxImageSize = 5 << 20
	productsDir  = "uploads/products"
)

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Storage writes uploads under Root and serves them relative to it.
type Storage struct {
	Root string
}

func NewStorage(root string) (*Storage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(productsDir)), 0o755); err != nil {
		return nil, err
	}
	return &Storage{Root: root}, nil
}

// Save copies the upload to disk and returns the relative URL path for the
// product record. When progress is non-nil it is called with 0-100 as bytes
// arrive; size must then be the total upload size.
func (s *Storage) Save(r io.Reader, filename string, size int64, progress func(pct int)) (string, error) {
	extension := strings.ToLower(filepath.Ext(filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}

	name := primitive.NewObjectID().Hex() + extension
	relPath := path.Join(productsDir, name)
	fullPath := filepath.Join(s.Root, filepath.FromSlash(relPath))

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] Save: failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	reader := r
	if progress != nil && size > 0 {
		reader = &progressReader{r: r, total: size, report: progress}
	}

	written, err := io.Copy(out, io.LimitReader(reader, maxImageSize+1))
	if err != nil {
		log.Printf("[UPLOAD] Save: failed to write file %s: %v", fullPath, err)
		return "", err
	}
	if written > maxImageSize {
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	if progress != nil {
		progress(100)
	}

	return relPath, nil
}

// Delete removes a previously stored upload. Paths outside the uploads tree
// are refused; a missing file is not an error.
func (s *Storage) Delete(relPath string) error {
	trimmed := strings.TrimSpace(relPath)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")
	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", relPath)
	}

	cleanBase := filepath.Clean(s.Root)
	target := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(cleanRel)))
	if target != cleanBase && !strings.HasPrefix(target, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", relPath)
	}

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return nil
}

// progressReader reports whole-percent progress as the upload streams through.
type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	lastPct int
	report  func(pct int)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct > p.lastPct {
			p.lastPct = pct
			p.report(pct)
		}
	}
	return n, err
}
