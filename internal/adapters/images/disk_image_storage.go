package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name used when nothing survives sanitization.
const fallbackName = "upload"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Local-disk implementation of the ImageStorage port.
type DiskImageStorage struct {
	Dir string
	// Public path prefix recorded in locations, "images" by default.
	URLPrefix string
}

func NewDiskImageStorage(dir string) (*DiskImageStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("image storage: create %q: %w", dir, err)
	}
	return &DiskImageStorage{Dir: dir, URLPrefix: "images"}, nil
}

// SanitizeFilename reduces an uploaded file name to a safe base name:
// directory parts are dropped, accents are folded to ASCII, whitespace
// runs become "_" and anything outside [A-Za-z0-9_.-] is removed.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, name); err == nil {
		name = folded
	}

	name = strings.Join(strings.Fields(name), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name == "" {
		return fallbackName
	}
	return name
}

// Candidate name for the n-th collision: "photo.jpg" -> "photo_n.jpg".
func numberedName(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return base + "_" + strconv.Itoa(n) + ext
}

// Save writes content under the first free name among name, name_1,
// name_2, ... Files are created exclusively so an existing file is never
// overwritten, even by a concurrent upload.
func (s *DiskImageStorage) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	clean := SanitizeFilename(filename)

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("save image: %w", err)
		}

		candidate := numberedName(clean, n)
		dst := filepath.Join(s.Dir, candidate)

		f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save image: create %q: %w", candidate, err)
		}

		if _, err := io.Copy(f, content); err != nil {
			_ = f.Close()
			_ = os.Remove(dst)
			return "", fmt.Errorf("save image: write %q: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(dst)
			return "", fmt.Errorf("save image: close %q: %w", candidate, err)
		}
		return candidate, nil
	}
}

// Remove deletes the file a location points at. Only the base name is
// used, so paths can never escape Dir.
func (s *DiskImageStorage) Remove(ctx context.Context, imagePath string) error {
	name := path.Base(strings.ReplaceAll(imagePath, "\\", "/"))
	if name == "." || name == "/" || name == ".." || name == "" {
		return fmt.Errorf("remove image: invalid path %q", imagePath)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *DiskImageStorage) PublicPath(name string) string {
	prefix := s.URLPrefix
	if prefix == "" {
		prefix = "images"
	}
	return prefix + "/" + name
}
