// AngelaMos | 2026
// storage.go

package contest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/joonyo2/yugwan/internal/core"
)

var (
	ErrBlockedFileType     = fmt.Errorf("file type is not allowed for security reasons: %w", core.ErrInvalidInput)
	ErrUnsupportedFileType = fmt.Errorf("only hwp, pdf, doc and docx files are accepted: %w", core.ErrInvalidInput)
	ErrFileTooLarge        = fmt.Errorf("file exceeds the upload limit: %w", core.ErrInvalidInput)
	ErrExecutableContent   = fmt.Errorf("file content looks executable: %w", core.ErrInvalidInput)
	ErrContentMismatch     = fmt.Errorf("file content does not match its extension: %w", core.ErrInvalidInput)
)

var (
	allowedExtensions = map[string]bool{".hwp": true, ".pdf": true, ".docx": true, ".doc": true}
	blockedExtensions = map[string]bool{
		".exe": true, ".sh": true, ".bat": true, ".cmd": true,
		".ps1": true, ".js": true, ".php": true,
	}

	// Content types refused regardless of the declared extension.
	executableMIMEs = []string{
		"application/vnd.microsoft.portable-executable",
		"application/x-elf",
		"application/x-executable",
		"application/x-mach-binary",
		"text/x-shellscript",
		"text/x-php",
		"text/javascript",
		"application/javascript",
	}

	// Detected types accepted per extension. A match on any ancestor of the
	// detected type counts, so a docx sniffed from a short head as a plain
	// zip still passes. HWP 5 files are OLE compound documents.
	documentMIMEs = map[string][]string{
		".pdf": {"application/pdf"},
		".docx": {
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/zip",
		},
		".doc": {"application/msword", "application/x-ole-storage"},
		".hwp": {"application/x-ole-storage"},
	}

	shebang = []byte("#!")
)

const sniffBytes = 3072

// CheckScriptName validates the extension of an uploaded script file.
func CheckScriptName(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if blockedExtensions[ext] {
		return "", ErrBlockedFileType
	}
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFileType, ext)
	}
	return ext, nil
}

// FileStore keeps contest scripts on local disk under
// {root}/contest/scripts/{year}/.
type FileStore struct {
	root     string
	maxBytes int64
}

func NewFileStore(root string, maxBytes int64) *FileStore {
	return &FileStore{root: root, maxBytes: maxBytes}
}

func (s *FileStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save validates and writes the script, returning its path relative to
// the media root.
func (s *FileStore) Save(year int, name string, src io.Reader) (string, error) {
	ext, err := CheckScriptName(name)
	if err != nil {
		return "", err
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read script: %w", err)
	}
	head = head[:n]

	if err := checkContent(ext, head); err != nil {
		return "", err
	}

	rel := path.Join("contest", "scripts", strconv.Itoa(year), uuid.NewString()+ext)
	dst := filepath.Join(s.root, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return "", fmt.Errorf("create script dir: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create script file: %w", err)
	}

	body := io.MultiReader(bytes.NewReader(head), src)
	written, err := io.Copy(f, io.LimitReader(body, s.maxBytes+1))
	closeErr := f.Close()

	switch {
	case err != nil:
		_ = os.Remove(dst) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("write script file: %w", err)
	case closeErr != nil:
		_ = os.Remove(dst) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("close script file: %w", closeErr)
	case written > s.maxBytes:
		_ = os.Remove(dst) //nolint:errcheck // best-effort cleanup
		return "", ErrFileTooLarge
	}

	return rel, nil
}

func checkContent(ext string, head []byte) error {
	if bytes.HasPrefix(head, shebang) {
		return fmt.Errorf("%w (script interpreter line)", ErrExecutableContent)
	}

	detected := mimetype.Detect(head)
	for _, m := range executableMIMEs {
		if detected.Is(m) {
			return fmt.Errorf("%w (%s)", ErrExecutableContent, detected.String())
		}
	}

	for m := detected; m != nil; m = m.Parent() {
		for _, want := range documentMIMEs[ext] {
			if m.Is(want) {
				return nil
			}
		}
	}
	return fmt.Errorf("%w (%s detected as %s)", ErrContentMismatch, ext, detected.String())
}

// Remove deletes a previously saved script. Missing files are ignored.
func (s *FileStore) Remove(rel string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove script file: %w", err)
	}
	return nil
}
