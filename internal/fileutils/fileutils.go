// Package fileutils provides the file checks performed before an export is decoded.
package fileutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/statement-import/internal/parsererror"
	"fjacquet/statement-import/internal/tabular"
)

// DefaultMaxFileSize is the size ceiling applied when none is configured.
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

var kinds = map[string]tabular.Kind{
	"csv":  tabular.KindDelimited,
	"xls":  tabular.KindSpreadsheet,
	"xlsx": tabular.KindSpreadsheet,
	"xlsb": tabular.KindSpreadsheet,
	"xlsm": tabular.KindSpreadsheet,
}

// Extension returns the lower-case extension of name without the dot.
func Extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// DetectKind maps a file name to its decoding path by extension only.
func DetectKind(name string) (tabular.Kind, string, error) {
	ext := Extension(name)
	kind, ok := kinds[ext]
	if !ok {
		return tabular.KindUnknown, ext, &parsererror.UnsupportedExtensionError{FileName: filepath.Base(name), Extension: ext}
	}
	return kind, ext, nil
}

// IsSupported reports whether name has an importable extension.
func IsSupported(name string) bool {
	_, ok := kinds[Extension(name)]
	return ok
}

// CheckSize rejects content larger than limit. A non-positive limit disables the check.
func CheckSize(name string, size, limit int64) error {
	if limit > 0 && size > limit {
		return &parsererror.FileTooLargeError{FileName: filepath.Base(name), Size: size, Limit: limit}
	}
	return nil
}

func statIs(path string, dir bool) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir() == dir
}

// FileExists reports whether path names a regular file or other non-directory.
func FileExists(path string) bool { return statIs(path, false) }

// DirectoryExists reports whether path names a directory.
func DirectoryExists(path string) bool { return statIs(path, true) }

// ReadLimited reads a file, refusing it before reading when it exceeds limit.
func ReadLimited(filePath string, limit int64) ([]byte, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file does not exist: %s", filePath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory: %s", filePath)
	}
	if err := CheckSize(filePath, info.Size(), limit); err != nil {
		return nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// ListImportFiles returns the importable files directly inside dirPath, sorted by name.
func ListImportFiles(dirPath string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dirPath, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
