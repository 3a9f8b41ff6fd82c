// Package projectfs provides rooted file-system operations for scaffolding.
//
// Overview:
//   - Responsibility: Create directories and write generated files under a project root
//   - Key Types: ProjectFS
//   - Concurrency Model: Sequential file operations; not safe for concurrent writes to one path
//   - Error Semantics: ALREADY_EXISTS when a generator would overwrite a file without force,
//     NOT_FOUND for missing files and directories, INTERNAL for other I/O failures
//
// Usage:
//
//	fs := projectfs.NewProjectFS(".", logger)
//	err := fs.CreateFile("app/models/User.js", content, false)
package projectfs

import (
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"go.eggybyte.com/yolk/internal/errors"
	"go.eggybyte.com/yolk/internal/log"
)

// ProjectFS provides file system operations relative to a project root.
type ProjectFS struct {
	rootDir string
	logger  log.Logger
	dryRun  io.Writer
}

// NewProjectFS creates a new project file system.
//
// Parameters:
//   - rootDir: Root directory for all relative paths
//   - logger: Logger for file operations (nil means discard)
//
// Returns:
//   - *ProjectFS: Project file system instance
func NewProjectFS(rootDir string, logger log.Logger) *ProjectFS {
	if logger == nil {
		logger = log.Nop()
	}
	return &ProjectFS{
		rootDir: rootDir,
		logger:  logger,
	}
}

// SetDryRun makes CreateFile print rendered content to w instead of writing it.
// A nil writer disables dry-run mode.
func (fs *ProjectFS) SetDryRun(w io.Writer) {
	fs.dryRun = w
}

// DryRun reports whether dry-run mode is enabled.
func (fs *ProjectFS) DryRun() bool {
	return fs.dryRun != nil
}

// CreateDirectory creates a directory if it doesn't exist.
func (fs *ProjectFS) CreateDirectory(path string) error {
	fullPath := fs.GetAbsolutePath(path)

	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		fs.logger.Debug("directory already exists", log.Str("path", path))
		return nil
	}

	if fs.dryRun != nil {
		fmt.Fprintf(fs.dryRun, "mkdir %s\n", filepath.ToSlash(path))
		return nil
	}

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return errors.Wrapf(errors.CodeInternal, "projectfs.mkdir", err, "create directory %s", path)
	}

	fs.logger.Debug("created directory", log.Str("path", path))
	return nil
}

// WriteFile writes content to a file, creating parent directories.
func (fs *ProjectFS) WriteFile(path, content string, mode iofs.FileMode) error {
	fullPath := fs.GetAbsolutePath(path)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.Wrapf(errors.CodeInternal, "projectfs.write", err, "create parent directory for %s", path)
	}

	if err := os.WriteFile(fullPath, []byte(content), mode); err != nil {
		return errors.Wrapf(errors.CodeInternal, "projectfs.write", err, "write file %s", path)
	}

	fs.logger.Debug("wrote file", log.Str("path", path), log.Int("bytes", len(content)))
	return nil
}

// CreateFile writes a generated file.
//
// Parameters:
//   - path: File path relative to root
//   - content: Rendered file content
//   - force: Overwrite an existing file
//
// Returns:
//   - error: ALREADY_EXISTS when the file exists and force is false
func (fs *ProjectFS) CreateFile(path, content string, force bool) error {
	exists, err := fs.FileExists(path)
	if err != nil {
		return err
	}
	if exists && !force {
		return errors.Newf(errors.CodeAlreadyExists, "%s already exists (use --force to overwrite)", filepath.ToSlash(path))
	}

	if fs.dryRun != nil {
		fmt.Fprintf(fs.dryRun, "--- %s ---\n%s\n", filepath.ToSlash(path), content)
		return nil
	}

	return fs.WriteFile(path, content, 0644)
}

// WriteFileIfNotExists writes a file only if it doesn't exist.
// Returns true when the file was written.
func (fs *ProjectFS) WriteFileIfNotExists(path, content string, mode iofs.FileMode) (bool, error) {
	exists, err := fs.FileExists(path)
	if err != nil {
		return false, err
	}
	if exists {
		fs.logger.Debug("file already exists, skipping", log.Str("path", path))
		return false, nil
	}
	if err := fs.WriteFile(path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// FileExists checks if a file exists.
func (fs *ProjectFS) FileExists(path string) (bool, error) {
	_, err := os.Stat(fs.GetAbsolutePath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(errors.CodeInternal, "projectfs.stat", err)
}

// DirectoryExists checks if a directory exists.
func (fs *ProjectFS) DirectoryExists(path string) (bool, error) {
	info, err := os.Stat(fs.GetAbsolutePath(path))
	if err == nil {
		return info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(errors.CodeInternal, "projectfs.stat", err)
}

// ReadFile reads content from a file.
func (fs *ProjectFS) ReadFile(path string) (string, error) {
	content, err := os.ReadFile(fs.GetAbsolutePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Newf(errors.CodeNotFound, "file %s not found", filepath.ToSlash(path))
		}
		return "", errors.Wrapf(errors.CodeInternal, "projectfs.read", err, "read file %s", path)
	}
	return string(content), nil
}

// ListFiles lists regular files in a directory, sorted by name.
// A missing directory yields NOT_FOUND.
func (fs *ProjectFS) ListFiles(path string) ([]string, error) {
	entries, err := os.ReadDir(fs.GetAbsolutePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.CodeNotFound, "directory %s not found", filepath.ToSlash(path))
		}
		return nil, errors.Wrapf(errors.CodeInternal, "projectfs.list", err, "list files in %s", path)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// WalkFiles lists regular files under dir recursively as slash-separated paths
// relative to the project root, sorted. A missing directory yields NOT_FOUND.
func (fs *ProjectFS) WalkFiles(dir string) ([]string, error) {
	base := fs.GetAbsolutePath(dir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil, errors.Newf(errors.CodeNotFound, "directory %s not found", filepath.ToSlash(dir))
	}

	var files []string
	err := filepath.WalkDir(base, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		files = append(files, path.Join(filepath.ToSlash(dir), filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.CodeInternal, "projectfs.walk", err, "walk %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

// GetRootDir returns the root directory.
func (fs *ProjectFS) GetRootDir() string {
	return fs.rootDir
}

// GetAbsolutePath returns the root-joined path for a relative path.
func (fs *ProjectFS) GetAbsolutePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(fs.rootDir, filepath.FromSlash(path))
}
