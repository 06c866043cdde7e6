package ifupdownconfig

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// The permissions of the file created when the original file is missing.
const defaultFileMode fs.FileMode = 0o644

// File binds the document to the interfaces file on disk. It remembers
// the size and the modification time of the file when it was loaded and
// refuses to overwrite the file modified by someone else in the meantime.
type File struct {
	path string
	// The parsed file contents.
	Document *Document
	info     fs.FileInfo
}

// Reads and parses the interfaces file. The file is closed before the
// function returns.
func LoadFile(path string) (*File, error) {
	file := &File{path: path}
	if err := file.Reload(); err != nil {
		return nil, err
	}
	return file, nil
}

// Creates a file for the document that hasn't been saved yet. Saving
// it fails when the file already exists on disk.
func NewFile(path string, document *Document) *File {
	return &File{path: path, Document: document}
}

// Returns the path of the interfaces file.
func (f *File) Path() string {
	return f.path
}

// Reads and parses the interfaces file again replacing the document.
// The document is not replaced on error.
func (f *File) Reload() error {
	handle, err := os.Open(f.path)
	if err != nil {
		return NewIOError("open", f.path, err)
	}
	defer handle.Close()

	info, err := handle.Stat()
	if err != nil {
		return NewIOError("stat", f.path, err)
	}
	document, err := NewParser().Parse(handle)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return errors.WithMessagef(err, "invalid interfaces file '%s'", f.path)
		}
		return NewIOError("read", f.path, err)
	}
	f.Document = document
	f.info = info
	log.WithFields(log.Fields{
		"path":       f.path,
		"interfaces": document.Len(),
	}).Debug("Loaded interfaces file")
	return nil
}

// Checks if the file on disk differs in size or modification time from
// the loaded file.
func (f *File) IsModified() (bool, error) {
	info, err := os.Stat(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, NewIOError("stat", f.path, err)
	case f.info == nil:
		return true, nil
	default:
		return info.Size() != f.info.Size() || !info.ModTime().Equal(f.info.ModTime()), nil
	}
}

// Writes the rendered document to the file. It returns the
// FileModifiedError if the file has changed on disk since it was loaded.
// The contents are written to a temporary file in the same directory
// which then replaces the original file.
func (f *File) Save() error {
	modified, err := f.IsModified()
	if err != nil {
		return err
	}
	if modified {
		var loadedAt, modifiedAt time.Time
		if f.info != nil {
			loadedAt = f.info.ModTime()
		}
		if info, err := os.Stat(f.path); err == nil {
			modifiedAt = info.ModTime()
		}
		return NewFileModifiedError(f.path, loadedAt, modifiedAt)
	}

	mode := defaultFileMode
	if f.info != nil {
		mode = f.info.Mode().Perm()
	}
	if err := writeFileReplace(f.path, []byte(Render(f.Document)), mode); err != nil {
		return err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return NewIOError("stat", f.path, err)
	}
	f.info = info
	log.WithFields(log.Fields{
		"path":       f.path,
		"interfaces": f.Document.Len(),
	}).Debug("Saved interfaces file")
	return nil
}

// Writes the data to a temporary file and renames it to the path. The
// temporary file is removed on failure.
func writeFileReplace(path string, data []byte, mode fs.FileMode) (err error) {
	temp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return NewIOError("create", path, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = temp.Close()
		}
		if err != nil {
			_ = os.Remove(temp.Name())
		}
	}()

	if _, err = temp.Write(data); err != nil {
		return NewIOError("write", path, err)
	}
	if err = temp.Chmod(mode); err != nil {
		return NewIOError("chmod", path, err)
	}
	if err = temp.Sync(); err != nil {
		return NewIOError("sync", path, err)
	}
	closed = true
	if err = temp.Close(); err != nil {
		return NewIOError("close", path, err)
	}
	if err = os.Rename(temp.Name(), path); err != nil {
		return NewIOError("rename", path, err)
	}
	return nil
}
