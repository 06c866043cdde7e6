package testutil

import (
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
)

// Sandbox is a temporary directory for the files created by the tests,
// e.g., the interfaces files loaded and saved by the test cases. Each
// sandbox has its own directory so two sandboxes never interfere. The
// Close removes the directory with its contents.
type Sandbox struct {
	BasePath string
}

// Creates a new sandbox in the temporary directory.
func NewSandbox() *Sandbox {
	dir, err := os.MkdirTemp("", "netiface_ut_*")
	if err != nil {
		log.Fatal(err)
	}
	return &Sandbox{
		BasePath: dir,
	}
}

// Removes the sandbox and all its contents.
func (sb *Sandbox) Close() {
	os.RemoveAll(sb.BasePath)
}

// Creates an empty file in the sandbox with all missing parent
// directories and returns its full path.
func (sb *Sandbox) Join(name string) (string, error) {
	filePath := filepath.Join(sb.BasePath, name)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o777); err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return filePath, nil
}

// Creates a directory in the sandbox with all missing parent directories
// and returns its full path.
func (sb *Sandbox) JoinDir(name string) (string, error) {
	dirPath := filepath.Join(sb.BasePath, name)

	if err := os.MkdirAll(dirPath, 0o777); err != nil {
		return "", err
	}

	return dirPath, nil
}

// Creates a file with the given content and returns its full path. The
// file is readable and writable only by the owner.
func (sb *Sandbox) Write(name string, content string) (string, error) {
	filePath, err := sb.Join(name)
	if err != nil {
		return "", err
	}

	if err = os.WriteFile(filePath, []byte(content), 0o600); err != nil {
		return "", err
	}
	// The file created by Join already has the default permissions.
	if err = os.Chmod(filePath, 0o600); err != nil {
		return "", err
	}

	return filePath, nil
}

// Returns the content of the file in the sandbox.
func (sb *Sandbox) Read(name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(sb.BasePath, name))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// Sets the modification time of the file in the sandbox.
func (sb *Sandbox) Touch(name string, modTime time.Time) error {
	return os.Chtimes(filepath.Join(sb.BasePath, name), modTime, modTime)
}
