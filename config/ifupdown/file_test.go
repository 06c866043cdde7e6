package ifupdownconfig

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"isc.org/netiface/testutil"
)

// Test that the file is loaded, modified and saved.
func TestFileLoadSave(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	require.NoError(t, os.Chmod(path, 0o640))

	file, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, path, file.Path())
	require.Equal(t, 3, file.Document.Len())
	file.Document.Remove("eth1")

	// Act
	err = file.Save()

	// Assert
	require.NoError(t, err)
	content, err := sb.Read("interfaces")
	require.NoError(t, err)
	require.Equal(t, Render(file.Document), content)
	require.NotContains(t, content, "iface eth1")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(sb.BasePath)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// Test that the file can be saved many times.
func TestFileSaveTwice(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	file, err := LoadFile(path)
	require.NoError(t, err)

	// Act
	errFirst := file.Save()
	require.NoError(t, file.Document.Upsert(NewInterface("eth2", FamilyInet, MethodDHCP)))
	errSecond := file.Save()

	// Assert
	require.NoError(t, errFirst)
	require.NoError(t, errSecond)
	content, err := sb.Read("interfaces")
	require.NoError(t, err)
	require.Contains(t, content, "iface eth2 inet dhcp")
}

// Test that the file modified on disk after loading is not overwritten.
func TestFileSaveModified(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	file, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, sb.Touch("interfaces", time.Now().Add(time.Hour)))

	// Act
	err = file.Save()

	// Assert
	var modifiedErr *FileModifiedError
	require.True(t, errors.As(err, &modifiedErr))
	require.Equal(t, path, modifiedErr.Path)
	require.True(t, modifiedErr.Modified.After(modifiedErr.LoadedAt))
	modified, err := file.IsModified()
	require.NoError(t, err)
	require.True(t, modified)
}

// Test that reloading picks up the changes made on disk.
func TestFileReload(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	file, err := LoadFile(path)
	require.NoError(t, err)
	_, err = sb.Write("interfaces", "auto lo\niface lo inet loopback\n")
	require.NoError(t, err)
	require.NoError(t, sb.Touch("interfaces", time.Now().Add(time.Hour)))

	// Act
	err = file.Reload()

	// Assert
	require.NoError(t, err)
	require.Equal(t, []string{"lo"}, file.Document.NamesInOrder())
	require.NoError(t, file.Save())
}

// Test that a failed reload keeps the loaded document.
func TestFileReloadInvalid(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	file, err := LoadFile(path)
	require.NoError(t, err)
	_, err = sb.Write("interfaces", "iface eth0 inet\n")
	require.NoError(t, err)

	// Act
	err = file.Reload()

	// Assert
	require.True(t, IsKind(err, ErrorKindMalformedIfaceLine))
	require.ErrorContains(t, err, path)
	require.Equal(t, 3, file.Document.Len())
}

// Test that loading a missing file returns the I/O error.
func TestLoadFileMissing(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path := filepath.Join(sb.BasePath, "missing")

	// Act
	file, err := LoadFile(path)

	// Assert
	require.Nil(t, file)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "open", ioErr.Op)
	require.Equal(t, path, ioErr.Path)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

// Test that a new file is created with the default permissions.
func TestNewFileSave(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path := filepath.Join(sb.BasePath, "interfaces")
	document := NewDocument()
	require.NoError(t, document.Upsert(NewInterface("lo", FamilyInet, MethodLoopback)))
	file := NewFile(path, document)

	// Act
	err := file.Save()

	// Assert
	require.NoError(t, err)
	content, err := sb.Read("interfaces")
	require.NoError(t, err)
	require.Equal(t, "iface lo inet loopback\n", content)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, defaultFileMode, info.Mode().Perm())
}

// Test that a new file doesn't overwrite an existing file.
func TestNewFileSaveExisting(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("interfaces", threeInterfaces)
	require.NoError(t, err)
	file := NewFile(path, NewDocument())

	// Act
	err = file.Save()

	// Assert
	var modifiedErr *FileModifiedError
	require.True(t, errors.As(err, &modifiedErr))
	content, err := sb.Read("interfaces")
	require.NoError(t, err)
	require.Equal(t, threeInterfaces, content)
}

// Test that saving into a missing directory returns the I/O error and
// leaves no temporary file.
func TestFileSaveMissingDirectory(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path := filepath.Join(sb.BasePath, "missing", "interfaces")
	file := NewFile(path, NewDocument())

	// Act
	err := file.Save()

	// Assert
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "create", ioErr.Op)
	entries, err := os.ReadDir(sb.BasePath)
	require.NoError(t, err)
	require.Empty(t, entries)
}
