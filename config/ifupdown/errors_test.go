package ifupdownconfig

import (
	"io/fs"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// Test the parse error message.
func TestParseErrorMessage(t *testing.T) {
	// Arrange
	withReason := NewParseError(ErrorKindMalformedIfaceLine, 3, "iface eth0 inet", "expected interface name, family and method")
	withoutReason := NewParseError(ErrorKindDirectiveOutsideStanza, 1, "address 192.0.2.1", "")

	// Act & Assert
	require.EqualError(t, withReason, "line 3: malformed iface line: expected interface name, family and method: 'iface eth0 inet'")
	require.EqualError(t, withoutReason, "line 1: directive outside stanza: 'address 192.0.2.1'")
}

// Test that the error kind is recognized through the wrapping.
func TestIsKind(t *testing.T) {
	// Arrange
	err := errors.WithMessage(NewParseError(ErrorKindInvalidFamily, 1, "", ""), "wrapped")

	// Act & Assert
	require.True(t, IsKind(err, ErrorKindInvalidFamily))
	require.False(t, IsKind(err, ErrorKindUnexpectedDirective))
	require.False(t, IsKind(errors.New("other"), ErrorKindInvalidFamily))
	require.False(t, IsKind(nil, ErrorKindInvalidFamily))
}

// Test the I/O error message and unwrapping.
func TestIOError(t *testing.T) {
	// Arrange
	err := NewIOError("open", "/etc/network/interfaces", fs.ErrPermission)

	// Act & Assert
	require.EqualError(t, err, "failed to open interfaces file '/etc/network/interfaces': permission denied")
	require.ErrorIs(t, err, fs.ErrPermission)
}

// Test the file modified error message.
func TestFileModifiedError(t *testing.T) {
	// Arrange
	now := time.Now()
	err := NewFileModifiedError("/etc/network/interfaces", now, now.Add(time.Second))

	// Act
	var modifiedErr *FileModifiedError
	ok := errors.As(err, &modifiedErr)

	// Assert
	require.True(t, ok)
	require.EqualError(t, err, "interfaces file '/etc/network/interfaces' has been modified on disk since it was loaded")
}
