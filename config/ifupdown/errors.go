package ifupdownconfig

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrorKind classifies the errors returned by the parser.
type ErrorKind string

const (
	// The family token of the iface line is not one of the supported
	// address families.
	ErrorKindInvalidFamily ErrorKind = "invalid family"
	// The directive is not allowed in the current parser state (e.g.,
	// an indented auto line inside a stanza or a second iface stanza
	// for the same interface).
	ErrorKindUnexpectedDirective ErrorKind = "unexpected directive"
	// An option line appeared before any iface or mapping stanza.
	ErrorKindDirectiveOutsideStanza ErrorKind = "directive outside stanza"
	// The iface line has a wrong number of tokens.
	ErrorKindMalformedIfaceLine ErrorKind = "malformed iface line"
)

// ParseError is returned when the interfaces file content cannot be parsed.
// It carries the 1-based number of the line where the problem was found
// and the original text of this line.
type ParseError struct {
	Kind   ErrorKind
	Line   int
	Text   string
	Reason string
}

// Creates new instance of the ParseError.
func NewParseError(kind ErrorKind, line int, text, reason string) error {
	return &ParseError{
		Kind:   kind,
		Line:   line,
		Text:   text,
		Reason: reason,
	}
}

// Returns error string.
func (e *ParseError) Error() string {
	message := fmt.Sprintf("line %d: %s", e.Line, e.Kind)
	if e.Reason != "" {
		message += ": " + e.Reason
	}
	return fmt.Sprintf("%s: '%s'", message, e.Text)
}

// Checks if the error is a ParseError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr) && parseErr.Kind == kind
}

// IOError wraps a failure of reading or writing the interfaces file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Creates new instance of the IOError.
func NewIOError(op, path string, err error) error {
	return &IOError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// Returns error string.
func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s interfaces file '%s': %s", e.Op, e.Path, e.Err)
}

// Returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// An error returned when the file was modified by someone else after it
// had been loaded.
type FileModifiedError struct {
	Path     string
	LoadedAt time.Time
	Modified time.Time
}

// Creates new instance of the FileModifiedError.
func NewFileModifiedError(path string, loadedAt, modified time.Time) error {
	return &FileModifiedError{
		Path:     path,
		LoadedAt: loadedAt,
		Modified: modified,
	}
}

// Returns error string.
func (e *FileModifiedError) Error() string {
	return fmt.Sprintf("interfaces file '%s' has been modified on disk since it was loaded", e.Path)
}
