package netifaceutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"isc.org/netiface/testutil"
)

// Test that loading a missing environment file causes an error.
func TestLoadMissingEnvironmentFile(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()

	// Act
	entries, err := LoadEnvironmentFile(filepath.Join(sb.BasePath, "not-exists.env"))

	// Assert
	require.ErrorContains(t, err, "cannot open the")
	require.Nil(t, entries)
}

// Test that the entries are returned in the file order.
func TestLoadEnvironmentEntries(t *testing.T) {
	// Arrange
	content := `NETIFACE_FILE=/etc/network/interfaces.test
				NETIFACE_LOG_LEVEL=debug
				EMPTY=`

	// Act
	entries, err := loadEnvironmentEntries(strings.NewReader(content))

	// Assert
	require.NoError(t, err)
	require.Equal(t, []EnvironmentEntry{
		{Key: "NETIFACE_FILE", Value: "/etc/network/interfaces.test"},
		{Key: "NETIFACE_LOG_LEVEL", Value: "debug"},
		{Key: "EMPTY", Value: ""},
	}, entries)
}

// Test that a repeated key keeps its position and takes the last value.
func TestLoadEnvironmentEntriesWithDuplicates(t *testing.T) {
	// Arrange
	content := "KEY1=VALUE1\nKEY2=VALUE2\nKEY1=VALUE3"

	// Act
	entries, err := loadEnvironmentEntries(strings.NewReader(content))

	// Assert
	require.NoError(t, err)
	require.Equal(t, []EnvironmentEntry{
		{Key: "KEY1", Value: "VALUE3"},
		{Key: "KEY2", Value: "VALUE2"},
	}, entries)
}

// Test that comments, blank lines, the export prefix and quotes are
// handled.
func TestLoadEnvironmentEntriesShellSyntax(t *testing.T) {
	// Arrange
	content := `  # Comment
				export KEY1="two words\tand tab"

				KEY2='single $quoted'
				KEY3 = spaced   `

	// Act
	entries, err := loadEnvironmentEntries(strings.NewReader(content))

	// Assert
	require.NoError(t, err)
	require.Equal(t, []EnvironmentEntry{
		{Key: "KEY1", Value: "two words\tand tab"},
		{Key: "KEY2", Value: "single $quoted"},
		{Key: "KEY3", Value: "spaced"},
	}, entries)
}

// Test that the invalid lines are rejected with their numbers.
func TestLoadEnvironmentEntriesInvalid(t *testing.T) {
	for name, content := range map[string]string{
		"no separator": "KEY1=VALUE1\n\nINVALID",
		"empty key":    "KEY1=VALUE1\n\n=VALUE",
		"spaced key":   "KEY1=VALUE1\n\nMY KEY=VALUE",
		"bad quotes":   "KEY1=VALUE1\n\nKEY=\"unterminated\\\"",
	} {
		t.Run(name, func(t *testing.T) {
			entries, err := loadEnvironmentEntries(strings.NewReader(content))
			require.ErrorContains(t, err, "invalid line 3 of environment file")
			require.Nil(t, entries)
		})
	}
}

type setterMock struct {
	data map[string]string
	err  error
}

func (s *setterMock) Set(key, value string) error {
	s.data[key] = value
	return s.err
}

// Test that the environment variables are passed to the setter.
func TestLoadEnvironmentFileToSetter(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("netiface.env", "NETIFACE_FILE=/tmp/interfaces\n")
	require.NoError(t, err)
	mock := &setterMock{data: map[string]string{}}

	// Act
	err = LoadEnvironmentFileToSetter(path, mock)

	// Assert
	require.NoError(t, err)
	require.Equal(t, map[string]string{"NETIFACE_FILE": "/tmp/interfaces"}, mock.data)
}

// Test that the loading stops on the first setter error.
func TestLoadEnvironmentFileToSetterError(t *testing.T) {
	// Arrange
	sb := testutil.NewSandbox()
	defer sb.Close()
	path, err := sb.Write("netiface.env", "KEY1=VALUE1\nKEY2=VALUE2\n")
	require.NoError(t, err)
	mock := &setterMock{data: map[string]string{}, err: errors.New("foo")}

	// Act
	err = LoadEnvironmentFileToSetter(path, mock)

	// Assert
	require.ErrorContains(t, err, "cannot set value for key: 'KEY1': foo")
	require.NotContains(t, mock.data, "KEY2")
}
