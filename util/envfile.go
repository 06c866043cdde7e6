package netifaceutil

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Accepts the variables read from the environment file.
type EnvironmentVariableSetter interface {
	Set(key, value string) error
}

// Single KEY=VALUE entry of the environment file.
type EnvironmentEntry struct {
	Key   string
	Value string
}

// Loads the environment file and passes its entries to the setter in the
// file order. It stops on the first entry rejected by the setter.
func LoadEnvironmentFileToSetter(path string, setter EnvironmentVariableSetter) error {
	entries, err := LoadEnvironmentFile(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := setter.Set(entry.Key, entry.Value); err != nil {
			return errors.WithMessagef(err, "cannot set value for key: '%s'", entry.Key)
		}
	}
	return nil
}

// Loads all entries from the environment file, e.g. /etc/default/netiface.
func LoadEnvironmentFile(path string) ([]EnvironmentEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open the '%s' environment file", path)
	}
	defer file.Close()
	return loadEnvironmentEntries(file)
}

// Reads the entries. A repeated key keeps its first position and takes
// the last value.
func loadEnvironmentEntries(reader io.Reader) ([]EnvironmentEntry, error) {
	var entries []EnvironmentEntry
	positions := make(map[string]int)
	scanner := bufio.NewScanner(reader)

	lineIdx := 0
	for scanner.Scan() {
		lineIdx++
		key, value, err := parseEnvironmentLine(scanner.Text())
		if err != nil {
			return nil, errors.WithMessagef(err, "invalid line %d of environment file", lineIdx)
		}
		if key == "" {
			continue
		}
		if position, ok := positions[key]; ok {
			entries[position].Value = value
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, EnvironmentEntry{Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read the environment file")
	}
	return entries, nil
}

// Parses a line of the environment file. It returns an empty key for
// blank and comment lines. The shell-style "export" prefix and quoted
// values are accepted.
func parseEnvironmentLine(line string) (string, string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", nil
	}
	if rest, ok := strings.CutPrefix(line, "export "); ok {
		line = strings.TrimSpace(rest)
	}

	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", errors.Errorf("line must contain the key and value separated by the '=' sign")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errors.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, " \t") {
		return "", "", errors.Errorf("key '%s' cannot contain whitespace", key)
	}

	value = strings.TrimSpace(value)
	switch {
	case len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"':
		unquoted, err := strconv.Unquote(value)
		if err != nil {
			return "", "", errors.Wrapf(err, "invalid quoted value of key '%s'", key)
		}
		value = unquoted
	case len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'':
		value = value[1 : len(value)-1]
	}
	return key, value, nil
}
