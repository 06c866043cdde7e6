package ifupdownconfig

import (
	"path"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// MapEntry is a single map line of the mapping stanza. The map lines are
// passed to the mapping script on its standard input.
type MapEntry struct {
	Match string
	Value string
}

// Returns the map line contents without the map keyword.
func (e MapEntry) String() string {
	if e.Value == "" {
		return e.Match
	}
	return e.Match + " " + e.Value
}

// Mapping is the mapping stanza. It selects the logical interface for the
// physical interfaces matching the pattern by running a script.
//
//	mapping eth0 eth1
//	    script /usr/local/sbin/map-scheme
//	    map HOME eth0-home
//
// The mapping is not referenced by the interfaces. Use the
// Document.GetMappingFor to find the mapping for an interface.
type Mapping struct {
	// One or more whitespace separated glob patterns.
	Pattern string
	Script  string
	Maps    []MapEntry
	// Other directives of the mapping stanza.
	Options []Option
}

// Creates a new mapping for the pattern.
func NewMapping(pattern, script string) *Mapping {
	return &Mapping{
		Pattern: pattern,
		Script:  script,
	}
}

// Returns the individual glob patterns of the mapping.
func (m *Mapping) Patterns() []string {
	return strings.Fields(m.Pattern)
}

// Checks if any of the mapping patterns matches the interface name. The
// patterns use the shell glob syntax.
func (m *Mapping) Matches(name string) bool {
	for _, pattern := range m.Patterns() {
		if matched, err := path.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// Appends a map line.
func (m *Mapping) AddMap(match, value string) {
	m.Maps = append(m.Maps, MapEntry{Match: match, Value: value})
}

// Returns a deep copy of the mapping.
func (m *Mapping) Clone() *Mapping {
	clone := *m
	clone.Maps = slices.Clone(m.Maps)
	clone.Options = slices.Clone(m.Options)
	return &clone
}

// Returns the number of the directive lines inside the stanza.
func (m *Mapping) bodySize() int {
	size := len(m.Maps) + len(m.Options)
	if m.Script != "" {
		size++
	}
	return size
}

// Checks that the mapping can be rendered into the text the parser
// accepts.
func (m *Mapping) Validate() error {
	patterns := m.Patterns()
	if len(patterns) == 0 {
		return errors.New("mapping has no pattern")
	}
	for _, pattern := range patterns {
		if _, err := path.Match(pattern, ""); err != nil {
			return errors.Wrapf(err, "invalid mapping pattern '%s'", pattern)
		}
	}
	if err := validateValue(m.Script, "script of mapping "+m.Pattern); err != nil {
		return err
	}
	for _, entry := range m.Maps {
		if !isToken(entry.Match) {
			return errors.Errorf("invalid map entry '%s' of mapping %s", entry.Match, m.Pattern)
		}
		if err := validateValue(entry.Value, "map entry "+entry.Match+" of mapping "+m.Pattern); err != nil {
			return err
		}
	}
	for _, option := range m.Options {
		if err := validateOption(option); err != nil {
			return errors.WithMessagef(err, "invalid option of mapping %s", m.Pattern)
		}
	}
	return nil
}
