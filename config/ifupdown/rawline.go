package ifupdownconfig

// RawLineKind is the kind of the line kept verbatim.
type RawLineKind string

const (
	RawLineComment RawLineKind = "comment"
	RawLineBlank   RawLineKind = "blank"
	RawLineSource  RawLineKind = "source"
)

// AnchorPosition tells where the raw line is placed relative to the
// record it is anchored to.
type AnchorPosition string

const (
	// Before the first line of the record.
	AnchorLead AnchorPosition = "lead"
	// After the auto and allow-* lines and before the iface line.
	AnchorHeader AnchorPosition = "header"
	// Inside the stanza, before the option with the anchor index.
	AnchorBody AnchorPosition = "body"
	// At the end of the document.
	AnchorEnd AnchorPosition = "end"
)

// Anchor ties the raw line to a record. The record is referenced by its
// key: the interface name or the mapping pattern. At most one of them is
// set and none for the end of the document.
type Anchor struct {
	Position  AnchorPosition
	Interface string
	Mapping   string
	// Option index for the body position.
	Index int
}

// Creates the anchor at the end of the document.
func endAnchor() Anchor {
	return Anchor{Position: AnchorEnd}
}

// Checks if the anchor points to the given interface.
func (a Anchor) isInterface(name string) bool {
	return a.Position != AnchorEnd && a.Mapping == "" && a.Interface == name
}

// Checks if the anchor points to the given mapping.
func (a Anchor) isMapping(pattern string) bool {
	return a.Position != AnchorEnd && a.Interface == "" && a.Mapping == pattern
}

// RawLine is a line without the configuration meaning for the model: a
// comment, a blank line or a source directive. It is kept verbatim,
// including the indentation.
type RawLine struct {
	Kind   RawLineKind
	Text   string
	Anchor Anchor
}
