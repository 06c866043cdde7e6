package ifupdownconfig

import (
	"cmp"
	"slices"
	"strings"
)

// The indentation of the lines inside the stanza.
const stanzaIndent = "    "

// The formatter serializes the document into the interfaces file text.
// It writes the records in the document order and places the raw lines
// according to their anchors. It never adds lines that are not in the
// document so the output parses into an equal document.
type formatter struct {
	document *Document
	lines    []string
}

func newFormatter(document *Document) *formatter {
	return &formatter{document: document}
}

// Renders the document into the interfaces file text. The output is
// valid input for the parser.
func Render(document *Document) string {
	return newFormatter(document).getFormattedText()
}

// Renders the document into the interfaces file text. It is the
// counterpart of the Load function.
func Save(document *Document) string {
	return Render(document)
}

// Renders a single interface without the raw lines of the document.
func FormatInterface(iface *Interface) string {
	f := newFormatter(NewDocument())
	f.writeInterface(iface)
	return f.text()
}

// Returns the rendered document.
func (f *formatter) getFormattedText() string {
	for name, iface := range f.document.All() {
		f.writeMappings(name)
		f.writeRawLines(Anchor{Position: AnchorLead, Interface: name})
		f.writeInterface(iface)
	}
	f.writeMappings("")
	f.writeRawLines(endAnchor())
	return f.text()
}

func (f *formatter) text() string {
	if len(f.lines) == 0 {
		return ""
	}
	return strings.Join(f.lines, "\n") + "\n"
}

func (f *formatter) writeLine(line string) {
	f.lines = append(f.lines, line)
}

// Writes the raw lines with the given anchor in their order.
func (f *formatter) writeRawLines(anchor Anchor) {
	for _, line := range f.document.rawLines {
		if line.Anchor == anchor {
			f.writeLine(line.Text)
		}
	}
}

// Returns the body raw lines of a record ordered by the index of the
// option they precede. The indexes past the last option are clamped.
func (f *formatter) getBodyLines(match func(Anchor) bool, size int) []RawLine {
	var lines []RawLine
	for _, line := range f.document.rawLines {
		if line.Anchor.Position == AnchorBody && match(line.Anchor) {
			line.Anchor.Index = max(0, min(line.Anchor.Index, size))
			lines = append(lines, line)
		}
	}
	slices.SortStableFunc(lines, func(a, b RawLine) int {
		return cmp.Compare(a.Anchor.Index, b.Anchor.Index)
	})
	return lines
}

// Writes the stanza lines indented and interleaved with the body raw
// lines.
func (f *formatter) writeBody(body []string, rawLines []RawLine) {
	for i, line := range body {
		for len(rawLines) > 0 && rawLines[0].Anchor.Index <= i {
			f.writeLine(rawLines[0].Text)
			rawLines = rawLines[1:]
		}
		f.writeLine(stanzaIndent + line)
	}
	for _, line := range rawLines {
		f.writeLine(line.Text)
	}
}

// Writes the bring-up lines, the iface line and the options. The iface
// line is omitted for the placeholders.
func (f *formatter) writeInterface(iface *Interface) {
	if iface.Auto {
		f.writeLine("auto " + iface.Name)
	}
	for _, class := range iface.Allow {
		f.writeLine("allow-" + class + " " + iface.Name)
	}
	f.writeRawLines(Anchor{Position: AnchorHeader, Interface: iface.Name})
	switch {
	case iface.Family != FamilyNone && iface.Method != MethodNone:
		f.writeLine(strings.Join([]string{"iface", iface.Name, string(iface.Family), string(iface.Method)}, " "))
	case iface.Stanza || len(iface.Options) > 0 || (!iface.Auto && len(iface.Allow) == 0):
		// A record without any other line still gets its iface line.
		f.writeLine("iface " + iface.Name)
	default:
		return
	}
	body := make([]string, 0, len(iface.Options))
	for _, option := range iface.Options {
		body = append(body, option.String())
	}
	f.writeBody(body, f.getBodyLines(func(anchor Anchor) bool {
		return anchor.isInterface(iface.Name)
	}, len(body)))
}

// Writes the mappings placed before the interface or at the end of the
// document for the empty name.
func (f *formatter) writeMappings(name string) {
	for pattern, mapping := range f.document.mappings.All() {
		if f.document.mappingAnchors[pattern] != name {
			continue
		}
		f.writeRawLines(Anchor{Position: AnchorLead, Mapping: pattern})
		f.writeLine("mapping " + mapping.Pattern)
		body := make([]string, 0, mapping.bodySize())
		if mapping.Script != "" {
			body = append(body, "script "+mapping.Script)
		}
		for _, entry := range mapping.Maps {
			body = append(body, "map "+entry.String())
		}
		for _, option := range mapping.Options {
			body = append(body, option.String())
		}
		f.writeBody(body, f.getBodyLines(func(anchor Anchor) bool {
			return anchor.isMapping(pattern)
		}, len(body)))
	}
}
