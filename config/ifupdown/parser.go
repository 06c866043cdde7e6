package ifupdownconfig

import (
	"bufio"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

const (
	// Initial size of the buffer for a single line in the parser.
	minParserBufferSize = 512
	// Maximum size of the buffer for a single line in the parser.
	maxParserBufferSize = 16 * 1024
)

// A single non-comment line of the interfaces file. The line is
// classified by its first token. The keywords are captured so the
// parser can tell which alternative matched.
type directive struct {
	// The auto line listing the interfaces brought up at boot.
	Auto *autoDirective `parser:"  @@"`
	// The allow-<class> line listing the interfaces of the allow class.
	Allow *allowDirective `parser:"| @@"`
	// The iface line opening the interface stanza.
	Iface *ifaceDirective `parser:"| @@"`
	// The mapping line opening the mapping stanza.
	Mapping *mappingDirective `parser:"| @@"`
	// The source or source-directory line.
	Source *sourceDirective `parser:"| @@"`
	// Any other line is an option of the open stanza.
	Option *optionDirective `parser:"| @@"`
}

// auto <name>...
type autoDirective struct {
	Keyword string   `parser:"@'auto'"`
	Names   []string `parser:"@( Word | Allow )*"`
}

// allow-<class> <name>...
type allowDirective struct {
	Keyword string   `parser:"@Allow"`
	Names   []string `parser:"@( Word | Allow )*"`
}

// iface <name> [<family> <method>]
type ifaceDirective struct {
	Keyword string   `parser:"@'iface'"`
	Args    []string `parser:"@( Word | Allow )*"`
}

// mapping <pattern>...
type mappingDirective struct {
	Keyword  string   `parser:"@'mapping'"`
	Patterns []string `parser:"@( Word | Allow )*"`
}

// source <path> or source-directory <path>
type sourceDirective struct {
	Keyword string   `parser:"@( 'source' | 'source-directory' )"`
	Args    []string `parser:"@( Word | Allow )*"`
}

// <key> [<value>...]
type optionDirective struct {
	Key  string   `parser:"@( Word | Allow )"`
	Args []string `parser:"@( Word | Allow )*"`
}

// The lexer splits a directive line into whitespace separated tokens.
// The allow-<class> tokens are distinguished to recognize the allow
// lines. The interfaces file has no quoting or escaping.
var directiveParser = participle.MustBuild[directive](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Allow", Pattern: `allow-\S+`},
		{Name: "Word", Pattern: `\S+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})),
	participle.Elide("Whitespace"),
)

// Checks if the token opens a top-level directive.
func isKeyword(token string) bool {
	switch token {
	case "auto", "iface", "mapping", "source", "source-directory":
		return true
	default:
		return len(token) > len("allow-") && strings.HasPrefix(token, "allow-")
	}
}

// Parser is a parser for the interfaces(5) files used by ifupdown.
type Parser struct{}

// Instantiates the parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parses the interfaces file contents. It returns a ParseError for the
// malformed contents. No document is returned on error.
func Load(text string) (*Document, error) {
	return NewParser().ParseString(text)
}

// Parses the interfaces file contents from a string.
func (p *Parser) ParseString(text string) (*Document, error) {
	return p.Parse(strings.NewReader(text))
}

// Parses the interfaces file contents from a reader. The reader is read
// to the end before the document is returned.
func (p *Parser) Parse(reader io.Reader) (*Document, error) {
	state := newParserState()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, minParserBufferSize), maxParserBufferSize)

	lineNumber := 0
	// The number of the first physical line of the logical line.
	startNumber := 0
	var logical []string
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if len(logical) == 0 {
			startNumber = lineNumber
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "#") {
				state.addRawLine(line)
				continue
			}
		}
		logical = append(logical, line)
		if strings.HasSuffix(line, "\\") {
			// The line continues on the next physical line.
			continue
		}
		if err := state.processLine(startNumber, strings.Join(logical, "\n")); err != nil {
			return nil, err
		}
		logical = nil
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, errors.Wrapf(err, "encountered interfaces file line exceeding the maximum buffer size: %d", maxParserBufferSize)
		}
		return nil, errors.Wrap(err, "failed to read interfaces file")
	}
	if len(logical) > 0 {
		// The last line ends with a backslash continuing nowhere. The
		// backslash is dropped so the rendered line can't swallow the
		// line following it.
		last := len(logical) - 1
		logical[last] = strings.TrimSuffix(logical[last], "\\")
		text := strings.Join(logical, "\n")
		if strings.TrimSpace(strings.ReplaceAll(text, "\\\n", "")) != "" {
			if err := state.processLine(startNumber, text); err != nil {
				return nil, err
			}
		}
	}
	return state.finish(), nil
}

type stanzaKind int

const (
	stanzaNone stanzaKind = iota
	stanzaInterface
	stanzaMapping
)

// The state of the parser between the lines.
type parserState struct {
	document *Document
	// The kind of the open stanza.
	stanza stanzaKind
	// The interface name or the mapping pattern of the open stanza.
	current string
	// The raw lines not anchored yet. They are anchored to the next
	// record or option.
	pending []RawLine
	// The mappings waiting for the next interface.
	pendingMappings []string
}

func newParserState() *parserState {
	return &parserState{
		document: NewDocument(),
	}
}

// Returns the document with the remaining raw lines and mappings placed
// at its end.
func (s *parserState) finish() *Document {
	s.flushPending(endAnchor())
	s.pendingMappings = nil
	return s.document
}

func (s *parserState) addRawLine(text string) {
	kind := RawLineComment
	if strings.TrimSpace(text) == "" {
		kind = RawLineBlank
	}
	s.pending = append(s.pending, RawLine{Kind: kind, Text: text})
}

// Anchors the pending raw lines.
func (s *parserState) flushPending(anchor Anchor) {
	for _, line := range s.pending {
		line.Anchor = anchor
		s.document.rawLines = append(s.document.rawLines, line)
	}
	s.pending = nil
}

func (s *parserState) closeStanza() {
	s.stanza = stanzaNone
	s.current = ""
}

// Classifies the logical line and updates the document. The line may
// span several physical lines joined with the line breaks.
func (s *parserState) processLine(number int, text string) error {
	parsed, err := directiveParser.ParseString("", strings.ReplaceAll(text, "\\\n", " "))
	if err != nil {
		return NewParseError(ErrorKindUnexpectedDirective, number, text, err.Error())
	}
	if parsed.Option == nil && s.stanza != stanzaNone && startsWithSpace(text) {
		// The top-level directives must not be indented inside the stanza.
		return NewParseError(ErrorKindUnexpectedDirective, number, text, "indented directive inside stanza")
	}
	switch {
	case parsed.Auto != nil:
		return s.processBringUp(number, text, parsed.Auto.Names, func(iface *Interface) {
			iface.Auto = true
		})
	case parsed.Allow != nil:
		class := strings.TrimPrefix(parsed.Allow.Keyword, "allow-")
		return s.processBringUp(number, text, parsed.Allow.Names, func(iface *Interface) {
			iface.AddAllow(class)
		})
	case parsed.Iface != nil:
		return s.processIface(number, text, parsed.Iface.Args)
	case parsed.Mapping != nil:
		return s.processMapping(number, text, parsed.Mapping.Patterns)
	case parsed.Source != nil:
		s.closeStanza()
		s.pending = append(s.pending, RawLine{Kind: RawLineSource, Text: text})
		return nil
	default:
		return s.processOption(number, text, parsed.Option.Key)
	}
}

// Handles the auto and allow-* lines. The unknown interfaces are created
// as placeholders.
func (s *parserState) processBringUp(number int, text string, names []string, apply func(*Interface)) error {
	if len(names) == 0 {
		return NewParseError(ErrorKindUnexpectedDirective, number, text, "no interface names")
	}
	s.closeStanza()
	for _, name := range names {
		iface, ok := s.document.interfaces.Get(name)
		if !ok {
			iface = &Interface{Name: name}
			s.addInterface(iface)
		}
		apply(iface)
	}
	return nil
}

// Handles the iface line. The iface line either has only the interface
// name or the name, family and method.
func (s *parserState) processIface(number int, text string, args []string) error {
	if len(args) != 1 && len(args) != 3 {
		return NewParseError(ErrorKindMalformedIfaceLine, number, text, "expected interface name, family and method")
	}
	name := args[0]
	family := FamilyNone
	method := MethodNone
	if len(args) == 3 {
		var err error
		if family, err = ParseFamily(args[1]); err != nil {
			return NewParseError(ErrorKindInvalidFamily, number, text, err.Error())
		}
		method = ParseMethod(args[2])
	}
	iface, ok := s.document.interfaces.Get(name)
	switch {
	case !ok:
		iface = &Interface{Name: name}
		s.addInterface(iface)
	case iface.Stanza:
		return NewParseError(ErrorKindUnexpectedDirective, number, text, "duplicate stanza for interface "+name)
	default:
		// Complete the placeholder created by the bring-up lines. The
		// mappings above the iface line stay above it.
		s.flushPending(Anchor{Position: AnchorHeader, Interface: name})
		s.anchorPendingMappings(name)
	}
	iface.Family = family
	iface.Method = method
	iface.Stanza = true
	s.stanza = stanzaInterface
	s.current = name
	return nil
}

func (s *parserState) addInterface(iface *Interface) {
	s.document.interfaces.Set(iface.Name, iface)
	s.flushPending(Anchor{Position: AnchorLead, Interface: iface.Name})
	s.anchorPendingMappings(iface.Name)
}

// Places the mappings waiting for the next interface before the named
// interface.
func (s *parserState) anchorPendingMappings(name string) {
	for _, pattern := range s.pendingMappings {
		s.document.mappingAnchors[pattern] = name
	}
	s.pendingMappings = nil
}

// Handles the mapping line.
func (s *parserState) processMapping(number int, text string, patterns []string) error {
	if len(patterns) == 0 {
		return NewParseError(ErrorKindUnexpectedDirective, number, text, "no mapping pattern")
	}
	pattern := strings.Join(patterns, " ")
	if s.document.mappings.Has(pattern) {
		return NewParseError(ErrorKindUnexpectedDirective, number, text, "duplicate mapping "+pattern)
	}
	s.document.mappings.Set(pattern, &Mapping{Pattern: pattern})
	s.document.mappingAnchors[pattern] = ""
	s.flushPending(Anchor{Position: AnchorLead, Mapping: pattern})
	s.pendingMappings = append(s.pendingMappings, pattern)
	s.stanza = stanzaMapping
	s.current = pattern
	return nil
}

// Handles the line inside the stanza. The value is the verbatim rest of
// the line after the key, including the line continuations.
func (s *parserState) processOption(number int, text, key string) error {
	value := optionValue(text, key)
	switch s.stanza {
	case stanzaInterface:
		iface, _ := s.document.interfaces.Get(s.current)
		s.flushPending(Anchor{Position: AnchorBody, Interface: s.current, Index: len(iface.Options)})
		iface.AddOption(ParseOption(key, value))
	case stanzaMapping:
		mapping, _ := s.document.mappings.Get(s.current)
		s.flushPending(Anchor{Position: AnchorBody, Mapping: s.current, Index: mapping.bodySize()})
		addMappingLine(mapping, key, value)
	default:
		return NewParseError(ErrorKindDirectiveOutsideStanza, number, text, "")
	}
	return nil
}

func addMappingLine(mapping *Mapping, key, value string) {
	entry := strings.TrimSpace(strings.ReplaceAll(value, "\\\n", " "))
	fields := strings.Fields(entry)
	switch {
	case key == "script" && mapping.Script == "" && len(fields) > 0:
		mapping.Script = value
	case key == "map" && len(fields) > 0 && !strings.HasSuffix(entry, "\\"):
		mapping.AddMap(fields[0], strings.TrimSpace(strings.TrimPrefix(entry, fields[0])))
	default:
		mapping.Options = append(mapping.Options, ParseOption(key, value))
	}
}

// Returns the text following the key with the surrounding whitespace
// removed.
func optionValue(text, key string) string {
	rest, found := strings.CutPrefix(strings.TrimLeft(text, " \t"), key)
	if !found {
		// The key itself is split with a line continuation.
		fields := strings.Fields(strings.ReplaceAll(text, "\\\n", " "))
		return strings.Join(fields[1:], " ")
	}
	rest = strings.TrimLeft(rest, " \t")
	if trimmed := strings.TrimRight(rest, " \t"); !strings.HasSuffix(trimmed, "\\") {
		return trimmed
	}
	// Trimming would turn the value into a line continuation.
	return rest
}

func startsWithSpace(text string) bool {
	return text != "" && (text[0] == ' ' || text[0] == '\t')
}
