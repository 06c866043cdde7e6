package ifupdownconfig

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	netifaceutil "isc.org/netiface/util"
)

// Document is the parsed interfaces file. It holds the interfaces and the
// mappings in the order of appearance and the raw lines (comments, blank
// lines and source directives) anchored to these records.
//
// The Document is not safe for concurrent use. The callers sharing it
// between goroutines must guard it with a lock.
type Document struct {
	interfaces *netifaceutil.OrderedMap[string, *Interface]
	mappings   *netifaceutil.OrderedMap[string, *Mapping]
	// The name of the interface each mapping precedes. The empty name
	// places the mapping at the end of the document.
	mappingAnchors map[string]string
	rawLines       []RawLine
}

// Creates an empty document.
func NewDocument() *Document {
	return &Document{
		interfaces:     netifaceutil.NewOrderedMap[string, *Interface](),
		mappings:       netifaceutil.NewOrderedMap[string, *Mapping](),
		mappingAnchors: make(map[string]string),
	}
}

// Returns the interface by name. The returned interface may be modified
// in place but such changes are not validated: a record whose family or
// method is cleared alone renders as a bare "iface <name>" line. Run
// Validate on the modified record or pass a copy to Upsert.
func (d *Document) Get(name string) (*Interface, bool) {
	return d.interfaces.Get(name)
}

// Inserts the interface at the end of the document or replaces the
// existing interface with the same name keeping its position. A new
// interface is separated from the preceding content with a blank line.
func (d *Document) Upsert(iface *Interface) error {
	if iface == nil {
		return errors.New("interface is nil")
	}
	if err := iface.Validate(); err != nil {
		return err
	}
	if !iface.IsPlaceholder() {
		iface.Stanza = true
	}
	if !d.interfaces.Has(iface.Name) && !d.IsEmpty() {
		d.rawLines = append(d.rawLines, RawLine{
			Kind:   RawLineBlank,
			Anchor: Anchor{Position: AnchorLead, Interface: iface.Name},
		})
	}
	d.interfaces.Set(iface.Name, iface)
	return nil
}

// Removes the interface by name. The raw lines and the mappings placed
// before or inside the removed interface are moved to the next interface
// or to the end of the document.
func (d *Document) Remove(name string) (*Interface, bool) {
	index := d.interfaces.IndexOf(name)
	if index < 0 {
		return nil, false
	}
	next := ""
	if index+1 < d.interfaces.GetSize() {
		next, _ = d.interfaces.GetAt(index + 1)
	}
	removed, _ := d.interfaces.Delete(name)
	d.reanchorRawLines(func(anchor Anchor) bool {
		return anchor.isInterface(name)
	}, next)
	for pattern, target := range d.mappingAnchors {
		if target == name {
			d.mappingAnchors[pattern] = next
		}
	}
	log.WithFields(log.Fields{
		"interface": name,
		"next":      next,
	}).Debug("Removed interface from the document")
	return removed, true
}

// Moves the raw lines with the matching anchors before the lead lines of
// the target interface or to the end of the document when the target is
// empty. The moved lines keep their relative order.
func (d *Document) reanchorRawLines(match func(Anchor) bool, target string) {
	var moved, kept []RawLine
	for _, line := range d.rawLines {
		if match(line.Anchor) {
			moved = append(moved, line)
		} else {
			kept = append(kept, line)
		}
	}
	if len(moved) == 0 {
		return
	}
	anchor := endAnchor()
	if target != "" {
		anchor = Anchor{Position: AnchorLead, Interface: target}
	}
	for i := range moved {
		moved[i].Anchor = anchor
	}
	position := slices.IndexFunc(kept, func(line RawLine) bool {
		return line.Anchor == anchor
	})
	if position < 0 {
		position = len(kept)
	}
	d.rawLines = slices.Insert(kept, position, moved...)
}

// Returns a deep copy of the document. Changing the copy, including its
// order, doesn't affect the original.
func (d *Document) Clone() *Document {
	interfaces := d.interfaces.GetValues()
	for i, iface := range interfaces {
		interfaces[i] = iface.Clone()
	}
	mappings := d.mappings.GetValues()
	for i, mapping := range mappings {
		mappings[i] = mapping.Clone()
	}
	return &Document{
		interfaces:     netifaceutil.NewOrderedMapFromEntries(d.interfaces.GetKeys(), interfaces),
		mappings:       netifaceutil.NewOrderedMapFromEntries(d.mappings.GetKeys(), mappings),
		mappingAnchors: maps.Clone(d.mappingAnchors),
		rawLines:       slices.Clone(d.rawLines),
	}
}

// Returns an iterator over the interfaces in the document order.
func (d *Document) Interfaces() iter.Seq[*Interface] {
	return func(yield func(*Interface) bool) {
		d.interfaces.ForEach(func(_ string, iface *Interface) bool {
			return yield(iface)
		})
	}
}

// Returns an iterator over the interface names and interfaces in the
// document order.
func (d *Document) All() iter.Seq2[string, *Interface] {
	return d.interfaces.All()
}

// Returns the interface names in the document order.
func (d *Document) NamesInOrder() []string {
	return d.interfaces.GetKeys()
}

// Returns the number of interfaces.
func (d *Document) Len() int {
	return d.interfaces.GetSize()
}

// Checks if the document has no records and no raw lines.
func (d *Document) IsEmpty() bool {
	return d.interfaces.GetSize() == 0 && d.mappings.GetSize() == 0 && len(d.rawLines) == 0
}

// Sorts the interfaces by name in the natural order (eth2 before eth10).
// The raw lines and mappings follow the interfaces they are anchored to.
// The document is never reordered implicitly.
func (d *Document) ReorderNatural() {
	d.interfaces.SortStableFunc(netifaceutil.NaturalCompare)
	log.WithField("interfaces", d.interfaces.GetSize()).Debug("Reordered interfaces in natural order")
}

// Inserts the mapping at the end of the document or replaces the
// existing mapping with the same pattern keeping its position.
func (d *Document) UpsertMapping(mapping *Mapping) error {
	if mapping == nil {
		return errors.New("mapping is nil")
	}
	if err := mapping.Validate(); err != nil {
		return err
	}
	if !d.mappings.Has(mapping.Pattern) {
		if !d.IsEmpty() {
			d.rawLines = append(d.rawLines, RawLine{
				Kind:   RawLineBlank,
				Anchor: Anchor{Position: AnchorLead, Mapping: mapping.Pattern},
			})
		}
		d.mappingAnchors[mapping.Pattern] = ""
	}
	d.mappings.Set(mapping.Pattern, mapping)
	return nil
}

// Returns the mapping by its pattern.
func (d *Document) GetMapping(pattern string) (*Mapping, bool) {
	return d.mappings.Get(pattern)
}

// Removes the mapping by its pattern. Its raw lines are moved before the
// interface the mapping preceded.
func (d *Document) RemoveMapping(pattern string) (*Mapping, bool) {
	removed, ok := d.mappings.Delete(pattern)
	if !ok {
		return nil, false
	}
	target := d.mappingAnchors[pattern]
	delete(d.mappingAnchors, pattern)
	d.reanchorRawLines(func(anchor Anchor) bool {
		return anchor.isMapping(pattern)
	}, target)
	return removed, true
}

// Returns an iterator over the mappings in the document order.
func (d *Document) Mappings() iter.Seq[*Mapping] {
	return func(yield func(*Mapping) bool) {
		d.mappings.ForEach(func(_ string, mapping *Mapping) bool {
			return yield(mapping)
		})
	}
}

// Returns the first mapping whose pattern matches the interface name.
func (d *Document) GetMappingFor(name string) (*Mapping, bool) {
	for mapping := range d.Mappings() {
		if mapping.Matches(name) {
			return mapping, true
		}
	}
	return nil, false
}

// Returns the source and source-directory lines in the document order.
func (d *Document) Sources() []string {
	var sources []string
	for _, line := range d.rawLines {
		if line.Kind == RawLineSource {
			sources = append(sources, strings.TrimSpace(line.Text))
		}
	}
	return sources
}

// Returns a copy of the raw lines.
func (d *Document) RawLines() []RawLine {
	return slices.Clone(d.rawLines)
}

// Returns the first VLAN ID in the inclusive range for which there is no
// vlan<ID> interface.
func (d *Document) NextUnusedVLANInRange(start, end uint16) (uint16, bool) {
	for id := uint32(start); id <= uint32(end); id++ {
		if !d.interfaces.Has(fmt.Sprintf("vlan%d", id)) {
			return uint16(id), true
		}
	}
	return 0, false
}

// Returns the VLAN ID set in the bridge-access option of the vni<VNI>
// interface.
func (d *Document) GetExistingVNIVLAN(vni uint32) (uint16, bool) {
	iface, ok := d.interfaces.Get(fmt.Sprintf("vni%d", vni))
	if !ok {
		return 0, false
	}
	for _, option := range iface.GetOptions(string(OptionBridgeAccess)) {
		if number, ok := option.(NumberOption); ok {
			return uint16(number.Number()), true
		}
	}
	return 0, false
}

// Returns the rendered document.
func (d *Document) String() string {
	return Render(d)
}
