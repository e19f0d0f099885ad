package packet

import (
	"fmt"
	"sort"
	"strings"
)

// setEntry is the value stored per AttributeId: either one atom (the common
// case) or an ordered list for ids declared multi-valued. None of the
// standard ids are multi-valued today; the list form exists so a future
// duplicate-carrying attribute has somewhere to go without reshaping the
// container, matching the source's MultiAttributes escape hatch.
type setEntry struct {
	multi bool
	atoms []Atom
}

// AttributeSet is the decoded form of a Path Attributes field: a mapping
// from AttributeId to value, built fresh per UPDATE by the Decoder and
// consulted read-only afterwards by the Encoder and by String/JSON.
type AttributeSet struct {
	entries map[AttributeId]*setEntry

	// cacheable starts true and flips false once an MP_REACH/UNREACH has
	// been consumed and a non-MP attribute follows, per the source: such a
	// layout means the set can no longer be safely shared across routes.
	cacheable bool

	// seenMPNLRI tracks whether an MP_REACH/UNREACH has been seen yet, the
	// trigger condition for the cacheable flip above.
	seenMPNLRI bool
}

func NewAttributeSet() *AttributeSet {
	return &AttributeSet{entries: make(map[AttributeId]*setEntry), cacheable: true}
}

func (s *AttributeSet) Cacheable() bool { return s.cacheable }

// noteDecoded is called by the decoder for every attribute it consumes, in
// wire order, to drive the cacheable flip.
func (s *AttributeSet) noteDecoded(id AttributeId, isMP bool) {
	if isMP {
		s.seenMPNLRI = true
		return
	}
	if s.seenMPNLRI {
		s.cacheable = false
	}
}

func (s *AttributeSet) Has(id AttributeId) bool {
	_, ok := s.entries[id]
	return ok
}

// Get returns the single atom stored under id, or the first of a multi list.
func (s *AttributeSet) Get(id AttributeId) (Atom, bool) {
	e, ok := s.entries[id]
	if !ok || len(e.atoms) == 0 {
		return nil, false
	}
	return e.atoms[0], true
}

// All returns every atom stored under id, in insertion order.
func (s *AttributeSet) All(id AttributeId) []Atom {
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	return e.atoms
}

// Insert replaces whatever is stored under atom.ID() (single-valued
// semantics, which every standard attribute id uses).
func (s *AttributeSet) Insert(atom Atom) {
	s.entries[atom.ID()] = &setEntry{atoms: []Atom{atom}}
}

// InsertMulti appends atom to the ordered list under its id instead of
// replacing, for ids declared multi-valued.
func (s *AttributeSet) InsertMulti(atom Atom) {
	e, ok := s.entries[atom.ID()]
	if !ok {
		e = &setEntry{multi: true, atoms: nil}
		s.entries[atom.ID()] = e
	}
	e.multi = true
	e.atoms = append(e.atoms, atom)
}

func (s *AttributeSet) Remove(id AttributeId) {
	delete(s.entries, id)
}

func (s *AttributeSet) sortedIDs() []AttributeId {
	ids := make([]AttributeId, 0, len(s.entries))
	for id := range s.entries {
		if isInternalID(id) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var attributeNames = map[AttributeId]string{
	AttrOrigin:            "origin",
	AttrASPath:            "as-path",
	AttrNextHop:           "next-hop",
	AttrMED:               "med",
	AttrLocalPref:         "local-preference",
	AttrAtomicAggregate:   "atomic-aggregate",
	AttrAggregator:        "aggregator",
	AttrCommunity:         "community",
	AttrOriginatorID:      "originator-id",
	AttrClusterList:       "cluster-list",
	AttrMPReachNLRI:       "mp-reach",
	AttrMPUnreachNLRI:     "mp-unreach",
	AttrExtendedCommunity: "extended-community",
	AttrAS4Path:           "as4-path",
	AttrAS4Aggregator:     "as4-aggregator",
}

// String renders a stable, sorted textual form: ATOMIC_AGGREGATE by its name
// alone, every other known attribute as "<name> <value>", and unknown ids as
// "attribute [ 0xCC 0xFF <hex> ]" the way the source renders an opaque
// attribute it never learned a name for.
func (s *AttributeSet) String() string {
	var parts []string
	for _, id := range s.sortedIDs() {
		e := s.entries[id]
		if id == AttrAtomicAggregate {
			parts = append(parts, "atomic-aggregate")
			continue
		}
		name, known := attributeNames[id]
		if !known {
			u, _ := e.atoms[0].(Unknown)
			parts = append(parts, fmt.Sprintf("attribute [ 0x%02x 0x%02x %x ]", u.Flag.Byte(), uint8(id), u.Raw))
			continue
		}
		vals := make([]string, len(e.atoms))
		for i, a := range e.atoms {
			vals[i] = a.String()
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, strings.Join(vals, " ")))
	}
	return strings.Join(parts, ", ")
}

type attrKind int

const (
	kindString attrKind = iota
	kindInteger
	kindList
	kindBoolean
)

var attributeKinds = map[AttributeId]attrKind{
	AttrOrigin:            kindString,
	AttrASPath:            kindList,
	AttrNextHop:           kindString,
	AttrMED:               kindInteger,
	AttrLocalPref:         kindInteger,
	AttrAtomicAggregate:   kindBoolean,
	AttrAggregator:        kindString,
	AttrCommunity:         kindList,
	AttrOriginatorID:      kindString,
	AttrClusterList:       kindList,
	AttrExtendedCommunity: kindList,
	AttrAS4Path:           kindList,
	AttrAS4Aggregator:     kindString,
}

// JSON renders the same stable, sorted representation as a JSON object
// fragment (no enclosing braces, so callers can splice it into a larger
// document). Lists and integers are emitted raw/unquoted, matching the
// source's loose JSON production; unknown ids key as "attribute-0xCC-0xFF".
func (s *AttributeSet) JSON() string {
	var fields []string
	for _, id := range s.sortedIDs() {
		e := s.entries[id]
		name, known := attributeNames[id]
		if !known {
			u, _ := e.atoms[0].(Unknown)
			key := fmt.Sprintf("attribute-0x%02x-0x%02x", u.Flag.Byte(), uint8(id))
			fields = append(fields, fmt.Sprintf("%q: %q", key, u.String()))
			continue
		}
		switch attributeKinds[id] {
		case kindBoolean:
			fields = append(fields, fmt.Sprintf("%q: true", name))
		case kindInteger:
			fields = append(fields, fmt.Sprintf("%q: %s", name, e.atoms[0].String()))
		case kindList:
			vals := make([]string, len(e.atoms))
			for i, a := range e.atoms {
				vals[i] = fmt.Sprintf("%q", a.String())
			}
			fields = append(fields, fmt.Sprintf("%q: [%s]", name, strings.Join(vals, ", ")))
		default:
			fields = append(fields, fmt.Sprintf("%q: %q", name, e.atoms[0].String()))
		}
	}
	return strings.Join(fields, ", ")
}
