package packet

import "bytes"

// Atom is a decoded path attribute value: every concrete attribute type
// supports decode-from-slice (as a free `Decode*` function, since Go has no
// constructor dispatch), encode-to-bytes, a textual form, and equality via
// its encoded bytes.
type Atom interface {
	ID() AttributeId
	Encode() []byte
	String() string
}

// AtomEqual compares two atoms by id and encoded wire form, which is the
// only equality spec.md's round-trip property needs.
func AtomEqual(a, b Atom) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID() == b.ID() && bytes.Equal(a.Encode(), b.Encode())
}
