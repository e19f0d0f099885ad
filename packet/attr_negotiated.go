package packet

// Family identifies a negotiated address family by its AFI/SAFI pair.
type Family struct {
	Afi  Afi
	Safi Safi
}

// Negotiated is the read-only view of a BGP session's negotiated
// capabilities the codec needs: whether the peer is a 4-byte-ASN speaker,
// which families were negotiated, and whether add-path receive is enabled
// per family. It is supplied by the session layer; the codec never reaches
// for global state.
type Negotiated interface {
	ASN4() bool
	HasFamily(afi Afi, safi Safi) bool
	AddPathReceive(afi Afi, safi Safi) bool
}

// SimpleNegotiated is a minimal concrete Negotiated for tests and the demo
// command: a fixed ASN4 flag, a static family set, and an add-path set.
type SimpleNegotiated struct {
	Asn4      bool
	Families  map[Family]bool
	AddPathRx map[Family]bool
}

func NewSimpleNegotiated(asn4 bool, families ...Family) *SimpleNegotiated {
	fm := make(map[Family]bool, len(families))
	for _, f := range families {
		fm[f] = true
	}
	return &SimpleNegotiated{Asn4: asn4, Families: fm, AddPathRx: map[Family]bool{}}
}

func (n *SimpleNegotiated) ASN4() bool { return n.Asn4 }

func (n *SimpleNegotiated) HasFamily(afi Afi, safi Safi) bool {
	return n.Families[Family{Afi: afi, Safi: safi}]
}

func (n *SimpleNegotiated) AddPathReceive(afi Afi, safi Safi) bool {
	return n.AddPathRx[Family{Afi: afi, Safi: safi}]
}

func (n *SimpleNegotiated) EnableAddPath(afi Afi, safi Safi) {
	n.AddPathRx[Family{Afi: afi, Safi: safi}] = true
}
