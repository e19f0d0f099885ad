package packet

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/taktv6/tflow2/convert"
)

// Aggregator carries the ASN and router id of the router that performed
// route aggregation. It has two wire forms: a classic 6-byte (2-byte ASN +
// 4-byte id) form, and a new-speaker 8-byte (4-byte ASN) form carried either
// as AGGREGATOR itself or as AS4_AGGREGATOR.
type Aggregator struct {
	ASN      ASN
	RouterID [4]byte

	// width is the wire ASN size (2 or 4) this value was last decoded or
	// constructed with; Encode() reproduces it. The encoder picks its own
	// width per peer via encodeWidth instead of relying on this field.
	width int
}

func NewAggregator(asn ASN, routerID [4]byte) Aggregator {
	width := 2
	if asn > 0xFFFF {
		width = 4
	}
	return Aggregator{ASN: asn, RouterID: routerID, width: width}
}

func DecodeAggregator(data []byte) (Aggregator, error) {
	switch len(data) {
	case 6:
		var id [4]byte
		copy(id[:], data[2:6])
		return Aggregator{ASN: ASN(binary.BigEndian.Uint16(data[:2])), RouterID: id, width: 2}, nil
	case 8:
		var id [4]byte
		copy(id[:], data[4:8])
		return Aggregator{ASN: ASN(convert.Uint32b(data[:4])), RouterID: id, width: 4}, nil
	default:
		return Aggregator{}, malformedAttrList("invalid AGGREGATOR length")
	}
}

func (a Aggregator) ID() AttributeId { return AttrAggregator }

func (a Aggregator) Encode() []byte {
	width := a.width
	if width == 0 {
		width = 2
	}
	return a.encodeWidth(width)
}

func (a Aggregator) encodeWidth(width int) []byte {
	buf := make([]byte, 0, 4+width)
	if width == 4 {
		buf = append(buf, convert.Uint32Byte(uint32(a.ASN))...)
	} else {
		buf = append(buf, convert.Uint16Byte(uint16(a.ASN))...)
	}
	return append(buf, a.RouterID[:]...)
}

func (a Aggregator) String() string {
	return fmt.Sprintf("( %d %s )", uint32(a.ASN), net.IP(a.RouterID[:]).String())
}
