package packet

import "net"

// OriginatorID is the (optional, non-transitive) ORIGINATOR_ID attribute set
// by a route reflector (RFC 4456). Decoded straight from the attribute's own
// payload, never from the UPDATE message's own BGP identifier.
type OriginatorID [4]byte

func DecodeOriginatorID(data []byte) (OriginatorID, error) {
	if len(data) != 4 {
		return OriginatorID{}, malformedAttrList("invalid ORIGINATOR_ID length")
	}
	var id OriginatorID
	copy(id[:], data)
	return id, nil
}

func (o OriginatorID) ID() AttributeId { return AttrOriginatorID }
func (o OriginatorID) Encode() []byte  { return append([]byte{}, o[:]...) }
func (o OriginatorID) String() string  { return net.IP(o[:]).String() }
