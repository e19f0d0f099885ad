package packet

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ExtendedCommunity is a 64 bit opaque value (RFC 4360). Every decoded value
// is interned through internExtCommunity, same as Community.
type ExtendedCommunity uint64

func (e ExtendedCommunity) ID() AttributeId { return 0 }

func (e ExtendedCommunity) Encode() []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(e))
	return buf
}

func (e ExtendedCommunity) String() string {
	return fmt.Sprintf("%d:%d:%d", uint64(e)>>48, (uint64(e)>>16)&0xFFFFFFFF, uint64(e)&0xFFFF)
}

// ExtendedCommunities is the ordered, multi-valued EXTENDED_COMMUNITY attribute.
type ExtendedCommunities struct {
	Values []*ExtendedCommunity
}

func DecodeExtendedCommunities(data []byte, cacheValues bool) (ExtendedCommunities, error) {
	if len(data)%8 != 0 {
		return ExtendedCommunities{}, malformedCommunity("invalid EXTENDED_COMMUNITY length")
	}
	cs := ExtendedCommunities{Values: make([]*ExtendedCommunity, 0, len(data)/8)}
	for i := 0; i+8 <= len(data); i += 8 {
		v := binary.BigEndian.Uint64(data[i : i+8])
		cs.Values = append(cs.Values, internExtCommunity(v, cacheValues))
	}
	return cs, nil
}

func (c ExtendedCommunities) ID() AttributeId { return AttrExtendedCommunity }

func (c ExtendedCommunities) Encode() []byte {
	buf := make([]byte, 0, len(c.Values)*8)
	for _, v := range c.Values {
		buf = append(buf, v.Encode()...)
	}
	return buf
}

func (c ExtendedCommunities) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
