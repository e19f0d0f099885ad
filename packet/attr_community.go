package packet

import (
	"fmt"
	"strings"

	"github.com/taktv6/tflow2/convert"
)

// Community is a 32 bit opaque value (RFC 1997). Every decoded Community is
// interned through internCommunity so identical values across different
// routes share one pointer.
type Community uint32

func (c Community) ID() AttributeId { return 0 } // never stored as a bare Atom; see Communities
func (c Community) Encode() []byte  { return convert.Uint32Byte(uint32(c)) }

func (c Community) String() string {
	return fmt.Sprintf("%d:%d", uint32(c)>>16, uint32(c)&0xFFFF)
}

// Communities is the ordered, multi-valued COMMUNITY attribute.
type Communities struct {
	Values []*Community
}

func DecodeCommunities(data []byte, cacheValues bool) (Communities, error) {
	if len(data)%4 != 0 {
		return Communities{}, malformedCommunity("invalid COMMUNITY length")
	}
	cs := Communities{Values: make([]*Community, 0, len(data)/4)}
	for i := 0; i+4 <= len(data); i += 4 {
		v := convert.Uint32b(data[i : i+4])
		cs.Values = append(cs.Values, internCommunity(v, cacheValues))
	}
	return cs, nil
}

func (c Communities) ID() AttributeId { return AttrCommunity }

func (c Communities) Encode() []byte {
	buf := make([]byte, 0, len(c.Values)*4)
	for _, v := range c.Values {
		buf = append(buf, v.Encode()...)
	}
	return buf
}

func (c Communities) String() string {
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
