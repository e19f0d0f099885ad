package packet

import (
	"fmt"
	"net"
)

// NextHop is the classic (non-MP) NEXT_HOP attribute. It is always IPv4 and
// always Unicast/Multicast; the MP-BGP next hop carried inside MP_REACH_NLRI
// uses the same struct shape with whatever Afi/Safi the family negotiated.
type NextHop struct {
	Afi  Afi
	Safi Safi
	Addr []byte
}

// DecodeNextHop requires exactly 4 bytes: the classic attribute never carries
// an IPv6 or VPN next hop.
func DecodeNextHop(data []byte) (NextHop, error) {
	if len(data) != 4 {
		return NextHop{}, malformedAttrList("invalid NEXT_HOP length")
	}
	addr := make([]byte, 4)
	copy(addr, data)
	return NextHop{Afi: AfiIPv4, Safi: SafiUnicastMulticast, Addr: addr}, nil
}

func (n NextHop) ID() AttributeId { return AttrNextHop }
func (n NextHop) Encode() []byte {
	buf := make([]byte, len(n.Addr))
	copy(buf, n.Addr)
	return buf
}

func (n NextHop) String() string {
	return fmt.Sprintf("%s", net.IP(n.Addr).String())
}
