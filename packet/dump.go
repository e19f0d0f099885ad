package packet

import (
	"fmt"
	"net"
)

func (b *BGPMessage) Dump() {
	fmt.Printf("Type: %d Length: %d\n", b.Header.Type, b.Header.Length)
	switch b.Header.Type {
	case OpenMsg:
		o := b.Body.(*BGPOpen)
		fmt.Printf("OPEN Message:\n")
		fmt.Printf("\tVersion: %d\n", o.Version)
		fmt.Printf("\tASN: %d\n", o.AS)
		fmt.Printf("\tHoldTime: %d\n", o.HoldTime)
		fmt.Printf("\tBGP Identifier: %d\n", o.BGPIdentifier)
	case UpdateMsg:
		u := b.Body.(*BGPUpdate)

		fmt.Printf("UPDATE Message:\n")
		fmt.Printf("Withdrawn routes:\n")
		for _, r := range u.WithdrawnRoutes {
			x := r.IP.([4]byte)
			fmt.Printf("\t%s/%d\n", net.IP(x[:]).String(), r.Pfxlen)
		}

		fmt.Printf("Path attributes:\n")
		if u.PathAttributes != nil {
			fmt.Printf("\t%s\n", u.PathAttributes.String())
		}

		fmt.Printf("NLRIs:\n")
		for _, n := range u.NLRI {
			x := n.IP.([4]byte)
			fmt.Printf("\t%s/%d\n", net.IP(x[:]).String(), n.Pfxlen)
		}

		for _, r := range u.MPAnnounced {
			fmt.Printf("\tMP announced: %+v\n", r)
		}
		for _, r := range u.MPWithdrawn {
			fmt.Printf("\tMP withdrawn: %+v\n", r)
		}
	}
}
