// Command pathattr is a small demo that feeds a canned stream of BGP UPDATE
// messages through the path attribute codec and prints what the decoder and
// an LPM-backed RouteFactory made of each one. It exercises the codec end to
// end, the way a real peer session would drive it, without pulling in the
// TCP session state machine.
package main

import (
	"bytes"
	"fmt"

	"github.com/golang/glog"
	log "github.com/sirupsen/logrus"
	tomb "gopkg.in/tomb.v2"

	"github.com/taktv6/pathattr/lpm"
	bgpnet "github.com/taktv6/pathattr/net"
	"github.com/taktv6/pathattr/packet"
)

// lpmRouteFactory parses classic ipv4/unicast NLRI (`<pfxlen:u8><addr bytes>`)
// into the lpm package's prefix tree; it is the RouteFactory collaborator
// the decoder calls out to for MP_REACH_NLRI/MP_UNREACH_NLRI entries.
type lpmRouteFactory struct {
	tree *lpm.LPM
}

func (f *lpmRouteFactory) MakeRoute(afi packet.Afi, safi packet.Safi, nextHop []byte, remaining []byte, addPath bool, direction packet.Direction) (packet.Route, error) {
	if afi != packet.AfiIPv4 || safi != packet.SafiUnicast {
		return packet.Route{}, fmt.Errorf("route factory only handles ipv4/unicast, got (%d,%d)", afi, safi)
	}
	if len(remaining) < 1 {
		return packet.Route{}, fmt.Errorf("truncated NLRI")
	}

	pfxlen := remaining[0]
	addrLen := int(pfxlen+7) / 8
	if len(remaining) < 1+addrLen {
		return packet.Route{}, fmt.Errorf("truncated NLRI prefix bytes")
	}

	var addrBytes [4]byte
	copy(addrBytes[:], remaining[1:1+addrLen])
	addr := uint32(addrBytes[0])<<24 | uint32(addrBytes[1])<<16 | uint32(addrBytes[2])<<8 | uint32(addrBytes[3])
	pfx := bgpnet.NewPfx(addr, pfxlen)

	if direction == packet.DirectionAnnounced {
		f.tree.Insert(pfx)
	}

	return packet.Route{
		Afi:       afi,
		Safi:      safi,
		Direction: direction,
		NLRI:      remaining[:1+addrLen],
		Consumed:  1 + addrLen,
	}, nil
}

// feed runs under a tomb.Tomb so the demo has the same supervised-goroutine
// shutdown path a real peer connection loop uses: Kill an error, everyone
// downstream sees it through Dying()/Err().
func feed(t *tomb.Tomb, buffers [][]byte, ctx *packet.AttributeDecodeContext) error {
	for i, raw := range buffers {
		select {
		case <-t.Dying():
			return tomb.ErrDying
		default:
		}

		buf := bytes.NewBuffer(raw)
		msg, err := packet.Decode(buf, ctx)
		if err != nil {
			log.WithFields(log.Fields{"buffer": i}).Warn("failed to decode BGP message")
			continue
		}
		msg.Dump()
	}
	return nil
}

func main() {
	neg := packet.NewSimpleNegotiated(true, packet.Family{Afi: packet.AfiIPv4, Safi: packet.SafiUnicast})
	rf := &lpmRouteFactory{tree: lpm.New()}
	ctx := &packet.AttributeDecodeContext{
		Negotiated:   neg,
		RouteFactory: rf,
		Options:      packet.DecodeOptions{CacheAttributes: true},
	}

	buffers := sampleUpdates()

	var t tomb.Tomb
	t.Go(func() error {
		return feed(&t, buffers, ctx)
	})

	if err := t.Wait(); err != nil {
		glog.Exitf("feed goroutine failed: %v", err)
	}
}
