package packet

import (
	"encoding/binary"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// DecodeOptions controls policy decisions orthogonal to wire correctness.
type DecodeOptions struct {
	// CacheAttributes enables interning of successfully decoded atoms, both
	// through the per-id Cache and through the individual Community/
	// ExtendedCommunity value caches.
	CacheAttributes bool
}

// DecodeAttributes parses the Path Attributes field of a BGP UPDATE message.
// It consumes `data` iteratively (a cursor, not recursion, so decode time
// scales with a loop rather than with call-stack depth) and returns the
// resulting AttributeSet plus the routes any MP_REACH/MP_UNREACH produced
// through rf. AS4 reconciliation runs once the whole field has been walked.
func DecodeAttributes(data []byte, neg Negotiated, rf RouteFactory, opts DecodeOptions) (*AttributeSet, []Route, []Route, error) {
	set := NewAttributeSet()
	var announced, withdrawn []Route
	var as4Path *As4Path

	for len(data) > 0 {
		if len(data) < 2 {
			return nil, nil, nil, malformedAttrList("truncated attribute header")
		}
		flag := FlagFromByte(data[0])
		code := AttributeId(data[1])
		data = data[2:]

		var length int
		if flag.IsExtendedLength() {
			if len(data) < 2 {
				return nil, nil, nil, malformedAttrList("truncated extended length")
			}
			length = int(binary.BigEndian.Uint16(data[:2]))
			data = data[2:]
		} else {
			if len(data) < 1 {
				return nil, nil, nil, malformedAttrList("truncated length")
			}
			length = int(data[0])
			data = data[1:]
		}
		if len(data) < length {
			return nil, nil, nil, malformedAttrList("attribute value exceeds remaining buffer")
		}
		value := data[:length]
		data = data[length:]

		isMP := code == AttrMPReachNLRI || code == AttrMPUnreachNLRI
		set.noteDecoded(code, isMP)

		switch code {
		case AttrOrigin:
			if a, ok := cacheLookup(AttrOrigin, value); ok {
				set.Insert(a)
				continue
			}
			o, err := DecodeOrigin(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(o)
			if opts.CacheAttributes {
				cacheInsert(AttrOrigin, value, o)
			}

		case AttrASPath:
			if set.Has(AttrASPath) {
				continue
			}
			if a, ok := cacheLookup(AttrASPath, value); ok {
				set.Insert(a)
				continue
			}
			asnSize := 2
			if neg.ASN4() {
				asnSize = 4
			}
			p, err := DecodeAsPath(value, asnSize)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(p)
			if opts.CacheAttributes {
				cacheInsert(AttrASPath, value, p)
			}

		case AttrAS4Path:
			if neg.ASN4() {
				// RFC 4893 section 4.1: new speakers MUST NOT send or
				// process AS4_PATH between themselves.
				continue
			}
			p, err := DecodeAs4Path(value)
			if err != nil {
				return nil, nil, nil, err
			}
			as4Path = &p

		case AttrNextHop:
			nh, err := DecodeNextHop(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(nh)

		case AttrMED:
			if a, ok := cacheLookup(AttrMED, value); ok {
				set.Insert(a)
				continue
			}
			m, err := DecodeMed(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(m)
			if opts.CacheAttributes {
				cacheInsert(AttrMED, value, m)
			}

		case AttrLocalPref:
			if a, ok := cacheLookup(AttrLocalPref, value); ok {
				set.Insert(a)
				continue
			}
			l, err := DecodeLocalPref(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(l)
			if opts.CacheAttributes {
				cacheInsert(AttrLocalPref, value, l)
			}

		case AttrOriginatorID:
			if a, ok := cacheLookup(AttrOriginatorID, value); ok {
				set.Insert(a)
				continue
			}
			o, err := DecodeOriginatorID(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(o)
			if opts.CacheAttributes {
				cacheInsert(AttrOriginatorID, value, o)
			}

		case AttrClusterList:
			if a, ok := cacheLookup(AttrClusterList, value); ok {
				set.Insert(a)
				continue
			}
			cl, err := DecodeClusterList(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(cl)
			if opts.CacheAttributes {
				cacheInsert(AttrClusterList, value, cl)
			}

		case AttrCommunity:
			cs, err := DecodeCommunities(value, opts.CacheAttributes)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(cs)

		case AttrExtendedCommunity:
			cs, err := DecodeExtendedCommunities(value, opts.CacheAttributes)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(cs)

		case AttrAtomicAggregate:
			if a, ok := cacheLookup(AttrAtomicAggregate, value); ok {
				set.Insert(a)
				continue
			}
			aa, err := DecodeAtomicAggregate(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(aa)

		case AttrAggregator:
			if set.Has(AttrAggregator) {
				continue
			}
			a, err := DecodeAggregator(value)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(a)

		case AttrAS4Aggregator:
			a, err := DecodeAggregator(value)
			if err != nil {
				return nil, nil, nil, err
			}
			// Stored under AGGREGATOR's key: if a 2-byte AGGREGATOR already
			// landed this replaces it, the AS4 variant always wins in value.
			set.Insert(Aggregator{ASN: a.ASN, RouterID: a.RouterID, width: 4})

		case AttrMPUnreachNLRI:
			routes, err := decodeMPUnreach(value, neg, rf)
			if err != nil {
				return nil, nil, nil, err
			}
			withdrawn = append(withdrawn, routes...)

		case AttrMPReachNLRI:
			routes, nextHop, err := decodeMPReach(value, neg, rf)
			if err != nil {
				return nil, nil, nil, err
			}
			set.Insert(nextHop)
			announced = append(announced, routes...)

		default:
			if flag.IsTransitive() {
				set.Insert(Unknown{Code: code, Flag: flag, Raw: append([]byte{}, value...)})
			} else {
				log.WithFields(log.Fields{
					"code": uint8(code),
					"flag": flag.Byte(),
				}).Debug("dropping unknown non-transitive path attribute")
			}
		}
	}

	if p, ok := set.Get(AttrASPath); ok {
		merged := reconcileAS4(p.(AsPath), as4Path)
		set.Insert(merged)
	} else if as4Path != nil {
		// An AS4_PATH with no companion AS_PATH has nothing to reconcile
		// against; treat its sequence as the path itself.
		set.Insert(AsPath{ASPathValue: as4Path.ASPathValue, asnSize: 4})
	}
	set.Remove(AttrAS4Path)

	return set, announced, withdrawn, nil
}

func decodeMPUnreach(value []byte, neg Negotiated, rf RouteFactory) ([]Route, error) {
	if len(value) < 3 {
		return nil, invalidNLRI("truncated MP_UNREACH_NLRI header")
	}
	afi := Afi(binary.BigEndian.Uint16(value[:2]))
	safi := Safi(value[2])
	rest := value[3:]

	if !neg.HasFamily(afi, safi) {
		return nil, invalidNLRI(fmt.Sprintf("family (%d,%d) not negotiated", afi, safi))
	}
	addPath := neg.AddPathReceive(afi, safi)

	if len(rest) == 0 {
		return []Route{RouteEOR(afi, safi)}, nil
	}

	var routes []Route
	for len(rest) > 0 {
		route, err := rf.MakeRoute(afi, safi, nil, rest, addPath, DirectionWithdrawn)
		if err != nil {
			return nil, wrapRouteFactoryError(err)
		}
		if route.Consumed <= 0 || route.Consumed > len(rest) {
			return nil, invalidNLRI("route factory consumed an invalid byte count")
		}
		routes = append(routes, route)
		rest = rest[route.Consumed:]
	}
	return routes, nil
}

// validateMPNextHopLen reports whether n is a next-hop length RFC 4760 and
// RFC 4364 allow for (afi,safi), and the offset at which the address starts.
// ipv6/unicast may carry 16 (global only) or 32 (global + link-local) bytes;
// mpls_vpn families are prefixed by an 8-byte RD, which the caller checks is
// zero.
func validateMPNextHopLen(afi Afi, safi Safi, n int) (addrOffset int, ok bool) {
	switch {
	case afi == AfiIPv4 && (safi == SafiUnicast || safi == SafiMulticast):
		return 0, n == 4
	case afi == AfiIPv4 && safi == SafiMPLSVPN:
		return 8, n == 12
	case afi == AfiIPv6 && safi == SafiUnicast:
		return 0, n == 16 || n == 32
	case afi == AfiIPv6 && safi == SafiMPLSVPN:
		return 8, n == 24 || n == 40
	default:
		return 0, false
	}
}

func decodeMPReach(value []byte, neg Negotiated, rf RouteFactory) ([]Route, NextHop, error) {
	if len(value) < 4 {
		return nil, NextHop{}, invalidNLRI("truncated MP_REACH_NLRI header")
	}
	afi := Afi(binary.BigEndian.Uint16(value[:2]))
	safi := Safi(value[2])
	nhLen := int(value[3])
	value = value[4:]

	if !neg.HasFamily(afi, safi) {
		return nil, NextHop{}, invalidNLRI(fmt.Sprintf("family (%d,%d) not negotiated", afi, safi))
	}

	addrOffset, ok := validateMPNextHopLen(afi, safi, nhLen)
	if !ok {
		return nil, NextHop{}, invalidNLRI(fmt.Sprintf("invalid MP_REACH_NLRI next-hop length %d", nhLen))
	}
	if len(value) < nhLen+1 {
		return nil, NextHop{}, invalidNLRI("truncated MP_REACH_NLRI next-hop/reserved")
	}
	rd := value[:addrOffset]
	for _, b := range rd {
		if b != 0 {
			return nil, NextHop{}, invalidNLRI("non-zero route distinguisher in MP_REACH_NLRI next-hop")
		}
	}
	addr := append([]byte{}, value[addrOffset:nhLen]...)
	value = value[nhLen:]

	if value[0] != 0 {
		return nil, NextHop{}, invalidNLRI("non-zero MP_REACH_NLRI reserved byte")
	}
	rest := value[1:]

	nextHop := NextHop{Afi: afi, Safi: safi, Addr: addr}
	addPath := neg.AddPathReceive(afi, safi)

	var routes []Route
	for len(rest) > 0 {
		route, err := rf.MakeRoute(afi, safi, addr, rest, addPath, DirectionAnnounced)
		if err != nil {
			return nil, NextHop{}, wrapRouteFactoryError(err)
		}
		if route.Consumed <= 0 || route.Consumed > len(rest) {
			return nil, NextHop{}, invalidNLRI("route factory consumed an invalid byte count")
		}
		routes = append(routes, route)
		rest = rest[route.Consumed:]
	}
	return routes, nextHop, nil
}
