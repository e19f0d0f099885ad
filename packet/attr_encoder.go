package packet

import (
	"encoding/binary"
	"fmt"
)

// EncodeOptions carries the per-peer parameters the encoder needs beyond the
// AttributeSet itself: which ASNs are talking, and whether the peer speaks
// 4-byte ASNs.
type EncodeOptions struct {
	LocalASN     ASN
	PeerASN      ASN
	ASN4Peer     bool
	Autocomplete bool
}

func (o EncodeOptions) ibgp() bool { return o.LocalASN == o.PeerASN }

// canonicalFlags fixes the flag byte each standard attribute is encoded
// with, independent of whatever flags it happened to carry on the wire it
// was decoded from. This is what makes encode() output order-stable and
// byte-identical across AttributeSets with equal contents.
var canonicalFlags = map[AttributeId]Flag{
	AttrOrigin:            FlagTransitive,
	AttrASPath:            FlagTransitive,
	AttrNextHop:           FlagTransitive,
	AttrMED:               FlagOptional,
	AttrLocalPref:         FlagTransitive,
	AttrAtomicAggregate:   FlagTransitive,
	AttrAggregator:        FlagOptional | FlagTransitive,
	AttrAS4Aggregator:     FlagOptional | FlagTransitive,
	AttrCommunity:         FlagOptional | FlagTransitive,
	AttrOriginatorID:      FlagOptional,
	AttrClusterList:       FlagOptional,
	AttrExtendedCommunity: FlagOptional | FlagTransitive,
	AttrAS4Path:           FlagOptional | FlagTransitive,
}

func encodeTLV(flag Flag, code AttributeId, value []byte) []byte {
	if len(value) > 255 {
		flag |= FlagExtendedLength
	}
	buf := []byte{flag.Byte(), byte(code)}
	if flag.IsExtendedLength() {
		lb := make([]byte, 2)
		binary.BigEndian.PutUint16(lb, uint16(len(value)))
		buf = append(buf, lb...)
	} else {
		buf = append(buf, byte(len(value)))
	}
	return append(buf, value...)
}

// encodeASPathForPeer emits an AS_PATH (and, when the peer is not a 4-byte
// speaker and some ASN did not fit into 16 bits, an implicit AS4_PATH
// carrying the original 4-byte values) per RFC 4893's interop rule.
func encodeASPathForPeer(p AsPath, asn4Peer bool) (asPathTLV []byte, as4PathTLV []byte) {
	if asn4Peer {
		asPathTLV = encodeTLV(canonicalFlags[AttrASPath], AttrASPath, encodeASPathValue(p.ASPathValue, 4))
		return asPathTLV, nil
	}

	substituted := false
	seq16 := make([]ASN, len(p.AsSeq))
	for i, asn := range p.AsSeq {
		if asn > 0xFFFF {
			seq16[i] = ASTrans
			substituted = true
		} else {
			seq16[i] = asn
		}
	}
	set16 := make([]ASN, len(p.AsSet))
	for i, asn := range p.AsSet {
		if asn > 0xFFFF {
			set16[i] = ASTrans
			substituted = true
		} else {
			set16[i] = asn
		}
	}

	v16 := ASPathValue{AsSeq: seq16, AsSet: set16}
	asPathTLV = encodeTLV(canonicalFlags[AttrASPath], AttrASPath, encodeASPathValue(v16, 2))

	if substituted {
		as4PathTLV = encodeTLV(canonicalFlags[AttrAS4Path], AttrAS4Path, encodeASPathValue(p.ASPathValue, 4))
	}
	return asPathTLV, as4PathTLV
}

// Encode serializes set in the fixed order interop requires: ORIGIN,
// AS_PATH(+ implicit AS4_PATH), NEXT_HOP, MED, LOCAL_PREF, AGGREGATOR(+
// implicit AS4_AGGREGATOR), ATOMIC_AGGREGATE, COMMUNITY, ORIGINATOR_ID,
// CLUSTER_LIST, EXTENDED_COMMUNITY, then any remaining ids (including
// Unknown) in numeric order.
func Encode(set *AttributeSet, opts EncodeOptions) ([]byte, error) {
	var out []byte
	emitted := map[AttributeId]bool{}

	// 1. ORIGIN
	if a, ok := set.Get(AttrOrigin); ok {
		out = append(out, encodeTLV(canonicalFlags[AttrOrigin], AttrOrigin, a.Encode())...)
	} else if opts.Autocomplete {
		out = append(out, encodeTLV(canonicalFlags[AttrOrigin], AttrOrigin, OriginIGP.Encode())...)
	}
	emitted[AttrOrigin] = true

	// 2. AS_PATH (+ implicit AS4_PATH)
	var path AsPath
	if a, ok := set.Get(AttrASPath); ok {
		path = a.(AsPath)
	} else if opts.Autocomplete {
		if !opts.ibgp() {
			path = AsPath{ASPathValue: ASPathValue{AsSeq: []ASN{opts.LocalASN}}}
		}
	} else {
		return nil, fmt.Errorf("packet: AttributeSet has no AS_PATH and autocomplete is disabled")
	}
	asPathTLV, as4PathTLV := encodeASPathForPeer(path, opts.ASN4Peer)
	out = append(out, asPathTLV...)
	out = append(out, as4PathTLV...)
	emitted[AttrASPath] = true
	emitted[AttrAS4Path] = true

	// 3. NEXT_HOP (classic ipv4/unicast|multicast form only)
	if a, ok := set.Get(AttrNextHop); ok {
		nh := a.(NextHop)
		if nh.Afi == AfiIPv4 && (nh.Safi == SafiUnicast || nh.Safi == SafiMulticast || nh.Safi == SafiUnicastMulticast) {
			out = append(out, encodeTLV(canonicalFlags[AttrNextHop], AttrNextHop, nh.Encode())...)
		}
	}
	emitted[AttrNextHop] = true

	// 4. MED
	if a, ok := set.Get(AttrMED); ok {
		out = append(out, encodeTLV(canonicalFlags[AttrMED], AttrMED, a.Encode())...)
	}
	emitted[AttrMED] = true

	// 5. LOCAL_PREF, iBGP only, defaulting to 100
	if opts.ibgp() {
		if a, ok := set.Get(AttrLocalPref); ok {
			out = append(out, encodeTLV(canonicalFlags[AttrLocalPref], AttrLocalPref, a.Encode())...)
		} else {
			out = append(out, encodeTLV(canonicalFlags[AttrLocalPref], AttrLocalPref, LocalPref(100).Encode())...)
		}
	}
	emitted[AttrLocalPref] = true

	// 6. AGGREGATOR (+ implicit AS4_AGGREGATOR)
	if a, ok := set.Get(AttrAggregator); ok {
		agg := a.(Aggregator)
		if opts.ASN4Peer {
			out = append(out, encodeTLV(canonicalFlags[AttrAggregator], AttrAggregator, agg.encodeWidth(4))...)
		} else if agg.ASN <= 0xFFFF {
			out = append(out, encodeTLV(canonicalFlags[AttrAggregator], AttrAggregator, agg.encodeWidth(2))...)
		} else {
			trans := Aggregator{ASN: ASTrans, RouterID: agg.RouterID}
			out = append(out, encodeTLV(canonicalFlags[AttrAggregator], AttrAggregator, trans.encodeWidth(2))...)
			out = append(out, encodeTLV(canonicalFlags[AttrAS4Aggregator], AttrAS4Aggregator, agg.encodeWidth(4))...)
		}
	}
	emitted[AttrAggregator] = true
	emitted[AttrAS4Aggregator] = true

	// 7. fixed order: ATOMIC_AGGREGATE, COMMUNITY, ORIGINATOR_ID,
	// CLUSTER_LIST, EXTENDED_COMMUNITY
	for _, id := range []AttributeId{AttrAtomicAggregate, AttrCommunity, AttrOriginatorID, AttrClusterList, AttrExtendedCommunity} {
		if a, ok := set.Get(id); ok {
			out = append(out, encodeTLV(canonicalFlags[id], id, a.Encode())...)
		}
		emitted[id] = true
	}

	// 8. anything left over, in id order (includes Unknown); internal
	// pseudo-ids are never stored in entries reachable by sortedIDs.
	for _, id := range set.sortedIDs() {
		if emitted[id] {
			continue
		}
		for _, a := range set.All(id) {
			flag, ok := canonicalFlags[id]
			if !ok {
				if u, isUnknown := a.(Unknown); isUnknown {
					flag = u.Flag
				} else {
					flag = FlagOptional
				}
			}
			out = append(out, encodeTLV(flag, id, a.Encode())...)
		}
	}

	return out, nil
}
