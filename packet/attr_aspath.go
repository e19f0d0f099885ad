package packet

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ASPathValue is the common shape of AS_PATH and AS4_PATH: an ordered
// AS_SEQUENCE and an unordered AS_SET, plus the raw source-encoded segment
// stream (Index) kept only as an opaque cache key — never reparsed, never
// compared for equality.
type ASPathValue struct {
	AsSeq []ASN
	AsSet []ASN
	Index []byte
}

// AsPath is the classic (possibly 16-bit) AS_PATH attribute.
type AsPath struct {
	ASPathValue
	asnSize int
}

// As4Path is the RFC 4893 AS4_PATH attribute: always 32-bit ASNs, optional
// transitive, carried alongside a 16-bit AS_PATH that uses AS_TRANS.
type As4Path struct {
	ASPathValue
}

func decodeASPathValue(data []byte, asnSize int) (ASPathValue, error) {
	v := ASPathValue{Index: append([]byte{}, data...)}
	i := 0
	for i < len(data) {
		if i+2 > len(data) {
			return ASPathValue{}, malformedASPath("truncated AS_PATH segment header")
		}
		segType := data[i]
		segLen := int(data[i+1])
		i += 2
		if segType != ASSet && segType != ASSequence {
			return ASPathValue{}, malformedASPath("invalid AS_PATH segment type")
		}
		want := segLen * asnSize
		if i+want > len(data) {
			return ASPathValue{}, malformedASPath("truncated AS_PATH segment")
		}
		for j := 0; j < segLen; j++ {
			off := i + j*asnSize
			var asn ASN
			if asnSize == 4 {
				asn = ASN(binary.BigEndian.Uint32(data[off : off+4]))
			} else {
				asn = ASN(binary.BigEndian.Uint16(data[off : off+2]))
			}
			if segType == ASSequence {
				v.AsSeq = append(v.AsSeq, asn)
			} else {
				v.AsSet = append(v.AsSet, asn)
			}
		}
		i += want
	}
	return v, nil
}

func encodeASNSlice(segType uint8, asns []ASN, asnSize int) []byte {
	if len(asns) == 0 {
		return nil
	}
	var out []byte
	for start := 0; start < len(asns); start += 255 {
		end := start + 255
		if end > len(asns) {
			end = len(asns)
		}
		chunk := asns[start:end]
		out = append(out, segType, byte(len(chunk)))
		for _, asn := range chunk {
			if asnSize == 4 {
				b := make([]byte, 4)
				binary.BigEndian.PutUint32(b, uint32(asn))
				out = append(out, b...)
			} else {
				b := make([]byte, 2)
				binary.BigEndian.PutUint16(b, uint16(asn))
				out = append(out, b...)
			}
		}
	}
	return out
}

func encodeASPathValue(v ASPathValue, asnSize int) []byte {
	buf := encodeASNSlice(ASSequence, v.AsSeq, asnSize)
	buf = append(buf, encodeASNSlice(ASSet, v.AsSet, asnSize)...)
	return buf
}

func DecodeAsPath(data []byte, asnSize int) (AsPath, error) {
	v, err := decodeASPathValue(data, asnSize)
	if err != nil {
		return AsPath{}, err
	}
	return AsPath{ASPathValue: v, asnSize: asnSize}, nil
}

func DecodeAs4Path(data []byte) (As4Path, error) {
	v, err := decodeASPathValue(data, 4)
	if err != nil {
		return As4Path{}, err
	}
	return As4Path{ASPathValue: v}, nil
}

func (a AsPath) ID() AttributeId  { return AttrASPath }
func (a As4Path) ID() AttributeId { return AttrAS4Path }

func (a AsPath) width() int {
	if a.asnSize == 0 {
		return 2
	}
	return a.asnSize
}

func (a AsPath) Encode() []byte  { return encodeASPathValue(a.ASPathValue, a.width()) }
func (a As4Path) Encode() []byte { return encodeASPathValue(a.ASPathValue, 4) }

func formatASPath(v ASPathValue) string {
	parts := make([]string, 0, 2)
	if len(v.AsSeq) != 0 {
		seq := make([]string, len(v.AsSeq))
		for i, asn := range v.AsSeq {
			seq[i] = fmt.Sprintf("%d", uint32(asn))
		}
		parts = append(parts, strings.Join(seq, " "))
	}
	if len(v.AsSet) != 0 {
		set := make([]string, len(v.AsSet))
		for i, asn := range v.AsSet {
			set[i] = fmt.Sprintf("%d", uint32(asn))
		}
		parts = append(parts, "{"+strings.Join(set, " ")+"}")
	}
	return strings.Join(parts, " ")
}

func (a AsPath) String() string  { return formatASPath(a.ASPathValue) }
func (a As4Path) String() string { return formatASPath(a.ASPathValue) }

// reconcileAS4 merges a 16-bit AS_PATH containing AS_TRANS placeholders with
// its companion AS4_PATH, per RFC 4893 section 4.2.3. The sequence and set
// halves resolve the length mismatch asymmetrically: if the AS_PATH sequence
// is shorter than the AS4_PATH's, the AS4 contribution to the sequence is
// discarded and the AS_PATH sequence is kept as-is; otherwise the AS4_PATH
// sequence overlays the tail of the AS_PATH one-for-one. The set half does
// the opposite on a length mismatch: a shorter AS_PATH set means the
// AS4_PATH set is taken whole. The merged value's cache key is the composite
// "<seq2>:<seq4>" over the raw Index bytes of each input. Every valid AS_PATH
// encoding has an even length and the composite key an odd one, so it cannot
// collide with any raw wire form.
func reconcileAS4(asPath AsPath, as4Path *As4Path) AsPath {
	if as4Path == nil {
		return asPath
	}

	seq2, seq4 := asPath.AsSeq, as4Path.AsSeq
	set2, set4 := asPath.AsSet, as4Path.AsSet

	var mergedSeq []ASN
	if len(seq2) < len(seq4) {
		mergedSeq = seq2
	} else {
		mergedSeq = append(append([]ASN{}, seq2[:len(seq2)-len(seq4)]...), seq4...)
	}

	var mergedSet []ASN
	if len(set2) < len(set4) {
		mergedSet = set4
	} else {
		mergedSet = append(append([]ASN{}, set2[:len(set2)-len(set4)]...), set4...)
	}

	key := append(append([]byte{}, asPath.Index...), append([]byte(":"), as4Path.Index...)...)

	return AsPath{
		ASPathValue: ASPathValue{AsSeq: mergedSeq, AsSet: mergedSet, Index: key},
		asnSize:     4,
	}
}
