package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeAsPathTwoByte(t *testing.T) {
	seqOnly := []byte{2, 2, 59, 65, 12, 248} // AS_SEQUENCE [15169, 3320]
	p, err := DecodeAsPath(seqOnly, 2)
	assert.NoError(t, err)
	assert.Equal(t, []ASN{15169, 3320}, p.AsSeq)
	assert.Empty(t, p.AsSet)
	assert.Equal(t, seqOnly, p.Encode())
}

func TestDecodeAsPathSetAndSequence(t *testing.T) {
	data := []byte{
		2, 1, 0, 100, // AS_SEQUENCE [100]
		1, 2, 0, 200, 0, 201, // AS_SET [200, 201]
	}
	p, err := DecodeAsPath(data, 2)
	assert.NoError(t, err)
	assert.Equal(t, []ASN{100}, p.AsSeq)
	assert.Equal(t, []ASN{200, 201}, p.AsSet)
	assert.Equal(t, "100 {200 201}", p.String())
}

func TestDecodeAsPathInvalidSegmentType(t *testing.T) {
	_, err := DecodeAsPath([]byte{3, 1, 0, 1}, 2)
	if assert.Error(t, err) {
		be := err.(BGPError)
		assert.Equal(t, subcodeMalformedASPath, be.ErrorSubCode)
	}
}

func TestDecodeAsPathTruncated(t *testing.T) {
	_, err := DecodeAsPath([]byte{2, 2, 0, 1}, 2)
	assert.Error(t, err)
}

func TestReconcileAS4LongerAsPath(t *testing.T) {
	asPath := AsPath{ASPathValue: ASPathValue{AsSeq: []ASN{ASTrans, ASTrans, 300}, Index: []byte("a")}}
	as4 := As4Path{ASPathValue: ASPathValue{AsSeq: []ASN{70000, 80000}, Index: []byte("b")}}

	merged := reconcileAS4(asPath, &as4)
	assert.Equal(t, []ASN{ASTrans, 70000, 80000}, merged.AsSeq)
}

func TestReconcileAS4ShorterAsPath(t *testing.T) {
	// when the 16-bit AS_PATH's sequence is shorter than the AS4_PATH's, the
	// AS4 contribution to the sequence is discarded and the 16-bit sequence
	// is kept as-is (RFC 4893 section 4.2.3's asymmetric rule: the set half
	// behaves the opposite way, see TestReconcileAS4SetMerge).
	asPath := AsPath{ASPathValue: ASPathValue{AsSeq: []ASN{ASTrans}}}
	as4 := As4Path{ASPathValue: ASPathValue{AsSeq: []ASN{70000, 80000, 90000}}}

	merged := reconcileAS4(asPath, &as4)
	assert.Equal(t, []ASN{ASTrans}, merged.AsSeq)
}

func TestReconcileAS4NoCompanion(t *testing.T) {
	asPath := AsPath{ASPathValue: ASPathValue{AsSeq: []ASN{100}}}
	merged := reconcileAS4(asPath, nil)
	assert.Equal(t, asPath, merged)
}

func TestReconcileAS4SetMerge(t *testing.T) {
	asPath := AsPath{ASPathValue: ASPathValue{AsSet: []ASN{ASTrans}}}
	as4 := As4Path{ASPathValue: ASPathValue{AsSet: []ASN{70000}}}

	merged := reconcileAS4(asPath, &as4)
	assert.Equal(t, []ASN{70000}, merged.AsSet)
}
