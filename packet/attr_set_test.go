package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeSetCacheableStartsTrue(t *testing.T) {
	set := NewAttributeSet()
	assert.True(t, set.Cacheable())
}

// TestAttributeSetCacheableFlipsAfterMPThenNonMP: once an MP_REACH/UNREACH
// has been consumed, any non-MP attribute decoded afterwards flips the set
// permanently uncacheable.
func TestAttributeSetCacheableFlipsAfterMPThenNonMP(t *testing.T) {
	set := NewAttributeSet()
	set.noteDecoded(AttrMPReachNLRI, true)
	assert.True(t, set.Cacheable(), "seeing MP alone must not flip cacheable")

	set.noteDecoded(AttrOrigin, false)
	assert.False(t, set.Cacheable(), "a non-MP attribute following MP must flip cacheable")
}

// TestAttributeSetCacheableUnaffectedByNonMPBeforeMP: non-MP attributes
// decoded before any MP_REACH/UNREACH leave the set cacheable.
func TestAttributeSetCacheableUnaffectedByNonMPBeforeMP(t *testing.T) {
	set := NewAttributeSet()
	set.noteDecoded(AttrOrigin, false)
	set.noteDecoded(AttrMED, false)
	assert.True(t, set.Cacheable())

	set.noteDecoded(AttrMPReachNLRI, true)
	assert.True(t, set.Cacheable(), "MP with nothing non-MP after it must not flip cacheable")
}

// TestAttributeSetCacheableStaysFalseOnceFlipped: the flip is sticky; further
// MP_REACH/UNREACH attributes do not reset cacheable back to true.
func TestAttributeSetCacheableStaysFalseOnceFlipped(t *testing.T) {
	set := NewAttributeSet()
	set.noteDecoded(AttrMPReachNLRI, true)
	set.noteDecoded(AttrOrigin, false)
	assert.False(t, set.Cacheable())

	set.noteDecoded(AttrMPUnreachNLRI, true)
	assert.False(t, set.Cacheable(), "cacheable flip must stay sticky across further MP attributes")
}

func TestAttributeSetInsertMultiAppendsInOrder(t *testing.T) {
	set := NewAttributeSet()
	set.InsertMulti(Med(1))
	set.InsertMulti(Med(2))

	all := set.All(AttrMED)
	if assert.Len(t, all, 2) {
		assert.Equal(t, Med(1), all[0])
		assert.Equal(t, Med(2), all[1])
	}

	first, ok := set.Get(AttrMED)
	assert.True(t, ok)
	assert.Equal(t, Med(1), first)
}

func TestAttributeSetInsertReplacesSingleValued(t *testing.T) {
	set := NewAttributeSet()
	set.Insert(Med(1))
	set.Insert(Med(2))

	all := set.All(AttrMED)
	assert.Len(t, all, 1)
	v, _ := set.Get(AttrMED)
	assert.Equal(t, Med(2), v)
}

func TestAttributeSetRemove(t *testing.T) {
	set := NewAttributeSet()
	set.Insert(Origin(OriginIGP))
	assert.True(t, set.Has(AttrOrigin))

	set.Remove(AttrOrigin)
	assert.False(t, set.Has(AttrOrigin))
	_, ok := set.Get(AttrOrigin)
	assert.False(t, ok)
}

func TestAttributeSetSortedIDsSkipsInternalIDs(t *testing.T) {
	set := NewAttributeSet()
	set.Insert(Origin(OriginIGP))
	set.Insert(Med(1))
	set.Insert(Unknown{Code: attrInternalWatchdog, Flag: FlagTransitive})

	ids := set.sortedIDs()
	assert.Equal(t, []AttributeId{AttrOrigin, AttrMED}, ids)
}

func TestAttributeSetStringUnknownAttribute(t *testing.T) {
	set := NewAttributeSet()
	u := Unknown{Flag: FlagOptional | FlagTransitive, Code: 200, Raw: []byte{0xaa, 0xbb}}
	set.Insert(u)

	s := set.String()
	assert.Contains(t, s, "attribute [ 0xc0 0xc8 aabb ]")
}

func TestAttributeSetJSONListAndBoolean(t *testing.T) {
	set := NewAttributeSet()
	set.Insert(AtomicAggregate{})
	set.Insert(AsPath{ASPathValue: ASPathValue{AsSeq: []ASN{100, 200}}})

	j := set.JSON()
	assert.Contains(t, j, `"atomic-aggregate": true`)
	assert.Contains(t, j, `"as-path": ["100 200"]`)
}
