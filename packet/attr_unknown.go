package packet

import "fmt"

// Unknown carries an attribute type code this codec does not recognize. Its
// raw payload and flags are kept verbatim so it can be re-emitted unchanged;
// the partial bit is not altered.
type Unknown struct {
	Code AttributeId
	Flag Flag
	Raw  []byte
}

func (u Unknown) ID() AttributeId { return u.Code }
func (u Unknown) Encode() []byte  { return append([]byte{}, u.Raw...) }

func (u Unknown) String() string {
	return fmt.Sprintf("0x%02x:%x", uint8(u.Code), u.Raw)
}
