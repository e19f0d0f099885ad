package packet

import (
	"fmt"

	"github.com/taktv6/tflow2/convert"
)

// Med is the (optional, non-transitive) MULTI_EXIT_DISC attribute.
type Med uint32

func DecodeMed(data []byte) (Med, error) {
	if len(data) != 4 {
		return 0, malformedAttrList("invalid MED length")
	}
	return Med(convert.Uint32b(data)), nil
}

func (m Med) ID() AttributeId { return AttrMED }
func (m Med) Encode() []byte  { return convert.Uint32Byte(uint32(m)) }
func (m Med) String() string  { return fmt.Sprintf("%d", uint32(m)) }

// LocalPref is the (well-known discretionary, iBGP-only) LOCAL_PREF attribute.
type LocalPref uint32

func DecodeLocalPref(data []byte) (LocalPref, error) {
	if len(data) != 4 {
		return 0, malformedAttrList("invalid LOCAL_PREF length")
	}
	return LocalPref(convert.Uint32b(data)), nil
}

func (l LocalPref) ID() AttributeId { return AttrLocalPref }
func (l LocalPref) Encode() []byte  { return convert.Uint32Byte(uint32(l)) }
func (l LocalPref) String() string  { return fmt.Sprintf("%d", uint32(l)) }
