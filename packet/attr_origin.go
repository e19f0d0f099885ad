package packet

// Origin is the well-known mandatory ORIGIN attribute: one byte on the wire.
type Origin uint8

const (
	OriginIGP        Origin = 0
	OriginEGP        Origin = 1
	OriginIncomplete Origin = 2
)

// DecodeOrigin requires exactly one byte with a value in {0,1,2}.
func DecodeOrigin(data []byte) (Origin, error) {
	if len(data) != 1 {
		return 0, malformedAttrList("invalid ORIGIN length")
	}
	o := Origin(data[0])
	if o != OriginIGP && o != OriginEGP && o != OriginIncomplete {
		return 0, malformedAttrList("invalid ORIGIN value")
	}
	return o, nil
}

func (o Origin) ID() AttributeId { return AttrOrigin }
func (o Origin) Encode() []byte  { return []byte{byte(o)} }

func (o Origin) String() string {
	switch o {
	case OriginIGP:
		return "IGP"
	case OriginEGP:
		return "EGP"
	default:
		return "INCOMPLETE"
	}
}
