package packet

import "fmt"

// bgpUpdateMessageError is the NOTIFICATION error code for all path attribute
// codec failures (RFC 4271 section 6.3).
const bgpUpdateMessageError ErrorCore = 3

// Subcodes as this codec's contract defines them (section 6/7): truncation
// and invalid fixed-value attributes share subcode 2, malformed AS_PATH is
// 11, malformed community/extended-community is 1, and a non-negotiated
// family or bad MP next-hop is 0.
const (
	subcodeMalformedAttributeList ErrorSubCode = 2
	subcodeMalformedASPath        ErrorSubCode = 11
	subcodeMalformedCommunity     ErrorSubCode = 1
	subcodeInvalidNLRI            ErrorSubCode = 0
)

// BGPError is a BGP NOTIFICATION code/subcode pair plus a human readable
// reason. It is what the decoder returns on any malformed input, and what a
// RouteFactory failure is wrapped into before it propagates.
type BGPError struct {
	ErrorCode    ErrorCore
	ErrorSubCode ErrorSubCode
	ErrorStr     string
}

func (e BGPError) Error() string {
	return fmt.Sprintf("%s (code %d/%d)", e.ErrorStr, e.ErrorCode, e.ErrorSubCode)
}

func newNotify(code ErrorCore, sub ErrorSubCode, msg string) BGPError {
	return BGPError{ErrorCode: code, ErrorSubCode: sub, ErrorStr: msg}
}

func malformedAttrList(msg string) BGPError {
	return newNotify(bgpUpdateMessageError, subcodeMalformedAttributeList, msg)
}

func malformedASPath(msg string) BGPError {
	return newNotify(bgpUpdateMessageError, subcodeMalformedASPath, msg)
}

func malformedCommunity(msg string) BGPError {
	return newNotify(bgpUpdateMessageError, subcodeMalformedCommunity, msg)
}

func invalidNLRI(msg string) BGPError {
	return newNotify(bgpUpdateMessageError, subcodeInvalidNLRI, msg)
}

// wrapRouteFactoryError lets a RouteFactory failure propagate as a decoder
// failure with the same NOTIFICATION code, per the RouteFactory contract.
func wrapRouteFactoryError(err error) error {
	if be, ok := err.(BGPError); ok {
		return be
	}
	return malformedAttrList(fmt.Sprintf("route factory: %v", err))
}
