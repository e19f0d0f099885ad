package packet

import (
	"bytes"

	"github.com/taktv6/tflow2/convert"
)

func EncodeKeepaliveMsg() ([]byte, error) {
	keepaliveLen := uint16(19)
	buf := bytes.NewBuffer(make([]byte, 0, keepaliveLen))
	err := encodeHeader(buf, keepaliveLen, KeepaliveMsg)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func EncodeNotificationMsg(msg *BGPNotification) ([]byte, error) {
	notificationLen := uint16(21)
	buf := bytes.NewBuffer(make([]byte, 0, notificationLen))
	err := encodeHeader(buf, notificationLen, NotificationMsg)
	if err != nil {
		return nil, err
	}

	err = buf.WriteByte(uint8(msg.ErrorCode))
	if err != nil {
		return nil, err
	}

	err = buf.WriteByte(uint8(msg.ErrorSubcode))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func EncodeOpenMsg(msg *BGPOpen) ([]byte, error) {
	openLen := uint16(29)
	buf := bytes.NewBuffer(make([]byte, 0, openLen))
	err := encodeHeader(buf, openLen, OpenMsg)
	if err != nil {
		return nil, err
	}

	err = buf.WriteByte(uint8(msg.Version))
	if err != nil {
		return nil, err
	}

	_, err = buf.Write(convert.Uint16Byte(uint16(msg.AS)))
	if err != nil {
		return nil, err
	}

	_, err = buf.Write(convert.Uint16Byte(uint16(msg.HoldTime)))
	if err != nil {
		return nil, err
	}

	_, err = buf.Write(convert.Uint32Byte(uint32(msg.BGPIdentifier)))
	if err != nil {
		return nil, err
	}

	err = buf.WriteByte(uint8(0))
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// EncodeUpdateMsg serializes an UPDATE message: withdrawn routes, the path
// attribute set (via Encode), and the announced NLRI, each length-prefixed
// per RFC 4271 section 4.3.
func EncodeUpdateMsg(withdrawn []NLRI, set *AttributeSet, opts EncodeOptions, nlri []NLRI) ([]byte, error) {
	wdBuf := encodeNLRIs(withdrawn)

	var attrBuf []byte
	if set != nil {
		var err error
		attrBuf, err = Encode(set, opts)
		if err != nil {
			return nil, err
		}
	}

	nlriBuf := encodeNLRIs(nlri)

	msgLen := uint16(MinLen) + 2 + uint16(len(wdBuf)) + 2 + uint16(len(attrBuf)) + uint16(len(nlriBuf))

	buf := bytes.NewBuffer(make([]byte, 0, msgLen))
	if err := encodeHeader(buf, msgLen, UpdateMsg); err != nil {
		return nil, err
	}

	if _, err := buf.Write(convert.Uint16Byte(uint16(len(wdBuf)))); err != nil {
		return nil, err
	}
	if _, err := buf.Write(wdBuf); err != nil {
		return nil, err
	}

	if _, err := buf.Write(convert.Uint16Byte(uint16(len(attrBuf)))); err != nil {
		return nil, err
	}
	if _, err := buf.Write(attrBuf); err != nil {
		return nil, err
	}

	if _, err := buf.Write(nlriBuf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func encodeNLRIs(routes []NLRI) []byte {
	var out []byte
	for _, r := range routes {
		out = append(out, byte(r.Pfxlen))
		addr := r.IP.([4]byte)
		n := (int(r.Pfxlen) + 7) / 8
		out = append(out, addr[:n]...)
	}
	return out
}

func encodeHeader(buf *bytes.Buffer, length uint16, typ uint8) error {
	for i := 0; i < 16; i++ {
		if err := buf.WriteByte(0xff); err != nil {
			return err
		}
	}

	if _, err := buf.Write(convert.Uint16Byte(length)); err != nil {
		return err
	}

	if err := buf.WriteByte(typ); err != nil {
		return err
	}

	return nil
}
