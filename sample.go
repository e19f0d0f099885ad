package main

// sampleUpdates returns a handful of canned UPDATE message buffers (full
// BGP messages, marker + header + body) used to drive the demo feed. The
// path-attribute bytes mirror the scenarios this codec is tested against: a
// bare ORIGIN, and an ORIGIN+AS_PATH+NEXT_HOP announcing 10.0.0.0/8.
func sampleUpdates() [][]byte {
	marker := bytes16(0xff)

	origin := []byte{
		0x40, 0x01, 0x01, 0x00, // ORIGIN = IGP
	}
	msg1Body := append([]byte{0, 0}, append(append([]byte{}, lenBytes(uint16(len(origin)))...), origin...)...)
	msg1 := buildMessage(marker, 2, msg1Body)

	attrs := []byte{
		0x40, 0x01, 0x01, 0x00, // ORIGIN = IGP
		0x40, 0x02, 0x06, 0x02, 0x01, 0x00, 0x01, 0x00, 0x04, // AS_PATH seq[65540]
		0x40, 0x03, 0x04, 10, 0, 0, 1, // NEXT_HOP 10.0.0.1
	}
	nlri := []byte{8, 10} // 10.0.0.0/8
	msg2Body := append([]byte{0, 0}, append(append([]byte{}, lenBytes(uint16(len(attrs)))...), append(attrs, nlri...)...)...)
	msg2 := buildMessage(marker, 2, msg2Body)

	return [][]byte{msg1, msg2}
}

func bytes16(b byte) []byte {
	out := make([]byte, 16)
	for i := range out {
		out[i] = b
	}
	return out
}

func lenBytes(n uint16) []byte {
	return []byte{byte(n >> 8), byte(n)}
}

func buildMessage(marker []byte, msgType uint8, body []byte) []byte {
	length := uint16(19 + len(body))
	out := append([]byte{}, marker...)
	out = append(out, lenBytes(length)...)
	out = append(out, msgType)
	out = append(out, body...)
	return out
}
