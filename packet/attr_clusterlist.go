package packet

import (
	"net"
	"strings"
)

// ClusterList is the (optional, non-transitive) CLUSTER_LIST attribute: an
// ordered list of 4-byte cluster ids a route reflected UPDATE has passed
// through (RFC 4456).
type ClusterList struct {
	IDs [][4]byte
}

func DecodeClusterList(data []byte) (ClusterList, error) {
	if len(data)%4 != 0 {
		return ClusterList{}, malformedAttrList("invalid CLUSTER_LIST length")
	}
	cl := ClusterList{IDs: make([][4]byte, 0, len(data)/4)}
	for i := 0; i+4 <= len(data); i += 4 {
		var id [4]byte
		copy(id[:], data[i:i+4])
		cl.IDs = append(cl.IDs, id)
	}
	return cl, nil
}

func (c ClusterList) ID() AttributeId { return AttrClusterList }

func (c ClusterList) Encode() []byte {
	buf := make([]byte, 0, len(c.IDs)*4)
	for _, id := range c.IDs {
		buf = append(buf, id[:]...)
	}
	return buf
}

func (c ClusterList) String() string {
	parts := make([]string, len(c.IDs))
	for i, id := range c.IDs {
		parts[i] = net.IP(id[:]).String()
	}
	return strings.Join(parts, " ")
}
