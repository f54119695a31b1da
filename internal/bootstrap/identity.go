package bootstrap

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/jt828/docstore-tracing/pkg/docstore"
)

const userAgent = "docstore-go/0.1.0"

// NodeID derives a stable snowflake node id in [0, 1024) from the pod
// hostname, so replicas never collide on client ids.
func NodeID() (int64, error) {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		return 0, fmt.Errorf("HOSTNAME is not set")
	}

	h := fnv.New64a()
	h.Write([]byte(hostname))
	nodeID := int64(binary.BigEndian.Uint64(h.Sum(nil)) % 1024)

	return nodeID, nil
}

// ClientIdentity assembles the client context stamped onto every operation
// span: a random machine id, a snowflake-derived client id, and the static
// user agent.
func ClientIdentity(endpoint string, mode docstore.ConnectionMode) (docstore.ClientContext, error) {
	nodeID, err := NodeID()
	if err != nil {
		return docstore.ClientContext{}, err
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return docstore.ClientContext{}, err
	}

	return docstore.ClientContext{
		ClientID:  node.Generate().String(),
		MachineID: uuid.NewString(),
		UserAgent: userAgent,
		Endpoint:  endpoint,
		Mode:      mode,
	}, nil
}
