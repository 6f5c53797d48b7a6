package blocks

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// key derives a short stable key so re-running an import yields identical bodies
func key(parts ...string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(strings.Join(parts, "/")))
	return strings.ReplaceAll(id.String(), "-", "")[:12]
}

func assignKeys(bs []Block) {
	for i := range bs {
		bs[i].Key = key(strconv.Itoa(i), bs[i].Type)
		for j := range bs[i].Children {
			bs[i].Children[j].Key = key(bs[i].Key, strconv.Itoa(j))
		}
	}
}
