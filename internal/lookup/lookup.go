package lookup

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"FlowTally/internal/model"
)

// Row is one raw lookup table row as produced by the loader.
type Row struct {
	DstPort  string
	Protocol string
	Tag      string
}

// Index is an immutable mapping from (destination port, lowercase protocol
// name) to tag. Safe for unsynchronized concurrent reads.
type Index struct {
	tags map[model.ComboKey]string
}

// New builds an index from raw lookup rows. Protocol values are lowercased
// before indexing so case differences in source data never cause a miss.
// Rows with a non-numeric port or an empty tag are skipped with a warning.
// When the same (port, protocol) key appears more than once, the last row
// wins. An index with zero usable entries is an error.
func New(rows []Row) (*Index, error) {
	tags := make(map[model.ComboKey]string, len(rows))
	for _, row := range rows {
		port, err := strconv.Atoi(strings.TrimSpace(row.DstPort))
		if err != nil || port < 0 {
			log.Printf("Skipping lookup row with invalid port: %q", row.DstPort)
			continue
		}
		tag := strings.TrimSpace(row.Tag)
		if tag == "" {
			log.Printf("Skipping lookup row with empty tag for port %d", port)
			continue
		}
		key := model.ComboKey{
			DstPort:  port,
			Protocol: strings.ToLower(strings.TrimSpace(row.Protocol)),
		}
		tags[key] = tag
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("lookup table is empty")
	}
	return &Index{tags: tags}, nil
}

// Lookup returns the tag configured for a (port, protocol) pair. The protocol
// argument is case-normalized to match construction-time normalization.
func (i *Index) Lookup(port int, protocol string) (string, bool) {
	tag, ok := i.tags[model.ComboKey{DstPort: port, Protocol: strings.ToLower(protocol)}]
	return tag, ok
}

// Len returns the number of indexed (port, protocol) keys.
func (i *Index) Len() int {
	return len(i.tags)
}
