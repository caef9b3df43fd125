package registry

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Row is one raw protocol reference row as produced by the loader.
type Row struct {
	Decimal string
	Keyword string
}

// Registry is an immutable mapping from IANA protocol number to lowercase
// canonical protocol name. Safe for unsynchronized concurrent reads.
type Registry struct {
	names map[int]string
}

// New builds a registry from raw reference rows. Names are lowercased, rows
// with a non-numeric or negative number are skipped with a warning, and
// duplicate numbers follow last-write-wins. A registry with zero usable
// entries is an error: classification would reject every record.
func New(rows []Row) (*Registry, error) {
	names := make(map[int]string, len(rows))
	for _, row := range rows {
		num, err := strconv.Atoi(strings.TrimSpace(row.Decimal))
		if err != nil || num < 0 {
			log.Printf("Skipping invalid protocol entry: %q -> %q", row.Decimal, row.Keyword)
			continue
		}
		names[num] = strings.ToLower(strings.TrimSpace(row.Keyword))
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no valid protocol mappings found")
	}
	return &Registry{names: names}, nil
}

// Resolve returns the canonical lowercase name for a protocol number.
func (r *Registry) Resolve(number int) (string, bool) {
	name, ok := r.names[number]
	return name, ok
}

// Len returns the number of registered protocols.
func (r *Registry) Len() int {
	return len(r.names)
}
