package model

// Field positions of the 14 whitespace-delimited fields in a version 2
// flow log record.
const (
	FieldVersion = iota
	FieldAccountID
	FieldInterfaceID
	FieldSrcAddr
	FieldDstAddr
	FieldSrcPort
	FieldDstPort
	FieldProtocol
	FieldPackets
	FieldBytes
	FieldStart
	FieldEnd
	FieldAction
	FieldLogStatus

	// FieldCount is the exact number of fields a record must carry.
	FieldCount = 14
)

// SupportedVersion is the only flow log schema version the classifier accepts.
const SupportedVersion = "2"

// UntaggedTag is the reserved tag assigned to valid records whose
// (port, protocol) pair has no lookup table entry.
const UntaggedTag = "Untagged"

// RejectReason identifies why a record was rejected by the classifier.
type RejectReason string

const (
	RejectFieldCount         RejectReason = "field-count"
	RejectUnsupportedVersion RejectReason = "unsupported-version"
	RejectNoData             RejectReason = "no-data"
	RejectBadPort            RejectReason = "bad-port"
	RejectUnknownProtocol    RejectReason = "unknown-protocol"
)

// OutcomeKind distinguishes the three classification results.
type OutcomeKind int

const (
	KindRejected OutcomeKind = iota
	KindUntagged
	KindTagged
)

// Outcome is the result of classifying a single flow log record.
// Port and Protocol are set for Tagged and Untagged outcomes,
// Tag only for Tagged, Reason only for Rejected.
type Outcome struct {
	Kind     OutcomeKind
	Reason   RejectReason
	Port     int
	Protocol string
	Tag      string
}

// ComboKey identifies a (destination port, protocol name) combination.
// Protocol is always lowercase.
type ComboKey struct {
	DstPort  int
	Protocol string
}

// Summary holds the aggregated count tables for one or more flow log sources.
// TagCounts includes the reserved Untagged tag; ComboCounts is populated only
// for tagged records. RejectCounts tallies rejected records by reason and
// contributes to neither report table.
type Summary struct {
	TagCounts    map[string]uint64
	ComboCounts  map[ComboKey]uint64
	RejectCounts map[RejectReason]uint64
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{
		TagCounts:    make(map[string]uint64),
		ComboCounts:  make(map[ComboKey]uint64),
		RejectCounts: make(map[RejectReason]uint64),
	}
}

// Record applies a single classification outcome to the summary.
// Not safe for concurrent use; see aggregate.Aggregator for the
// synchronized accumulator.
func (s *Summary) Record(o Outcome) {
	switch o.Kind {
	case KindTagged:
		s.TagCounts[o.Tag]++
		s.ComboCounts[ComboKey{DstPort: o.Port, Protocol: o.Protocol}]++
	case KindUntagged:
		s.TagCounts[UntaggedTag]++
	case KindRejected:
		s.RejectCounts[o.Reason]++
	}
}

// Merge adds all counts from other into s.
func (s *Summary) Merge(other *Summary) {
	for tag, n := range other.TagCounts {
		s.TagCounts[tag] += n
	}
	for key, n := range other.ComboCounts {
		s.ComboCounts[key] += n
	}
	for reason, n := range other.RejectCounts {
		s.RejectCounts[reason] += n
	}
}

// Clone returns a deep copy of the summary.
func (s *Summary) Clone() *Summary {
	c := NewSummary()
	c.Merge(s)
	return c
}

// TotalRecords returns the number of records that contributed to TagCounts.
func (s *Summary) TotalRecords() uint64 {
	var total uint64
	for _, n := range s.TagCounts {
		total += n
	}
	return total
}

// TotalRejected returns the number of rejected records across all reasons.
func (s *Summary) TotalRejected() uint64 {
	var total uint64
	for _, n := range s.RejectCounts {
		total += n
	}
	return total
}

// FileFailure reports a flow log file whose processing failed. The file's
// counts are absent from the aggregate; sibling files are unaffected.
type FileFailure struct {
	Path string
	Err  error
}
