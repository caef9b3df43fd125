package classifier

import (
	"strings"
	"testing"

	"FlowTally/internal/lookup"
	"FlowTally/internal/model"
	"FlowTally/internal/registry"
)

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.Row{
		{Decimal: "6", Keyword: "TCP"},
		{Decimal: "17", Keyword: "UDP"},
	})
	if err != nil {
		t.Fatalf("Failed to build registry: %v", err)
	}
	return reg
}

func testIndex(t *testing.T) *lookup.Index {
	t.Helper()
	idx, err := lookup.New([]lookup.Row{
		{DstPort: "443", Protocol: "tcp", Tag: "sv_P2"},
		{DstPort: "23", Protocol: "tcp", Tag: "sv_P1"},
	})
	if err != nil {
		t.Fatalf("Failed to build index: %v", err)
	}
	return idx
}

func TestClassifyTagged(t *testing.T) {
	line := "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT OK"
	outcome := Classify(strings.Fields(line), testRegistry(t), testIndex(t))

	if outcome.Kind != model.KindTagged {
		t.Fatalf("Expected Tagged outcome, got kind %d (reason %q)", outcome.Kind, outcome.Reason)
	}
	if outcome.Port != 443 || outcome.Protocol != "tcp" || outcome.Tag != "sv_P2" {
		t.Errorf("Expected (443, tcp, sv_P2), got (%d, %s, %s)", outcome.Port, outcome.Protocol, outcome.Tag)
	}
}

func TestClassifyUntagged(t *testing.T) {
	line := "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 8080 6 25 20000 1620140761 1620140821 ACCEPT OK"
	outcome := Classify(strings.Fields(line), testRegistry(t), testIndex(t))

	if outcome.Kind != model.KindUntagged {
		t.Fatalf("Expected Untagged outcome, got kind %d (reason %q)", outcome.Kind, outcome.Reason)
	}
	if outcome.Port != 8080 || outcome.Protocol != "tcp" {
		t.Errorf("Expected (8080, tcp), got (%d, %s)", outcome.Port, outcome.Protocol)
	}
	if outcome.Tag != "" {
		t.Errorf("Untagged outcome must carry no tag, got %q", outcome.Tag)
	}
}

func TestClassifyRejections(t *testing.T) {
	cases := []struct {
		name   string
		line   string
		reason model.RejectReason
	}{
		{
			name:   "too few fields",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT",
			reason: model.RejectFieldCount,
		},
		{
			name:   "too many fields",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT OK extra",
			reason: model.RejectFieldCount,
		},
		{
			name:   "unsupported version",
			line:   "3 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT OK",
			reason: model.RejectUnsupportedVersion,
		},
		{
			name:   "nodata status",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT NODATA",
			reason: model.RejectNoData,
		},
		{
			name:   "skipdata status",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT SKIPDATA",
			reason: model.RejectNoData,
		},
		{
			name:   "non-numeric port",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 https 6 25 20000 1620140761 1620140821 ACCEPT OK",
			reason: model.RejectBadPort,
		},
		{
			name:   "negative port",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 -1 6 25 20000 1620140761 1620140821 ACCEPT OK",
			reason: model.RejectBadPort,
		},
		{
			name:   "non-numeric protocol",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 tcp 25 20000 1620140761 1620140821 ACCEPT OK",
			reason: model.RejectUnknownProtocol,
		},
		{
			name:   "unresolvable protocol number",
			line:   "2 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 250 25 20000 1620140761 1620140821 ACCEPT OK",
			reason: model.RejectUnknownProtocol,
		},
	}

	reg := testRegistry(t)
	idx := testIndex(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome := Classify(strings.Fields(tc.line), reg, idx)
			if outcome.Kind != model.KindRejected {
				t.Fatalf("Expected Rejected outcome, got kind %d", outcome.Kind)
			}
			if outcome.Reason != tc.reason {
				t.Errorf("Expected reason %q, got %q", tc.reason, outcome.Reason)
			}
		})
	}
}

// Version is checked before log status, so a NODATA record of the wrong
// version reports the version problem.
func TestValidationOrder(t *testing.T) {
	line := "1 123456789012 eni-0a1b2c3d 10.0.1.201 198.51.100.2 49153 443 6 25 20000 1620140761 1620140821 ACCEPT NODATA"
	outcome := Classify(strings.Fields(line), testRegistry(t), testIndex(t))
	if outcome.Reason != model.RejectUnsupportedVersion {
		t.Errorf("Expected unsupported-version, got %q", outcome.Reason)
	}
}
