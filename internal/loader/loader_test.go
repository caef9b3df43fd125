package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadProtocolRegistry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "protocol.csv", "Decimal,Keyword,Protocol\n6,TCP,Transmission Control\n17,UDP,User Datagram\nbad,ROW,skip me\n")

	reg, err := LoadProtocolRegistry(path)
	if err != nil {
		t.Fatalf("Failed to load protocol registry: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("Expected 2 protocols, got %d", reg.Len())
	}
	if name, _ := reg.Resolve(6); name != "tcp" {
		t.Errorf("Expected tcp, got %q", name)
	}
}

func TestLoadProtocolRegistryWithBOM(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "protocol.csv", "\xEF\xBB\xBFDecimal,Keyword\n6,TCP\n")

	reg, err := LoadProtocolRegistry(path)
	if err != nil {
		t.Fatalf("Failed to load BOM-prefixed protocol file: %v", err)
	}
	if name, ok := reg.Resolve(6); !ok || name != "tcp" {
		t.Errorf("Expected tcp after BOM strip, got %q (ok=%v)", name, ok)
	}
}

func TestLoadProtocolRegistryBadHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "protocol.csv", "Number,Name\n6,TCP\n")

	if _, err := LoadProtocolRegistry(path); err == nil {
		t.Error("Expected error for missing Decimal/Keyword headers")
	}
}

func TestLoadLookupIndex(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lookup.csv", "dstport,protocol,tag\n80,tcp,web\n443,TCP,secure\n")

	idx, err := LoadLookupIndex(path)
	if err != nil {
		t.Fatalf("Failed to load lookup index: %v", err)
	}
	if tag, _ := idx.Lookup(80, "tcp"); tag != "web" {
		t.Errorf("Expected web, got %q", tag)
	}
	if tag, _ := idx.Lookup(443, "tcp"); tag != "secure" {
		t.Errorf("Expected secure (case-normalized row), got %q", tag)
	}
}

func TestLoadLookupIndexStrictHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lookup.csv", "port,proto,tag\n80,tcp,web\n")

	if _, err := LoadLookupIndex(path); err == nil {
		t.Error("Expected error for wrong lookup headers")
	}
}

func TestLoadLookupIndexEmptyTableIsError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "lookup.csv", "dstport,protocol,tag\n")

	if _, err := LoadLookupIndex(path); err == nil {
		t.Error("Expected error for lookup table with no rows")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadProtocolRegistry(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for missing protocol file")
	}
	if _, err := LoadLookupIndex(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for missing lookup file")
	}
}
