package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("log")

	if first, second := gen.Next(), gen.Next(); first != "log-1" || second != "log-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorDefaultsPrefix(t *testing.T) {
	gen := NewIDGenerator("")
	if got := gen.Next(); got != "id-1" {
		t.Fatalf("expected id-1, got %q", got)
	}
}

func TestIDGeneratorNextFuncSharesTheSequence(t *testing.T) {
	gen := NewIDGenerator("entry")
	next := gen.NextFunc()

	if got := next(); got != "entry-1" {
		t.Fatalf("expected entry-1, got %q", got)
	}
	if got := gen.Next(); got != "entry-2" {
		t.Fatalf("expected the shared counter to continue, got %q", got)
	}
}
