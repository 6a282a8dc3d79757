package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestStringFieldsSkipsEmpty(t *testing.T) {
	fields := StringFields(
		StringField{Key: "a", Value: "1"},
		StringField{Key: "", Value: "dropped"},
		StringField{Key: "b", Value: "  "},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "a" {
		t.Fatalf("unexpected field key: %q", fields[0].Key)
	}
}

func TestWithCommonFieldsNilLogger(t *testing.T) {
	logger := WithCommonFields(nil, "gemini", "gemini-2.5-pro")
	if logger == nil {
		t.Fatalf("expected a usable logger")
	}
}

func TestWithCommonFieldsNoFields(t *testing.T) {
	base := zap.NewNop()
	if got := WithCommonFields(base, "", ""); got != base {
		t.Fatalf("expected the input logger back when no fields apply")
	}
}
