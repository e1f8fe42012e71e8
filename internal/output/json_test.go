package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONWritesIndented(t *testing.T) {
	var buf bytes.Buffer
	err := JSON(&buf, map[string]any{"total": 3})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["total"] != float64(3) {
		t.Errorf("total = %v, want 3", decoded["total"])
	}
}

func TestJSONUnmarshalableValue(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, make(chan int)); err == nil {
		t.Error("expected error for unmarshalable value")
	}
}

func TestIsJSON(t *testing.T) {
	if !IsJSON("json") {
		t.Error("IsJSON(\"json\") = false, want true")
	}
	if IsJSON("") || IsJSON("table") {
		t.Error("IsJSON should be false for non-json formats")
	}
}
