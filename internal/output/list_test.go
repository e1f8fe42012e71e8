package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestListWriterAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	lw := NewListWriter(&buf, "ID", "STATE", "TITLE")
	lw.Row("ENG-42", "Todo", "Fix login button")
	lw.Row("ENG-7", "In Progress", "Update error messages")
	lw.Flush()

	out := buf.String()
	lines := strings.Split(out, "\n")
	if len(lines) < 4 {
		t.Fatalf("expected header, separator, and 2 rows, got: %q", out)
	}

	// Values in the same column start at the same offset.
	row1 := lines[2]
	row2 := lines[3]
	if strings.Index(row1, "Todo") != strings.Index(row2, "In Progress") {
		t.Errorf("state column misaligned:\n%q\n%q", row1, row2)
	}
}

func TestListWriterFooter(t *testing.T) {
	var buf bytes.Buffer
	lw := NewListWriter(&buf, "NAME")
	lw.Row("Engineering")
	lw.FlushWithFooter("Total: 1 team")

	out := buf.String()
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "Total: 1 team") {
		t.Errorf("footer should be last line, got: %q", out)
	}
}

func TestListWriterNoHeadersNoOutput(t *testing.T) {
	var buf bytes.Buffer
	lw := NewListWriter(&buf)
	lw.Row("orphan")
	lw.Flush()

	if buf.Len() != 0 {
		t.Errorf("expected no output without headers, got: %q", buf.String())
	}
}

func TestListWriterShortRow(t *testing.T) {
	var buf bytes.Buffer
	lw := NewListWriter(&buf, "ID", "STATE")
	lw.Row("ENG-1")
	lw.Flush()

	if !strings.Contains(buf.String(), "ENG-1") {
		t.Errorf("short rows should still render, got: %q", buf.String())
	}
}
