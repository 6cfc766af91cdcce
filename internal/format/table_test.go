package format

import (
	"bytes"
	"strings"
	"testing"

	"adview/internal/present"
)

func TestWriteViewPlain(t *testing.T) {
	var buf bytes.Buffer
	v := present.View{Kind: present.KindError, Title: "Error", Message: "Invalid wallet address format."}

	if err := WriteView(&buf, v, "plain"); err != nil {
		t.Fatalf("WriteView plain returned error: %v", err)
	}

	expected := strings.Join([]string{
		"kind\terror",
		"title\tError",
		"message\tInvalid wallet address format.",
	}, "\n") + "\n"
	if got := buf.String(); got != expected {
		t.Fatalf("plain output mismatch:\nexpected: %q\nactual:   %q", expected, got)
	}
}

func TestWriteViewTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteView(&buf, contentView(), "table"); err != nil {
		t.Fatalf("WriteView table returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "VALUE") {
		t.Fatalf("table header missing expected columns:\n%s", out)
	}
	for _, want := range []string{"headline", "Stake smarter", "cta_url", "image_url"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteViewTableSkipsAbsentFields(t *testing.T) {
	var buf bytes.Buffer
	v := contentView()
	v.Image = nil
	v.CTA = nil
	if err := WriteView(&buf, v, "table"); err != nil {
		t.Fatalf("WriteView table returned error: %v", err)
	}
	if strings.Contains(buf.String(), "image_url") || strings.Contains(buf.String(), "cta_") {
		t.Fatalf("absent blocks should not produce rows:\n%s", buf.String())
	}
}

func TestWriteViewJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteView(&buf, contentView(), "json"); err != nil {
		t.Fatalf("WriteView json returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"kind": "content"`) || !strings.Contains(out, `"headline": "Stake smarter"`) {
		t.Fatalf("json output unexpected:\n%s", out)
	}
}

func TestWriteViewInvalidFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteView(&buf, contentView(), "xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
