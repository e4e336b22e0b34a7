package decode

import (
	"context"
	"testing"
)

func TestPDFDecoder_MissingFile(t *testing.T) {
	d := NewPDFDecoder("/nonexistent/file.pdf", nil)
	_, err := d.Decode(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Page: 7, Reason: "page object is null"}
	if got := w.String(); got != "page 7: page object is null" {
		t.Errorf("unexpected warning string: %q", got)
	}
}
