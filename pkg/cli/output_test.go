package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s sample) String() string { return s.Name }

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).FormatTo(&buf, sample{Name: "tom", Count: 2}); err != nil {
		t.Fatal(err)
	}
	var got sample
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Name != "tom" || got.Count != 2 {
		t.Errorf("unexpected decoded value %+v", got)
	}

	buf.Reset()
	if err := NewFormatter(FormatText).FormatTo(&buf, sample{Name: "tom"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "tom\n" {
		t.Errorf("unexpected text output %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestPrintCheck(t *testing.T) {
	var buf bytes.Buffer
	PrintCheck(&buf, "Server listening on %s", "0.0.0.0:8080")
	if buf.String() != "✓ Server listening on 0.0.0.0:8080\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}
