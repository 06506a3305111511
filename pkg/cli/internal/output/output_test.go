package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, "-"},
		{[]byte{}, "(empty)"},
		{[]byte("ok"), "ok"},
		{[]byte("line\nbreak"), "<10B>"},
		{[]byte{0xff, 0x00}, "<2B>"},
		{bytes.Repeat([]byte("a"), 2048), "<2KiB>"},
	}

	for _, tt := range tests {
		if got := Bytes(tt.in, 40); got != tt.want {
			t.Errorf("Bytes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("JSON output = %q", buf.String())
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tw := Table(&buf)
	_, _ = tw.Write([]byte("NAME\tSTATUS\nr1\t200\n"))
	if err := tw.Flush(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[0] != "NAME  STATUS" || lines[1] != "r1    200" {
		t.Errorf("table output = %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	Warn(&buf, "backend %s", "memory")
	if buf.String() != "Warning: backend memory\n" {
		t.Errorf("Warn output = %q", buf.String())
	}
}
