package input

import (
	"bytes"
	"io"
	"testing"
)

func drain(t *testing.T, s Source, block int) []byte {
	t.Helper()
	var out []byte
	for {
		b, err := s.NextBlock(block)
		out = append(out, b...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("NextBlock: %v", err)
		}
		if len(b) == 0 {
			return out
		}
	}
}

func TestOwned(t *testing.T) {
	data := []byte(`{"a":1}`)
	o := NewOwned(data)
	got := drain(t, o, 3)
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
	b, err := o.ByteAt(0)
	if err != nil || b != '{' {
		t.Fatalf("ByteAt(0) = %c, %v", b, err)
	}
	if _, err := o.ByteAt(100); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestBuffered(t *testing.T) {
	data := []byte(`{"a":1,"b":[1,2,3]}`)
	b := NewBuffered(bytes.NewReader(data))
	got := drain(t, b, 4)
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q, want %q", got, data)
	}
	first, err := b.ByteAt(0)
	if err != nil || first != '{' {
		t.Fatalf("ByteAt(0) = %c, %v", first, err)
	}
}
