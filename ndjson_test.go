package jscan

import (
	"strings"
	"testing"
)

func TestEvalNDCountsPerLine(t *testing.T) {
	doc := "{\"a\":1}\n{\"a\":2,\"b\":3}\n\n{\"a\":[1,2]}\n"
	results, err := EvalND(`$.a`, []byte(doc), false)
	if err != nil {
		t.Fatalf("EvalND: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d records, want 3 (blank line must be skipped)", len(results))
	}
	want := []uint64{1, 1, 1}
	for i, r := range results {
		if r.Error != nil {
			t.Fatalf("record %d: %v", i, r.Error)
		}
		if r.Result.Count != want[i] {
			t.Fatalf("record %d: count = %d, want %d", i, r.Result.Count, want[i])
		}
	}
}

func TestEvalNDOffsetsAreLineRelative(t *testing.T) {
	doc := `{"a":1}` + "\n" + `{"x":0,"a":2}`
	results, err := EvalND(`$.a`, []byte(doc), true)
	if err != nil {
		t.Fatalf("EvalND: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d records, want 2", len(results))
	}
	if !int64SliceEqual(results[0].Result.Offsets, []int64{5}) {
		t.Fatalf("record 0 offsets = %v, want [5]", results[0].Result.Offsets)
	}
	if !int64SliceEqual(results[1].Result.Offsets, []int64{11}) {
		t.Fatalf("record 1 offsets = %v, want [11]", results[1].Result.Offsets)
	}
}

func TestEvalStreamDeliversInOrder(t *testing.T) {
	doc := "{\"a\":1}\n{\"a\":2}\n{\"a\":3}\n"
	res := make(chan StreamResult)
	EvalStream(`$.a`, strings.NewReader(doc), false, res)

	var got []StreamResult
	for r := range res {
		got = append(got, r)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	for i, r := range got {
		if r.Error != nil {
			t.Fatalf("result %d: %v", i, r.Error)
		}
		if r.Index != i {
			t.Fatalf("result %d: Index = %d", i, r.Index)
		}
		if r.Result.Count != 1 {
			t.Fatalf("result %d: count = %d, want 1", i, r.Result.Count)
		}
	}
}

func TestEvalStreamMalformedLineStopsStream(t *testing.T) {
	doc := "{\"a\":1}\n{\"a\":\n{\"a\":3}\n"
	res := make(chan StreamResult)
	EvalStream(`$.a`, strings.NewReader(doc), false, res)

	var sawError bool
	count := 0
	for r := range res {
		count++
		if r.Error != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Fatal("expected a malformed record to surface an error")
	}
	if count != 2 {
		t.Fatalf("got %d results before stopping, want 2 (one good, one error)", count)
	}
}
