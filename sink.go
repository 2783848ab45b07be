package jscan

// Sink receives match offsets in document order as the engine finds them
// (§4.4). Implementations must not retain the byte slice backing any
// Source they did not themselves read from; only the offset is passed.
type Sink interface {
	// Record is called once per match, in increasing offset order.
	Record(offset int64) error
	// Count reports how many matches were recorded.
	Count() uint64
}

// CountSink only tallies matches; it never allocates proportional to the
// number of matches found, making it the cheap choice when only the
// cardinality of a query's results is needed.
type CountSink struct {
	n uint64
}

// NewCountSink returns a Sink that discards offsets and only counts.
func NewCountSink() *CountSink { return &CountSink{} }

func (s *CountSink) Record(int64) error {
	s.n++
	return nil
}

func (s *CountSink) Count() uint64 { return s.n }

// IndexSink retains every match offset, in the order recorded.
type IndexSink struct {
	offsets []int64
}

// NewIndexSink returns a Sink that retains every match offset.
func NewIndexSink() *IndexSink { return &IndexSink{} }

func (s *IndexSink) Record(offset int64) error {
	s.offsets = append(s.offsets, offset)
	return nil
}

func (s *IndexSink) Count() uint64 { return uint64(len(s.offsets)) }

// Offsets returns the recorded match offsets in document order.
func (s *IndexSink) Offsets() []int64 { return s.offsets }
