package binaryset

import "iter"

// Binary is one named, immutable byte buffer.
type Binary struct {
	Name string
	Data []byte
}

// BinarySet is an insertion-ordered mapping from blob name to content.
//
// It is the persistence boundary of every scalar index: Serialize produces
// a BinarySet and Load consumes one. A BinarySet takes ownership of the
// slices passed to Append; callers must not mutate them afterwards.
type BinarySet struct {
	entries []Binary
	byName  map[string]int
}

// New creates an empty BinarySet.
func New() *BinarySet {
	return &BinarySet{
		byName: make(map[string]int),
	}
}

// Append adds a blob. Appending an existing name replaces its content
// and keeps its original position.
func (s *BinarySet) Append(name string, data []byte) {
	if i, ok := s.byName[name]; ok {
		s.entries[i].Data = data
		return
	}
	s.byName[name] = len(s.entries)
	s.entries = append(s.entries, Binary{Name: name, Data: data})
}

// GetByName returns the content of the named blob.
func (s *BinarySet) GetByName(name string) ([]byte, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.entries[i].Data, true
}

// Contains reports whether a blob with the given name exists.
func (s *BinarySet) Contains(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// All iterates over (name, content) pairs in insertion order.
func (s *BinarySet) All() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		for _, e := range s.entries {
			if !yield(e.Name, e.Data) {
				return
			}
		}
	}
}

// Names returns the blob names in insertion order.
func (s *BinarySet) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of blobs.
func (s *BinarySet) Len() int {
	return len(s.entries)
}

// Size returns the total content size in bytes.
func (s *BinarySet) Size() int64 {
	var n int64
	for _, e := range s.entries {
		n += int64(len(e.Data))
	}
	return n
}
