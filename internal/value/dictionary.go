package value

import (
	"iter"
	"maps"
	"slices"
)

// Dictionary is the mutable, insertion-ordered field set a Record is built
// from. Names are unique; inserting an existing name replaces its value in
// place.
type Dictionary struct {
	names  []string
	values []Value
	index  map[string]int
}

func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// NewDictionaryWithCapacity reduces allocations when the field count is known.
func NewDictionaryWithCapacity(capacity int) *Dictionary {
	return &Dictionary{
		names:  make([]string, 0, capacity),
		values: make([]Value, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// Insert adds or replaces a field.
func (d *Dictionary) Insert(name string, v Value) {
	if i, ok := d.index[name]; ok {
		d.values[i] = v
		return
	}
	d.index[name] = len(d.names)
	d.names = append(d.names, name)
	d.values = append(d.values, v)
}

// InsertMissing adds a field only when the name is not present yet.
func (d *Dictionary) InsertMissing(name string, v Value) {
	if _, ok := d.index[name]; ok {
		return
	}
	d.Insert(name, v)
}

func (d *Dictionary) Get(name string) (Value, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.values[i], true
}

func (d *Dictionary) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.names)
}

// Names returns a copy of the names in insertion order.
func (d *Dictionary) Names() []string {
	return slices.Clone(d.names)
}

// All iterates fields in insertion order.
func (d *Dictionary) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, name := range d.names {
			if !yield(name, d.values[i]) {
				return
			}
		}
	}
}

func (d *Dictionary) Clone() *Dictionary {
	return &Dictionary{
		names:  slices.Clone(d.names),
		values: slices.Clone(d.values),
		index:  maps.Clone(d.index),
	}
}
