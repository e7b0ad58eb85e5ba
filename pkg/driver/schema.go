package driver

// ColumnDescriptor is the normalized record describing one table column.
// Adapters canonicalize backend-specific sentinel values (textual yes/no,
// integer flags, empty strings) before producing a descriptor; the generic
// layer only ever sees real booleans.
type ColumnDescriptor struct {
	// Ordinal is the zero-based position in declared column order.
	Ordinal int

	// Name is the column name.
	Name string

	// Type is the declared type in uppercase.
	Type string

	// Nullable reports whether the column accepts NULL.
	Nullable bool

	// Default is the declared default value, nil when none.
	Default *string

	// IsPrimary reports whether the column is part of the primary key.
	IsPrimary bool
}

// ColumnIter is a lazy, finite, single-pass iterator over column
// descriptors. It separates the stream capability (Next, Descriptor, Err)
// from the closable-handle capability (Close); the iterator closes itself
// when the pass completes, Close only matters for early abandonment.
type ColumnIter struct {
	fetch   func() (*ColumnDescriptor, error)
	release func() error

	cur    ColumnDescriptor
	err    error
	done   bool
	closed bool
}

// NewColumnIter builds an iterator from an adapter's fetch function. fetch
// returns nil at the end of the pass. release, if non-nil, frees the
// underlying catalog result handle.
func NewColumnIter(fetch func() (*ColumnDescriptor, error), release func() error) *ColumnIter {
	return &ColumnIter{fetch: fetch, release: release}
}

// Next advances to the next descriptor, reporting false at the end of the
// pass or on error.
func (it *ColumnIter) Next() bool {
	if it.done || it.closed {
		return false
	}
	d, err := it.fetch()
	if err != nil {
		it.err = err
		it.done = true
		it.Close()
		return false
	}
	if d == nil {
		it.done = true
		it.Close()
		return false
	}
	it.cur = *d
	return true
}

// Descriptor returns the descriptor produced by the last successful Next.
func (it *ColumnIter) Descriptor() ColumnDescriptor {
	return it.cur
}

// Err returns the first error encountered during the pass.
func (it *ColumnIter) Err() error {
	return it.err
}

// Close releases the underlying handle. Safe to call more than once.
func (it *ColumnIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	if it.release != nil {
		return it.release()
	}
	return nil
}

// Collect drains the iterator into a slice. It consumes the pass.
func (it *ColumnIter) Collect() ([]ColumnDescriptor, error) {
	var cols []ColumnDescriptor
	for it.Next() {
		cols = append(cols, it.Descriptor())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return cols, nil
}
