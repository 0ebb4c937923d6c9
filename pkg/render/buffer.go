package render

import (
	"errors"
	"fmt"
	"slices"
)

// Buffer2D is a dense width × height grid stored row by row. Coordinates
// are window coordinates: x grows right and y grows up from row 0.
type Buffer2D[T any] struct {
	width, height int
	data          []T
}

// NewBuffer2D allocates a zeroed buffer.
func NewBuffer2D[T any](width, height int) *Buffer2D[T] {
	width, height = max(width, 0), max(height, 0)
	return &Buffer2D[T]{width: width, height: height, data: make([]T, width*height)}
}

// Width returns the number of columns.
func (b *Buffer2D[T]) Width() int { return b.width }

// Height returns the number of rows.
func (b *Buffer2D[T]) Height() int { return b.height }

// InBounds reports whether (x, y) addresses a cell.
func (b *Buffer2D[T]) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// At returns the value at (x, y), or the zero value out of bounds.
func (b *Buffer2D[T]) At(x, y int) T {
	if !b.InBounds(x, y) {
		var zero T
		return zero
	}
	return b.data[y*b.width+x]
}

// Set stores v at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer2D[T]) Set(x, y int, v T) {
	if !b.InBounds(x, y) {
		return
	}
	b.data[y*b.width+x] = v
}

// SetAllToValue fills every cell with v.
func (b *Buffer2D[T]) SetAllToValue(v T) {
	for i := range b.data {
		b.data[i] = v
	}
}

// Resize reallocates the backing storage. Contents are not preserved.
func (b *Buffer2D[T]) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	b.width, b.height = width, height
	b.data = make([]T, width*height)
}

// Clone returns an independent copy.
func (b *Buffer2D[T]) Clone() *Buffer2D[T] {
	return &Buffer2D[T]{width: b.width, height: b.height, data: slices.Clone(b.data)}
}

const (
	// Sentinel marks a depth cell that was never written. It lies outside
	// the normalized depth range [-1, 1].
	Sentinel = 2.0

	// DepthEpsilon is how much closer a point must be to replace the
	// stored depth. Coplanar writes keep the first value.
	DepthEpsilon = 1e-4
)

// ErrPointOutOfRange is returned by AddPoint under OutOfRangeFail when a
// point falls outside the buffer. It indicates a clipping defect upstream.
var ErrPointOutOfRange = errors.New("point out of range")

// OutOfRangePolicy decides what AddPoint does with points outside the
// buffer.
type OutOfRangePolicy int

const (
	OutOfRangeIgnore OutOfRangePolicy = iota // drop silently and count
	OutOfRangeFail                           // return ErrPointOutOfRange
)

func (p OutOfRangePolicy) String() string {
	switch p {
	case OutOfRangeIgnore:
		return "ignore"
	case OutOfRangeFail:
		return "fail"
	default:
		return fmt.Sprintf("OutOfRangePolicy(%d)", int(p))
	}
}

// ParseOutOfRangePolicy parses "ignore" or "fail".
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch s {
	case "", "ignore":
		return OutOfRangeIgnore, nil
	case "fail":
		return OutOfRangeFail, nil
	}
	return 0, fmt.Errorf("%w: out-of-range policy %q", ErrUnsupportedConfiguration, s)
}

// DepthBuffer is a z-buffer over normalized depth, where smaller is
// closer.
type DepthBuffer struct {
	*Buffer2D[float64]
	Policy  OutOfRangePolicy
	Dropped int // points ignored under OutOfRangeIgnore since the last Reset
}

// NewDepthBuffer returns a buffer filled with Sentinel.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{Buffer2D: NewBuffer2D[float64](width, height)}
	d.Reset()
	return d
}

// Reset fills the buffer with Sentinel.
func (d *DepthBuffer) Reset() {
	d.SetAllToValue(Sentinel)
	d.Dropped = 0
}

// Resize reallocates the buffer and fills it with Sentinel.
func (d *DepthBuffer) Resize(width, height int) {
	d.Buffer2D.Resize(width, height)
	d.Reset()
}

// AddPoint stores z at (x, y) if it is closer than the stored value by
// more than DepthEpsilon, and reports whether it did.
func (d *DepthBuffer) AddPoint(x, y int, z float64) (bool, error) {
	if !d.InBounds(x, y) {
		if d.Policy == OutOfRangeFail {
			return false, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrPointOutOfRange, x, y, d.width, d.height)
		}
		d.Dropped++
		return false, nil
	}
	i := y*d.width + x
	if z < d.data[i]-DepthEpsilon {
		d.data[i] = z
		return true, nil
	}
	return false, nil
}

// Written reports whether (x, y) holds a real depth rather than Sentinel.
func (d *DepthBuffer) Written(x, y int) bool {
	return d.InBounds(x, y) && d.data[y*d.width+x] != Sentinel
}

// Clone returns an independent copy.
func (d *DepthBuffer) Clone() *DepthBuffer {
	return &DepthBuffer{Buffer2D: d.Buffer2D.Clone(), Policy: d.Policy, Dropped: d.Dropped}
}
