package buffer

import (
	"io"
)

// Reader adapts a [PieceTable] to [io.Reader], [io.ReaderAt] and
// [io.Seeker], for callers (serializers, network writers, diff tools)
// that want to stream a document instead of pulling it through Substr.
// It holds no buffers of its own: every read walks the live piece list,
// so it always reflects the table's current content.
type Reader struct {
	pt         *PieceTable
	seekCursor int64
}

var (
	_ io.Reader   = (*Reader)(nil)
	_ io.ReaderAt = (*Reader)(nil)
	_ io.Seeker   = (*Reader)(nil)
)

// NewReader returns a Reader over pt's current content.
func NewReader(pt *PieceTable) *Reader {
	return &Reader{pt: pt}
}

// ReadAt implements io.ReaderAt: it never advances the seek cursor. It is
// not safe to call concurrently, even while pt is not being edited: the
// lookups it makes rebuild the table's memoized prefix sums in place, and
// the table carries no locking of its own.
func (r *Reader) ReadAt(p []byte, offset int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	total := int64(r.pt.Length())
	if offset >= total {
		return 0, io.EOF
	}

	count := int64(len(p))
	if offset+count > total {
		count = total - offset
	}

	chunk := r.pt.Substr(int(offset), int(count))
	n := copy(p, chunk)

	var err error
	if int64(n) < int64(len(p)) {
		err = io.EOF
	}
	return n, err
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		r.seekCursor = offset
	case io.SeekCurrent:
		r.seekCursor += offset
	case io.SeekEnd:
		r.seekCursor = int64(r.pt.Length()) + offset
	}
	return r.seekCursor, nil
}

// Read implements io.Reader, advancing the seek cursor by the number of
// bytes returned.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.ReadAt(p, r.seekCursor)
	r.seekCursor += int64(n)
	return n, err
}

// Bytes drains the reader from the current document start into buf,
// reusing its capacity when large enough, and returns the full document
// content. It does not disturb the seek cursor used by Read.
func (r *Reader) Bytes(buf []byte) []byte {
	total := r.pt.Length()
	if cap(buf) < total {
		buf = make([]byte, total)
	}
	buf = buf[:total]
	n, _ := r.ReadAt(buf, 0)
	return buf[:n]
}
