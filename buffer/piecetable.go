// Package buffer implements a piece-table text buffer: a mutable document
// represented as an ordered sequence of slices drawn from two append-only
// backing buffers, so that inserts and deletes never copy the original
// document body.
package buffer

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// PieceTable is a mutable document built from two backing buffers (the
// read-only original text and an append-only change buffer) and an
// ordered sequence of pieces whose concatenated slices are the current
// document. It is single-threaded and synchronous: callers sharing a
// PieceTable across goroutines must serialize access themselves.
type PieceTable struct {
	original string
	change   strings.Builder
	pieces   []piece

	// Table-level prefix sums over piece lengths and piece line-feed
	// counts, kept in sync with pieces on every splice, so finding the
	// piece that holds an offset (cursorAtOffset) is a binary search and
	// GetLineCount reads a total instead of walking all pieces. GetOffsetAt
	// and GetPositionAt still walk the pieces before the one they land in.
	pieceLengths   *PrefixSumComputer
	pieceLineFeeds *PrefixSumComputer

	checkInvariants bool
	logger          *slog.Logger
}

// New builds a PieceTable whose initial content is original. original is
// never copied again; all later edits live in the change buffer.
func New(original string, opts ...Option) *PieceTable {
	pt := &PieceTable{
		original:       original,
		pieceLengths:   NewPrefixSumComputer(nil),
		pieceLineFeeds: NewPrefixSumComputer(nil),
	}
	for _, opt := range opts {
		opt(pt)
	}
	if len(original) > 0 {
		pt.appendPiece(newPiece(sourceOriginal, 0, original))
	}
	return pt
}

func (pt *PieceTable) bufferFor(source bufferSource) string {
	if source == sourceOriginal {
		return pt.original
	}
	return pt.change.String()
}

// Length returns the document length.
func (pt *PieceTable) Length() int {
	return pt.pieceLengths.TotalValue()
}

func (pt *PieceTable) appendPiece(p piece) {
	pt.pieces = append(pt.pieces, p)
	pt.pieceLengths.InsertValues(pt.pieceLengths.Len(), []int{p.length})
	pt.pieceLineFeeds.InsertValues(pt.pieceLineFeeds.Len(), []int{p.lineFeedCount})
}

// spliceRange replaces pieces[start:start+removeCount] with newPieces,
// keeping the table-level length and line-feed indices in lock-step.
func (pt *PieceTable) spliceRange(start, removeCount int, newPieces ...piece) {
	pt.pieces = slices.Replace(pt.pieces, start, start+removeCount, newPieces...)

	lens := make([]int, len(newPieces))
	lfs := make([]int, len(newPieces))
	for i, p := range newPieces {
		lens[i] = p.length
		lfs[i] = p.lineFeedCount
	}
	pt.pieceLengths.RemoveValues(start, removeCount)
	pt.pieceLengths.InsertValues(start, lens)
	pt.pieceLineFeeds.RemoveValues(start, removeCount)
	pt.pieceLineFeeds.InsertValues(start, lfs)
}

func (pt *PieceTable) replacePiece(idx int, p piece) {
	pt.pieces[idx] = p
	pt.pieceLengths.ChangeValue(idx, p.length)
	pt.pieceLineFeeds.ChangeValue(idx, p.lineFeedCount)
}

func (pt *PieceTable) afterMutation(op string) {
	if !pt.checkInvariants {
		return
	}
	if err := pt.Validate(); err != nil {
		wrapped := errors.Wrapf(err, "buffer: invariant violation after %s", op)
		if pt.logger != nil {
			pt.logger.Warn("piece table invariant violation", "op", op, "error", wrapped)
		}
		panic(wrapped)
	}
}

// Insert splices value into the document at offset. value must be
// non-empty for this to have any effect; offset must be within
// [0, Length()]. Inserting past the end of a non-empty document returns
// an *OutOfRangeError and leaves the table unmodified.
func (pt *PieceTable) Insert(value string, offset int) error {
	if value == "" {
		return nil
	}

	hadPieces := len(pt.pieces) > 0

	c, ok := pt.cursorAtOffset(offset)
	if !ok {
		if hadPieces {
			return &OutOfRangeError{Offset: offset, DocLen: pt.Length()}
		}
		pt.appendPiece(pt.newChangePiece(value))
		pt.afterMutation("Insert")
		return nil
	}

	if !hadPieces {
		pt.appendPiece(pt.newChangePiece(value))
		pt.afterMutation("Insert")
		return nil
	}

	added := pt.newChangePiece(value)

	orig := pt.pieces[c.index]
	prefixLen := c.bufferOffset - orig.offset
	splitLine, splitRem := orig.lineStarts.GetIndexOf(c.remainder)

	var replacement []piece
	if prefixLen > 0 {
		lineStarts := orig.lineStarts.Clone()
		lineStarts.RemoveValues(splitLine+1, lineStarts.Len()-(splitLine+1))
		lineStarts.ChangeValue(splitLine, splitRem)
		replacement = append(replacement, piece{
			source:        orig.source,
			offset:        orig.offset,
			length:        prefixLen,
			lineFeedCount: splitLine,
			lineStarts:    lineStarts,
		})
	}

	replacement = append(replacement, added)

	if suffixLen := orig.length - prefixLen; suffixLen > 0 {
		lineStarts := orig.lineStarts.Clone()
		lineStarts.ChangeValue(splitLine, lineStarts.GetValue(splitLine)-splitRem)
		if splitLine > 0 {
			lineStarts.RemoveValues(0, splitLine)
		}
		replacement = append(replacement, piece{
			source:        orig.source,
			offset:        c.bufferOffset,
			length:        suffixLen,
			lineFeedCount: orig.lineFeedCount - splitLine,
			lineStarts:    lineStarts,
		})
	}

	pt.spliceRange(c.index, 1, replacement...)
	pt.afterMutation("Insert")
	return nil
}

func (pt *PieceTable) newChangePiece(value string) piece {
	startOffset := pt.change.Len()
	pt.change.WriteString(value)
	return newPiece(sourceChange, startOffset, value)
}

// Delete removes count bytes starting at offset. A range fully outside
// the document is a silent no-op; a range that only partially overlaps
// the document is clamped to what exists.
func (pt *PieceTable) Delete(offset, count int) {
	if count <= 0 || len(pt.pieces) == 0 {
		return
	}
	if offset < 0 {
		count += offset
		offset = 0
		if count <= 0 {
			return
		}
	}

	first, ok := pt.cursorAtOffset(offset)
	if !ok {
		return
	}
	last, ok := pt.cursorAtOffset(offset + count)
	if !ok {
		p := pt.pieces[len(pt.pieces)-1]
		last = cursor{index: len(pt.pieces) - 1, bufferOffset: p.offset + p.length, remainder: p.length}
	}

	if first.index == last.index {
		p := pt.pieces[first.index]
		switch {
		case first.bufferOffset == p.offset && last.bufferOffset == p.offset+p.length:
			pt.spliceRange(first.index, 1)
			pt.afterMutation("Delete")
			return
		case first.bufferOffset == p.offset:
			pt.deleteHeadTrim(first, last.bufferOffset-first.bufferOffset)
			pt.afterMutation("Delete")
			return
		case last.bufferOffset == p.offset+p.length:
			pt.deleteTailTrim(first, last.bufferOffset-first.bufferOffset)
			pt.afterMutation("Delete")
			return
		}
	}

	pt.deleteGeneral(first, last)
	pt.afterMutation("Delete")
}

func (pt *PieceTable) deleteHeadTrim(first cursor, count int) {
	p := pt.pieces[first.index]
	dEnd, dRem := p.lineStarts.GetIndexOf(first.remainder + count)

	lineStarts := p.lineStarts.Clone()
	lineStarts.ChangeValue(dEnd, lineStarts.GetValue(dEnd)-dRem)
	if dEnd > 0 {
		lineStarts.RemoveValues(0, dEnd)
	}

	p.offset += count
	p.length -= count
	p.lineFeedCount -= dEnd
	p.lineStarts = lineStarts
	pt.replacePiece(first.index, p)
}

func (pt *PieceTable) deleteTailTrim(first cursor, count int) {
	p := pt.pieces[first.index]
	dBegin, dRemB := p.lineStarts.GetIndexOf(first.remainder)

	lineStarts := p.lineStarts.Clone()
	dropped := lineStarts.Len() - dBegin - 1
	lineStarts.RemoveValues(dBegin+1, dropped)
	lineStarts.ChangeValue(dBegin, dRemB)

	p.length -= count
	p.lineFeedCount -= dropped
	p.lineStarts = lineStarts
	pt.replacePiece(first.index, p)
}

func (pt *PieceTable) deleteGeneral(first, last cursor) {
	var replacement []piece

	fp := pt.pieces[first.index]
	if prefixLen := first.bufferOffset - fp.offset; prefixLen > 0 {
		splitLine, splitRem := fp.lineStarts.GetIndexOf(first.remainder)
		lineStarts := fp.lineStarts.Clone()
		lineStarts.RemoveValues(splitLine+1, lineStarts.Len()-(splitLine+1))
		lineStarts.ChangeValue(splitLine, splitRem)
		replacement = append(replacement, piece{
			source:        fp.source,
			offset:        fp.offset,
			length:        prefixLen,
			lineFeedCount: splitLine,
			lineStarts:    lineStarts,
		})
	}

	lp := pt.pieces[last.index]
	if suffixLen := lp.length - (last.bufferOffset - lp.offset); suffixLen > 0 {
		splitLine, splitRem := lp.lineStarts.GetIndexOf(last.remainder)
		lineStarts := lp.lineStarts.Clone()
		lineStarts.ChangeValue(splitLine, lineStarts.GetValue(splitLine)-splitRem)
		if splitLine > 0 {
			lineStarts.RemoveValues(0, splitLine)
		}
		replacement = append(replacement, piece{
			source:        lp.source,
			offset:        last.bufferOffset,
			length:        suffixLen,
			lineFeedCount: lp.lineFeedCount - splitLine,
			lineStarts:    lineStarts,
		})
	}

	pt.spliceRange(first.index, last.index-first.index+1, replacement...)
}

// Validate walks every piece and confirms the table's invariants:
// per-piece sum consistency, piece non-emptiness, and table-level index
// consistency. It is exported so fuzzing and tests can call it directly;
// WithInvariantChecks wires it into the mutation path itself.
func (pt *PieceTable) Validate() error {
	totalLen, totalLF := 0, 0
	for i, p := range pt.pieces {
		if p.length <= 0 {
			return errors.Errorf("piece %d has non-positive length %d", i, p.length)
		}
		if sum := p.lineStarts.TotalValue(); sum != p.length {
			return errors.Errorf("piece %d: lineStarts sum %d != length %d", i, sum, p.length)
		}
		if p.lineStarts.Len() != p.lineFeedCount+1 {
			return errors.Errorf("piece %d: lineStarts has %d entries, want %d", i, p.lineStarts.Len(), p.lineFeedCount+1)
		}
		if p.offset < 0 || p.offset+p.length > len(pt.bufferFor(p.source)) {
			return errors.Errorf("piece %d: slice [%d,%d) out of bounds for its buffer", i, p.offset, p.offset+p.length)
		}
		totalLen += p.length
		totalLF += p.lineFeedCount
	}
	if totalLen != pt.pieceLengths.TotalValue() {
		return errors.Errorf("piece-length index out of sync: walked %d, index says %d", totalLen, pt.pieceLengths.TotalValue())
	}
	if totalLF != pt.pieceLineFeeds.TotalValue() {
		return errors.Errorf("piece-line-feed index out of sync: walked %d, index says %d", totalLF, pt.pieceLineFeeds.TotalValue())
	}
	return nil
}
