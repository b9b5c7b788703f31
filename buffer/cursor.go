package buffer

// cursor locates a position within the piece sequence: the piece holding
// it, the absolute offset into that piece's backing buffer, and the
// offset relative to the start of the piece.
type cursor struct {
	index        int
	bufferOffset int
	remainder    int
}

// cursorAtOffset walks the table-level piece-length index to the piece
// containing document offset o. Reports ok=false when o lies strictly
// beyond the document or the table has no pieces; o == Length() resolves to a cursor at the end of
// the last piece rather than failing, since appends land exactly there.
func (pt *PieceTable) cursorAtOffset(o int) (cursor, bool) {
	if len(pt.pieces) == 0 {
		return cursor{}, false
	}
	total := pt.pieceLengths.TotalValue()
	if o > total {
		return cursor{}, false
	}
	if o == total {
		last := len(pt.pieces) - 1
		p := pt.pieces[last]
		return cursor{index: last, bufferOffset: p.offset + p.length, remainder: p.length}, true
	}
	idx, rem := pt.pieceLengths.GetIndexOf(o)
	p := pt.pieces[idx]
	return cursor{index: idx, bufferOffset: p.offset + rem, remainder: rem}, true
}

// locateLine finds the piece containing the start of 1-based document
// line. ok is false for a line number beyond the document.
func (pt *PieceTable) locateLine(line int) (idx int, lineInPiece int, ok bool) {
	cumulativeLF := 0
	for k, p := range pt.pieces {
		if cumulativeLF+p.lineFeedCount+1 >= line {
			return k, line - cumulativeLF, true
		}
		cumulativeLF += p.lineFeedCount
	}
	return 0, 0, false
}

