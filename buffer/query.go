package buffer

import "strings"

// Position is a 1-based (line, column) pair.
type Position struct {
	Line   int
	Column int
}

// Range is a half-open span between two Positions: Start is inclusive,
// End is exclusive.
type Range struct {
	Start Position
	End   Position
}

// Substr returns count bytes of document content starting at offset,
// clamped the same way Delete clamps an out-of-range request.
func (pt *PieceTable) Substr(offset, count int) string {
	if count <= 0 || len(pt.pieces) == 0 {
		return ""
	}
	if offset < 0 {
		count += offset
		offset = 0
		if count <= 0 {
			return ""
		}
	}

	first, ok := pt.cursorAtOffset(offset)
	if !ok {
		return ""
	}
	last, ok := pt.cursorAtOffset(offset + count)
	if !ok {
		p := pt.pieces[len(pt.pieces)-1]
		last = cursor{index: len(pt.pieces) - 1, bufferOffset: p.offset + p.length, remainder: p.length}
	}

	var sb strings.Builder
	for i := first.index; i <= last.index; i++ {
		p := pt.pieces[i]
		buf := pt.bufferFor(p.source)
		start, end := p.offset, p.offset+p.length
		if i == first.index {
			start = first.bufferOffset
		}
		if i == last.index {
			end = last.bufferOffset
		}
		sb.WriteString(buf[start:end])
	}
	return sb.String()
}

// GetLinesContent returns the entire document.
func (pt *PieceTable) GetLinesContent() string {
	var sb strings.Builder
	for _, p := range pt.pieces {
		sb.WriteString(pt.bufferFor(p.source)[p.offset : p.offset+p.length])
	}
	return sb.String()
}

// GetLineCount returns the document's line count, always >= 1.
func (pt *PieceTable) GetLineCount() int {
	return 1 + pt.pieceLineFeeds.TotalValue()
}

// GetLineContent returns 1-based line without its trailing '\n'.
func (pt *PieceTable) GetLineContent(line int) string {
	if len(pt.pieces) == 0 {
		return ""
	}
	idx, lineInPiece, ok := pt.locateLine(line)
	if !ok {
		return ""
	}

	p := pt.pieces[idx]
	buf := pt.bufferFor(p.source)
	baseRemainder := p.lineStarts.GetAccumulatedValue(lineInPiece - 2)

	if lineInPiece <= p.lineFeedCount {
		endRemainder := p.lineStarts.GetAccumulatedValue(lineInPiece - 1)
		return strings.TrimSuffix(buf[p.offset+baseRemainder:p.offset+endRemainder], "\n")
	}

	if idx >= len(pt.pieces)-1 {
		// Last line of the document: no trailing '\n' anywhere.
		return buf[p.offset+baseRemainder : p.offset+p.length]
	}

	var sb strings.Builder
	sb.WriteString(buf[p.offset+baseRemainder : p.offset+p.length])

	j := idx + 1
	for j < len(pt.pieces) && pt.pieces[j].lineFeedCount == 0 {
		np := pt.pieces[j]
		sb.WriteString(pt.bufferFor(np.source)[np.offset : np.offset+np.length])
		j++
	}
	if j < len(pt.pieces) {
		np := pt.pieces[j]
		end := np.lineStarts.GetAccumulatedValue(0)
		sb.WriteString(pt.bufferFor(np.source)[np.offset : np.offset+end])
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// GetOffsetAt converts a 1-based (line, column) position to a 0-based
// byte offset.
func (pt *PieceTable) GetOffsetAt(pos Position) int {
	idx, lineInPiece, ok := pt.locateLine(pos.Line)
	if !ok {
		return pt.Length()
	}

	p := pt.pieces[idx]
	leftBytes := 0
	for i := 0; i < idx; i++ {
		leftBytes += pt.pieces[i].length
	}
	return leftBytes + p.lineStarts.GetAccumulatedValue(lineInPiece-2) + pos.Column - 1
}

// GetPositionAt converts a 0-based byte offset to a 1-based (line, column)
// position.
func (pt *PieceTable) GetPositionAt(offset int) Position {
	if len(pt.pieces) == 0 {
		return Position{Line: 1, Column: 1}
	}
	if offset < 0 {
		offset = 0
	}
	if total := pt.Length(); offset > total {
		offset = total
	}

	c, ok := pt.cursorAtOffset(offset)
	if !ok {
		p := pt.pieces[len(pt.pieces)-1]
		c = cursor{index: len(pt.pieces) - 1, bufferOffset: p.offset + p.length, remainder: p.length}
	}

	p := pt.pieces[c.index]
	lineInPiece, col0 := p.lineStarts.GetIndexOf(c.remainder)

	linesBefore := 0
	for i := 0; i < c.index; i++ {
		linesBefore += pt.pieces[i].lineFeedCount
	}

	col := col0 + 1
	if lineInPiece == 0 && c.index > 0 {
		col += pt.runningColumnBeforePiece(c.index)
	}

	return Position{Line: 1 + linesBefore + lineInPiece, Column: col}
}

// runningColumnBeforePiece accumulates the length of the line segment
// that trails into idx from earlier pieces: the final (possibly
// incomplete) lineStarts entry of idx-1, plus the full length of any
// further pieces before it that are themselves entirely a continuation
// (lineFeedCount == 0), back to the piece that actually starts the line.
// Peeking only at pieces[idx-1] misreports the column once a line
// crosses more than two piece boundaries; accumulating the whole run
// fixes that.
func (pt *PieceTable) runningColumnBeforePiece(idx int) int {
	total := 0
	for i := idx - 1; i >= 0; i-- {
		p := pt.pieces[i]
		if p.lineFeedCount == 0 {
			total += p.length
			continue
		}
		total += p.lineStarts.GetValue(p.lineStarts.Len() - 1)
		break
	}
	return total
}

// GetValueInRange returns the document content between two 1-based
// positions, Start inclusive and End exclusive.
func (pt *PieceTable) GetValueInRange(r Range) string {
	start := pt.GetOffsetAt(r.Start)
	end := pt.GetOffsetAt(r.End)
	if end < start {
		return ""
	}
	return pt.Substr(start, end-start)
}
