package csvindex

// =============================================================================
// Token Reducer (quoted-field state machine)
// =============================================================================
//
// The reducer folds per-worker token streams, in worker order, into cell
// index entries. Whether a quote opens or closes a field depends on what came
// before it, so this stage is strictly sequential even though scanning is
// parallel; the state below is exactly what a single-pass parser would carry
// on its stack, made explicit so it can be threaded across chunk boundaries.
//
// Two counters resolve RFC 4180 quoting without ever re-reading file bytes:
//
//   - startQuotes counts the contiguous quote run at the head of the current
//     cell. An odd run means the cell is quoted ("" "" pairs at the head are
//     escaped quotes in an empty-prefixed field).
//   - endQuotes counts the most recent quote run seen past the head. When a
//     delimiter follows such a run inside a quoted cell, an odd run closed
//     the field and an even run was escaped quotes.
//
// Adjacency (previous token offset + 1 == current offset) is what makes the
// runs meaningful: quote tokens with content bytes between them belong to
// different runs.
//
// =============================================================================

// initialColumnHint seeds the cell index geometry before the first row break
// reveals the real column count.
const initialColumnHint = 256

// reducer carries the cross-chunk parse state and writes cells onto the
// parser handle.
type reducer struct {
	p *Parser

	prevKind    tokenKind
	prevOffset  int64 // -1 before the first token, so offset 0 counts as adjacent
	isQuoted    bool
	cellStart   uint32
	rowIdx      uint32
	startQuotes uint32
	endQuotes   uint32
	startOfCell bool
	running     bool

	rowCap uint32 // current row capacity of the cell index
}

// newReducer prepares the parser's cell index with the initial geometry:
// initialColumnHint columns by one row, doubled as needed.
func newReducer(p *Parser) *reducer {
	p.columnCount = initialColumnHint
	p.rowCount = 0
	p.cellCount = 0
	p.cells = make([]Cell, 0, initialColumnHint)
	return &reducer{
		p:           p,
		prevKind:    tokenInvalid,
		prevOffset:  -1,
		startOfCell: true,
		running:     true,
		rowCap:      1,
	}
}

// reduce folds one worker's stream into the index. Streams after the one
// that held the terminal zero-byte token are ignored.
func (r *reducer) reduce(s *tokenStream) {
	if !r.running {
		return
	}
	for _, t := range s.toks {
		if !r.step(t) {
			return
		}
	}
}

// step consumes a single token. Returns false once the terminal zero-byte
// token has been consumed, whether or not it closed a cell.
func (r *reducer) step(t token) bool {
	adj := r.prevOffset+1 == int64(t.offset)
	if !adj {
		r.startOfCell = false
	}

	if t.kind == tokenQuote {
		if r.startOfCell && adj {
			r.startQuotes++
		} else {
			if !adj || r.prevKind != tokenQuote {
				r.endQuotes = 0
			}
			r.endQuotes++
		}
		r.prevKind = t.kind
		r.prevOffset = int64(t.offset)
		return true
	}

	// Non-quote token: settle the quoted state for the current cell. A cell
	// with an odd head run is quoted; a trailing quote run then decides
	// whether the field was closed (odd run) or the run was escapes (even).
	r.startOfCell = false
	r.isQuoted = r.startQuotes%2 == 1
	if r.prevKind == tokenQuote && r.isQuoted && r.endQuotes > 0 {
		r.isQuoted = r.endQuotes%2 == 0
	}
	r.endQuotes = 0

	switch {
	case t.kind == tokenNull:
		// Terminal: close the open cell unless the input ended exactly on a
		// cell boundary (a trailing row terminator mints no empty cell).
		if r.cellStart < t.offset {
			r.emit(r.cellStart, t.offset)
		}
		r.running = false
		return false

	case !r.isQuoted:
		r.emit(r.cellStart, t.offset)
		r.startOfCell = true
		r.startQuotes = 0
		r.cellStart = t.offset + 1
		if t.kind == tokenRow {
			if r.rowIdx == 0 {
				r.sealColumns()
			}
			r.rowIdx++
		}

	default:
		// Quoted delimiter or row byte: cell body, not structure.
	}

	r.prevKind = t.kind
	r.prevOffset = int64(t.offset)
	return true
}

// emit appends one cell, growing the index when the current geometry is full.
func (r *reducer) emit(start, end uint32) {
	p := r.p
	if p.cellCount >= int64(p.columnCount)*int64(r.rowCap) {
		r.rowCap *= 2
		next := make([]Cell, len(p.cells), int(int64(p.columnCount)*int64(r.rowCap)))
		copy(next, p.cells)
		p.cells = next
	}
	p.cells = append(p.cells, Cell{Start: start, End: end})
	p.cellCount++
}

// sealColumns fixes the column count at the first row break and converts the
// initial over-allocation into a row-capacity hint.
func (r *reducer) sealColumns() {
	prevColumns := r.p.columnCount
	r.p.columnCount = uint32(r.p.cellCount)
	r.rowCap = prevColumns / r.p.columnCount
	if r.rowCap == 0 {
		r.rowCap = 1
	}
}

// finish runs after the last stream. A file whose logical size is an exact
// multiple of 32 never short-reads, so no zero byte was ever scanned; the
// terminal token is synthesized here instead. It then settles the observed
// row and column counts on the handle.
func (r *reducer) finish(logicalEOF int64) {
	if r.running {
		r.step(token{kind: tokenNull, offset: uint32(logicalEOF)})
	}

	p := r.p
	switch {
	case p.cellCount == 0:
		p.rowCount = 0
		p.columnCount = 0
	case r.rowIdx == 0:
		// No row terminator anywhere: a single, unterminated row.
		p.columnCount = uint32(p.cellCount)
		p.rowCount = 1
	default:
		p.rowCount = uint32((p.cellCount + int64(p.columnCount) - 1) / int64(p.columnCount))
	}
}
