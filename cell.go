package csvindex

import "os"

// =============================================================================
// Transient Cell Access
// =============================================================================

// CellReader reads cell payloads from the source file on demand. The index
// holds offsets only, so random access re-reads the file; the reader keeps
// one open handle and a reusable buffer across calls.
type CellReader struct {
	p   *Parser
	f   *os.File
	buf []byte
}

// NewCellReader opens the source file for cell extraction. It fails with
// [ErrNoIndex] if the parser has not produced an index yet.
func (p *Parser) NewCellReader() (*CellReader, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.cellCount == 0 {
		return nil, ErrNoIndex
	}
	f, err := openRead(p.path)
	if err != nil {
		return nil, err
	}
	return &CellReader{p: p, f: f}, nil
}

// ReadCell returns the payload of the cell at row r, column c. The returned
// slice is transient: it aliases an internal buffer and is only valid until
// the next ReadCell call. Surrounding quote bytes are not stripped.
func (cr *CellReader) ReadCell(r, c int) ([]byte, error) {
	p := cr.p
	idx := r*int(p.columnCount) + c
	if r < 0 || c < 0 || c >= int(p.columnCount) || idx >= int(p.cellCount) {
		return nil, ErrCellRange
	}
	cell := p.cells[idx]
	n := int(cell.End - cell.Start)
	if n == 0 {
		return cr.buf[:0], nil
	}
	if cap(cr.buf) < n {
		cr.buf = make([]byte, n)
	}
	got := readAt(cr.f, cr.buf[:n], int64(cell.Start))
	return cr.buf[:got], nil
}

// Close releases the file handle.
func (cr *CellReader) Close() error {
	return cr.f.Close()
}
