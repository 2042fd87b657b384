// Package csvindex parses RFC 4180 CSV files into an indexed, random-access
// table of cells without materializing per-cell copies.
//
// A parse runs in two phases: a data-parallel scan locates structural bytes
// (delimiter, quote, row terminator, and the zero byte reserved for end of
// input) across the file, and a sequential reduction folds the resulting
// token streams into cell [start,end) byte ranges while tracking quoted-field
// state across chunk boundaries. The cell payload is the byte range of the
// original file; surrounding quote bytes are left for consumers to strip.
package csvindex

// Cell is a half-open byte range [Start, End) into the source file.
type Cell struct {
	Start uint32
	End   uint32
}

// Parser indexes one CSV file. Create it with [New], run one of the parse
// methods, then read cells through the accessors or a [CellReader]. The
// index is write-once, read-many: parsing again replaces it wholesale.
type Parser struct {
	path     string
	size     int64 // file size aligned up to a multiple of 32
	diskSize int64 // logical size as reported by the filesystem

	columnCount uint32
	rowCount    uint32
	cellCount   int64
	cells       []Cell

	closed bool
}

// alignUp32 rounds n up to a multiple of 32 so scanners can advance in 16-
// or 32-byte strides without tail handling.
func alignUp32(n int64) int64 {
	return (n + 31) &^ 31
}

// New probes path for its size and returns a handle for it. No file buffer
// is retained; parse methods re-open the file per worker. On error the
// returned handle has size zero and every parse method is a no-op, matching
// the best-effort contract of the observed state.
func New(path string) (*Parser, error) {
	p := &Parser{path: path}
	n, err := statSize(path)
	if err != nil {
		return p, err
	}
	p.diskSize = n
	p.size = alignUp32(n)
	return p, nil
}

// Close releases the cell index. The handle must not be parsed again.
func (p *Parser) Close() error {
	p.cells = nil
	p.cellCount = 0
	p.rowCount = 0
	p.columnCount = 0
	p.closed = true
	return nil
}

// Parse indexes the file with a single worker and the scalar scanner.
func (p *Parser) Parse(delim, quote, row byte) error {
	return p.parse(ScannerScalar, false, delim, quote, row)
}

// ParseParallel indexes the file with one worker per CPU (bounded by the
// page count) and the scalar scanner.
func (p *Parser) ParseParallel(delim, quote, row byte) error {
	return p.parse(ScannerScalar, true, delim, quote, row)
}

// ParseParallelV16 is [Parser.ParseParallel] with the 16-lane scanner.
func (p *Parser) ParseParallelV16(delim, quote, row byte) error {
	return p.parse(ScannerV16, true, delim, quote, row)
}

// ParseParallelV32 is [Parser.ParseParallel] with the 32-lane scanner.
func (p *Parser) ParseParallelV32(delim, quote, row byte) error {
	return p.parse(ScannerV32, true, delim, quote, row)
}

func (p *Parser) parse(scanner Scanner, parallel bool, delim, quote, row byte) error {
	if p.closed {
		return ErrClosed
	}
	if p.size == 0 {
		// Empty or unopenable file: no cell index is allocated.
		return nil
	}

	workers := 1
	if parallel {
		workers = workerCount(p.size, pageSize())
	}
	return p.runWorkers(scanner.fn(), workers, delim, quote, row)
}

// Path returns the source file path the handle was created with.
func (p *Parser) Path() string {
	return p.path
}

// Size returns the logical file size in bytes.
func (p *Parser) Size() int64 {
	return p.diskSize
}

// Rows returns the discovered row count.
func (p *Parser) Rows() int {
	return int(p.rowCount)
}

// Cols returns the discovered column count.
func (p *Parser) Cols() int {
	return int(p.columnCount)
}

// CellCount returns the total number of indexed cells.
func (p *Parser) CellCount() int {
	return int(p.cellCount)
}

// Cells returns the raw cell index in file order. The slice is owned by the
// parser and valid until the next parse or Close.
func (p *Parser) Cells() []Cell {
	return p.cells[:p.cellCount]
}

// CellAt returns the cell at row r, column c (0-indexed). The mapping
// r*Cols()+c holds for rectangular files; ragged files expose the raw cell
// stream through [Parser.Cells] instead. CellAt panics if the computed index
// is out of range.
func (p *Parser) CellAt(r, c int) Cell {
	idx := r*int(p.columnCount) + c
	if r < 0 || c < 0 || c >= int(p.columnCount) || idx >= int(p.cellCount) {
		panic("csvindex: cell index out of range")
	}
	return p.cells[idx]
}
