package csvindex

import "io"

// =============================================================================
// Paged Reader
// =============================================================================
//
// The paged reader drives one scanner over a contiguous file region
// [offset, offset+length). It reads the region one page at a time into a
// working buffer with a single zeroed guard byte, scanning each window as it
// goes. A short read near end of file leaves zeroes in the window, which the
// scanner turns into the terminal zero-byte token for this worker.
//
// =============================================================================

// parseJob is one worker's slice of a parse: a file region, the structural
// bytes, a scanner, and the token stream the worker owns.
type parseJob struct {
	parser *Parser
	offset int64
	length int64
	delim  byte
	quote  byte
	row    byte
	scan   scanFunc
	stream *tokenStream
	done   chan struct{}
	err    error
}

// run scans the job's region. The token stream holds the result; a non-nil
// error means the region could not be read at all.
func (j *parseJob) run() error {
	page := pageSize()
	buf := make([]byte, page+1) // guard byte, stays zero

	f, err := openRead(j.parser.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(j.offset, io.SeekStart); err != nil {
		return err
	}

	abs := j.offset
	remaining := j.length
	for remaining >= int64(page) {
		n, _ := io.ReadFull(f, buf[:page])
		clear(buf[n:page])
		j.scan(buf, uint32(abs), page, j.delim, j.quote, j.row, j.stream)
		if j.stream.terminated() {
			// Logical end of file; the rest of the region is past it.
			return nil
		}
		abs += int64(page)
		remaining -= int64(page)
	}

	if remaining > 0 {
		tail := int(remaining)
		n, _ := io.ReadFull(f, buf[:tail])
		clear(buf[n:tail])
		buf[tail] = 0
		j.scan(buf, uint32(abs), tail, j.delim, j.quote, j.row, j.stream)
	}
	return nil
}
