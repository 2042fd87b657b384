package csvindex

// =============================================================================
// Worker Pool
// =============================================================================
//
// A parse splits the aligned file size into contiguous, disjoint, covering
// regions and runs one paged reader per region. Workers share nothing: each
// owns its file handle, page buffer, and token stream. The coordinator joins
// workers in region order and reduces each stream as its worker completes,
// threading the quoted-field state from chunk to chunk. Quote parity is not
// associative, so reduction must be sequential; in-order joining overlaps it
// with the tail of later workers' scanning.
//
// =============================================================================

// region is one worker's slice of the file.
type region struct {
	offset int64
	length int64
}

// workerCount bounds the pool by CPU count and by the number of pages in the
// file, never below one.
func workerCount(size int64, page int) int {
	n := cpuCount()
	pages := int((size + int64(page) - 1) / int64(page))
	if n > pages {
		n = pages
	}
	if n < 1 {
		n = 1
	}
	return n
}

// computeRegions splits size bytes across workers. Each region's length is
// size/workers rounded up to a multiple of 32 so scanners can stride without
// tail handling; the last region is clamped to the file size.
func computeRegions(size int64, workers int) []region {
	perWorker := alignUp32(size / int64(workers))
	if perWorker == 0 {
		perWorker = 32
	}
	regions := make([]region, 0, workers)
	for off := int64(0); off < size; off += perWorker {
		length := perWorker
		if off+length > size {
			length = size - off
		}
		regions = append(regions, region{offset: off, length: length})
	}
	return regions
}

// runWorkers executes one parse: fan out paged readers over the regions, then
// join in region order, reducing each worker's tokens into the cell index
// before releasing its stream and joining the next.
func (p *Parser) runWorkers(scan scanFunc, workers int, delim, quote, row byte) error {
	regions := computeRegions(p.size, workers)

	jobs := make([]*parseJob, len(regions))
	for i, r := range regions {
		jobs[i] = &parseJob{
			parser: p,
			offset: r.offset,
			length: r.length,
			delim:  delim,
			quote:  quote,
			row:    row,
			scan:   scan,
			stream: newTokenStream(),
			done:   make(chan struct{}),
		}
	}

	for _, j := range jobs {
		go func(j *parseJob) {
			j.err = j.run()
			close(j.done)
		}(j)
	}

	red := newReducer(p)
	var firstErr error
	for _, j := range jobs {
		<-j.done
		if j.err != nil && firstErr == nil {
			firstErr = j.err
		}
		if firstErr == nil {
			red.reduce(j.stream)
		}
		j.stream.release()
	}
	if firstErr != nil {
		return firstErr
	}

	red.finish(p.diskSize)
	return nil
}
