package csvindex

import "sync"

// =============================================================================
// Tokens
// =============================================================================
//
// A token marks one structural byte in the source file: a delimiter, a quote,
// a row terminator, or a zero byte. Scanners append tokens in strictly
// ascending offset order; the reducer consumes them in that order to cut
// cells. A zero byte is terminal: it marks the logical end of input and a
// scanner stops as soon as it appends one.
//
// =============================================================================

// tokenKind identifies the structural byte a token marks.
type tokenKind uint8

const (
	// tokenInvalid is an internal sentinel used for the reducer's initial
	// previous-token state. Scanners never append it.
	tokenInvalid tokenKind = iota
	tokenDelim
	tokenQuote
	tokenRow
	tokenNull
)

// token is a (kind, absolute byte offset) record.
type token struct {
	kind   tokenKind
	offset uint32
}

// tokenStreamInitialCap is the starting capacity of a worker's token stream.
const tokenStreamInitialCap = 64

// tokenStream is a growable token sequence owned by one worker. Capacity
// doubles on demand, starting from tokenStreamInitialCap.
type tokenStream struct {
	toks []token
}

// tokenStreamPool reuses stream backing arrays across workers and parses.
var tokenStreamPool = sync.Pool{
	New: func() interface{} {
		return &tokenStream{toks: make([]token, 0, tokenStreamInitialCap)}
	},
}

// newTokenStream returns an empty stream, reusing a pooled one if available.
func newTokenStream() *tokenStream {
	s := tokenStreamPool.Get().(*tokenStream)
	s.toks = s.toks[:0]
	return s
}

// append adds one token, doubling the backing array when full.
func (s *tokenStream) append(t token) {
	if len(s.toks) == cap(s.toks) {
		next := make([]token, len(s.toks), cap(s.toks)*2)
		copy(next, s.toks)
		s.toks = next
	}
	s.toks = append(s.toks, t)
}

// len returns the number of buffered tokens.
func (s *tokenStream) len() int {
	return len(s.toks)
}

// terminated reports whether the stream ends with a terminal zero-byte token.
func (s *tokenStream) terminated() bool {
	return len(s.toks) > 0 && s.toks[len(s.toks)-1].kind == tokenNull
}

// release returns the stream to the pool for reuse.
func (s *tokenStream) release() {
	if s == nil {
		return
	}
	s.toks = s.toks[:0]
	tokenStreamPool.Put(s)
}
