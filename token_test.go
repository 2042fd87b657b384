package csvindex

import "testing"

// =============================================================================
// Token Stream Tests
// =============================================================================

func TestTokenStream_GrowthDoubles(t *testing.T) {
	s := &tokenStream{toks: make([]token, 0, tokenStreamInitialCap)}

	if cap(s.toks) != 64 {
		t.Fatalf("initial capacity = %d, want 64", cap(s.toks))
	}

	for i := 0; i < 64; i++ {
		s.append(token{tokenDelim, uint32(i)})
	}
	if cap(s.toks) != 64 {
		t.Errorf("capacity after 64 appends = %d, want 64", cap(s.toks))
	}

	s.append(token{tokenDelim, 64})
	if cap(s.toks) != 128 {
		t.Errorf("capacity after 65 appends = %d, want 128", cap(s.toks))
	}

	for i := 65; i < 300; i++ {
		s.append(token{tokenDelim, uint32(i)})
	}
	if cap(s.toks) != 512 {
		t.Errorf("capacity after 300 appends = %d, want 512", cap(s.toks))
	}
	if s.len() != 300 {
		t.Errorf("len = %d, want 300", s.len())
	}
	for i, tok := range s.toks {
		if tok.offset != uint32(i) {
			t.Fatalf("token %d has offset %d after growth", i, tok.offset)
		}
	}
}

func TestTokenStream_Terminated(t *testing.T) {
	s := newTokenStream()
	defer s.release()

	if s.terminated() {
		t.Error("empty stream reported terminated")
	}
	s.append(token{tokenDelim, 0})
	if s.terminated() {
		t.Error("delimiter-only stream reported terminated")
	}
	s.append(token{tokenNull, 1})
	if !s.terminated() {
		t.Error("stream ending in zero-byte token not reported terminated")
	}
}

func TestTokenStream_PoolReuse(t *testing.T) {
	s := newTokenStream()
	for i := 0; i < 100; i++ {
		s.append(token{tokenRow, uint32(i)})
	}
	s.release()

	reused := newTokenStream()
	defer reused.release()
	if reused.len() != 0 {
		t.Errorf("pooled stream not reset: len = %d", reused.len())
	}
}
