package journal

import (
	"sort"

	"github.com/SeamusWaldron/cubescene/internal/notation"
	"github.com/SeamusWaldron/cubescene/internal/storage"
)

// maxOccurrences bounds the samples kept per n-gram.
const maxOccurrences = 10

// NGram is a repeated move sequence.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence is where an n-gram was found.
type NGramOccurrence struct {
	StartIndex int   `json:"start_index"`
	TsMs       int64 `json:"ts_ms"`
}

// NGramReport holds the top n-grams keyed by n.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"`
}

// token packs a move into one integer for hashing.
func token(m notation.Move, order int) uint16 {
	t := (int(m.Axis)*order + m.Layer) * 2
	if m.Clockwise {
		t++
	}
	return uint16(t + 1)
}

// RollingHash is a Rabin-Karp hash over a fixed window of tokens.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64
	window []uint16
	n      int
}

// NewRollingHash creates a rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   1031,
		n:      n,
		window: make([]uint16, 0, n),
		pow:    1,
	}
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll appends a token, dropping the oldest once the window is full.
func (rh *RollingHash) Roll(t uint16) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, t)
		rh.hash = rh.hash*rh.base + uint64(t)
		return
	}
	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(t)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = t
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Ready reports whether the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

type ngramEntry struct {
	start       int
	last        int
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the topK most frequent n-grams for each n in [minN, maxN].
// Only sequences seen at least twice are reported.
func MineNGrams(records []storage.MoveRecord, order, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{TopNGrams: make(map[int][]NGram)}
	if minN < 1 || len(records) < minN {
		return report
	}

	tokens := make([]uint16, len(records))
	for i, r := range records {
		tokens[i] = token(r.Move, order)
	}

	for n := minN; n <= maxN && n <= len(records); n++ {
		if ngrams := mineN(tokens, records, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report
}

func mineN(tokens []uint16, records []storage.MoveRecord, n, topK int) []NGram {
	counts := make(map[uint64]*ngramEntry)
	rh := NewRollingHash(n)

	for i, t := range tokens {
		rh.Roll(t)
		if !rh.Ready() {
			continue
		}
		start := i - n + 1
		occ := NGramOccurrence{StartIndex: start, TsMs: records[start].TsMs}

		entry, exists := counts[rh.Hash()]
		if !exists {
			counts[rh.Hash()] = &ngramEntry{start: start, last: start, count: 1, occurrences: []NGramOccurrence{occ}}
			continue
		}
		// collisions keep the first sequence
		if !equalTokens(tokens[entry.start:entry.start+n], tokens[start:start+n]) {
			continue
		}
		// overlapping windows of one run are not repeats
		if start-entry.last < n {
			continue
		}
		entry.last = start
		entry.count++
		if len(entry.occurrences) < maxOccurrences {
			entry.occurrences = append(entry.occurrences, occ)
		}
	}

	entries := make([]*ngramEntry, 0, len(counts))
	for _, e := range counts {
		if e.count >= 2 {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].start < entries[j].start
	})
	if len(entries) > topK {
		entries = entries[:topK]
	}

	result := make([]NGram, len(entries))
	for i, e := range entries {
		seq := make([]string, n)
		for j := 0; j < n; j++ {
			seq[j] = records[e.start+j].Letter
		}
		result[i] = NGram{N: n, Sequence: seq, Count: e.count, Occurrences: e.occurrences}
	}
	return result
}

func equalTokens(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
