package scoring

// MatchKind classifies how a candidate token was matched against the
// reference pool.
type MatchKind string

const (
	// MatchExact means an identical token was found in the reference pool.
	MatchExact MatchKind = "exact"

	// MatchFuzzy means a non-identical reference token was accepted because
	// its similarity ratio met the configured threshold.
	MatchFuzzy MatchKind = "fuzzy"

	// MatchNone means no acceptable reference token remained.
	MatchNone MatchKind = "unmatched"
)

// MatchRecord describes the outcome for a single candidate token. Exactly
// one record is produced per candidate token, in candidate order.
type MatchRecord struct {
	// Candidate is the spoken token under consideration.
	Candidate string

	// Reference is the reference token consumed by this match.
	// Empty for unmatched records.
	Reference string

	// Kind classifies the match.
	Kind MatchKind

	// Score is the similarity that produced the match: 100 for exact
	// matches, the fuzzy ratio for fuzzy matches, 0 when unmatched.
	Score float64

	// Distance is the Levenshtein edit distance between Candidate and
	// Reference for fuzzy matches, 0 otherwise.
	Distance int
}

// AlignmentResult is the outcome of aligning a candidate token sequence
// against a reference sequence.
//
// Invariants: Matched ≤ min(TotalCandidate, TotalReference); every
// reference token is consumed by at most one record; len(Records) equals
// TotalCandidate.
type AlignmentResult struct {
	// Matched counts candidate tokens that found an exact or fuzzy match.
	Matched int

	// TotalCandidate is the number of candidate (spoken) tokens.
	TotalCandidate int

	// TotalReference is the number of reference tokens.
	TotalReference int

	// Records holds one MatchRecord per candidate token, in candidate order.
	Records []MatchRecord

	// Remaining lists reference tokens never consumed by a match, in their
	// original order — the words that were never spoken.
	Remaining []string
}

// Count returns the number of records of the given kind.
func (r AlignmentResult) Count(kind MatchKind) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

// Align performs a greedy one-to-one matching of candidate tokens against
// the reference token multiset in a single left-to-right pass:
//
//  1. An identical token remaining in the pool is consumed as an exact
//     match (earliest occurrence first).
//  2. Otherwise, when useFuzzy is set, the remaining pool entry with the
//     highest similarity [Ratio] is consumed as a fuzzy match, provided
//     its score is at least fuzzyThreshold. Ties resolve to the
//     lowest-indexed pool entry.
//  3. Otherwise the token is recorded as unmatched.
//
// The algorithm is greedy, not globally optimal: an earlier fuzzy match
// may consume a reference token that a later candidate would have matched
// exactly, and that decision is never revisited. This keeps scoring
// deterministic at O(n·m) worst case.
//
// Empty sequences are valid and yield Matched == 0.
func Align(candidate, reference []string, fuzzyThreshold int, useFuzzy bool) AlignmentResult {
	pool := newRefPool(reference)
	res := AlignmentResult{
		TotalCandidate: len(candidate),
		TotalReference: len(reference),
		Records:        make([]MatchRecord, 0, len(candidate)),
	}

	for _, tok := range candidate {
		if pool.takeExact(tok) {
			res.Matched++
			res.Records = append(res.Records, MatchRecord{
				Candidate: tok,
				Reference: tok,
				Kind:      MatchExact,
				Score:     100,
			})
			continue
		}

		if useFuzzy {
			if ref, score, ok := pool.takeBest(tok, fuzzyThreshold); ok {
				res.Matched++
				res.Records = append(res.Records, MatchRecord{
					Candidate: tok,
					Reference: ref,
					Kind:      MatchFuzzy,
					Score:     score,
					Distance:  EditDistance(tok, ref),
				})
				continue
			}
		}

		res.Records = append(res.Records, MatchRecord{
			Candidate: tok,
			Kind:      MatchNone,
		})
	}

	res.Remaining = pool.remaining()
	return res
}

// refPool is an index-tracked multiset over the reference tokens. Exact
// lookups pop the lowest remaining index for a token in amortised O(1);
// fuzzy scans walk remaining entries in index order, so score ties always
// resolve to the first-seen reference token.
type refPool struct {
	tokens []string
	alive  []bool
	byTok  map[string][]int
	left   int
}

func newRefPool(reference []string) *refPool {
	p := &refPool{
		tokens: reference,
		alive:  make([]bool, len(reference)),
		byTok:  make(map[string][]int, len(reference)),
		left:   len(reference),
	}
	for i, tok := range reference {
		p.alive[i] = true
		p.byTok[tok] = append(p.byTok[tok], i)
	}
	return p
}

// takeExact removes the earliest remaining occurrence of tok and reports
// whether one existed.
func (p *refPool) takeExact(tok string) bool {
	queue := p.byTok[tok]
	// Queue entries already consumed by fuzzy matches are skipped.
	for len(queue) > 0 && !p.alive[queue[0]] {
		queue = queue[1:]
	}
	if len(queue) == 0 {
		delete(p.byTok, tok)
		return false
	}
	idx := queue[0]
	p.byTok[tok] = queue[1:]
	p.alive[idx] = false
	p.left--
	return true
}

// takeBest scans the remaining pool for the entry most similar to tok.
// The strict > comparison means the lowest-indexed entry wins ties. The
// winning entry is removed and returned only when its score reaches
// threshold. Because bestScore starts at 0, a pool whose best similarity
// is exactly 0 never matches, even at threshold 0; a zero-score pairing
// shares no characters and is noise, not a match.
func (p *refPool) takeBest(tok string, threshold int) (ref string, score float64, ok bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, alive := range p.alive {
		if !alive {
			continue
		}
		if s := Ratio(tok, p.tokens[i]); s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < float64(threshold) {
		return "", 0, false
	}
	p.alive[bestIdx] = false
	p.left--
	return p.tokens[bestIdx], bestScore, true
}

// remaining returns the unconsumed reference tokens in original order.
func (p *refPool) remaining() []string {
	out := make([]string, 0, p.left)
	for i, alive := range p.alive {
		if alive {
			out = append(out, p.tokens[i])
		}
	}
	return out
}
