package catalog

import (
	"strings"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

const (
	minTitleSimilarity   = 0.65
	minArtistSimilarity  = 0.55
	minOverallSimilarity = 0.70

	// prefixSimilarity is credited when the query is a whole-word prefix of a title.
	prefixSimilarity = 0.8
)

// Matcher resolves start-track queries against a track list: exact ID first, then
// fuzzy title/artist matching on normalized text.
type Matcher struct{}

var _ ports.TrackResolver = Matcher{}

// Resolve returns the track query refers to. It fails with ports.NoConfidentMatchError
// when nothing scores above the thresholds or two tracks tie for best.
func (Matcher) Resolve(query string, tracks []domain.Track) (domain.Track, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return domain.Track{}, ports.NoConfidentMatchError{}
	}
	for _, t := range tracks {
		if t.ID == q {
			return t, nil
		}
	}

	title, artist := splitQuery(q)
	var (
		best, closest           domain.Track
		bestScore, closestScore = -1.0, -1.0
		tie                     bool
	)
	for _, t := range tracks {
		score, ok := matchScore(title, artist, t)
		if score > closestScore {
			closest, closestScore = t, score
		}
		if !ok {
			continue
		}
		switch {
		case score > bestScore:
			best, bestScore, tie = t, score, false
		case score == bestScore:
			tie = true
		}
	}

	if best.ID == "" || tie {
		return domain.Track{}, ports.NoConfidentMatchError{Query: q, Best: closest.String(), Score: max(closestScore, 0)}
	}
	return best, nil
}

// matchScore rates how well title and artist describe candidate. Without an artist the
// title alone decides.
func matchScore(title, artist string, candidate domain.Track) (float64, bool) {
	nt, ct := normalize(title), normalize(candidate.Title)
	if nt == "" || ct == "" {
		return 0, false
	}
	titleSim := similarity(nt, ct)
	if strings.HasPrefix(ct+" ", nt+" ") {
		titleSim = max(titleSim, prefixSimilarity)
	}

	if artist == "" {
		return titleSim, titleSim >= minOverallSimilarity
	}

	na, ca := normalize(artist), normalize(candidate.Artist)
	if na == "" || ca == "" {
		return titleSim, false
	}
	artistSim := similarity(na, ca)
	score := 0.7*titleSim + 0.3*artistSim
	if titleSim < minTitleSimilarity || artistSim < minArtistSimilarity || score < minOverallSimilarity {
		return score, false
	}
	return score, true
}

func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(maxLen)
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			sub := 1
			if ra[i-1] == rb[j-1] {
				sub = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+sub)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
