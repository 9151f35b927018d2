package titlematch

import (
	"regexp"
	"sort"

	"github.com/hbollon/go-edlib"
)

var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// Confidence buckets a similarity score.
type Confidence int

const (
	ConfidenceNone   Confidence = iota // < 0.70
	ConfidenceLow                      // >= 0.70
	ConfidenceMedium                   // >= 0.85
	ConfidenceHigh                     // >= 0.95
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

func confidenceFor(score float64) Confidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// Candidate is a catalog entry to compare against a query.
type Candidate struct {
	Title string
	Year  int
}

// Match is a scored candidate.
type Match struct {
	Index      int // position in the input slice
	Score      float64
	Confidence Confidence
}

// Score compares a query with one candidate. Jaro-Winkler on normalized
// titles, adjusted for sequel numbers and, when the query names one, the year.
func Score(query string, c Candidate) float64 {
	text, year := SplitYear(query)
	q := Normalize(text)
	t := Normalize(c.Title)

	score := float64(edlib.JaroWinklerSimilarity(q, t))
	score = adjustForNumbers(score, numberRegex.FindAllString(q, -1), numberRegex.FindAllString(t, -1))

	if year > 0 && c.Year > 0 {
		switch diff := year - c.Year; {
		case diff == 0:
			score = min(score*1.05, 1.0)
		case diff == 1 || diff == -1:
			// Festival vs. theatrical release years often differ by one.
		default:
			score *= 0.85
		}
	}
	return score
}

// Rank orders candidates by descending score. Ties keep input order.
func Rank(query string, candidates []Candidate) []Match {
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		s := Score(query, c)
		matches[i] = Match{Index: i, Score: s, Confidence: confidenceFor(s)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// Best returns the highest scoring candidate, or false if none reaches ConfidenceLow.
func Best(query string, candidates []Candidate) (Match, bool) {
	ranked := Rank(query, candidates)
	if len(ranked) == 0 || ranked[0].Confidence == ConfidenceNone {
		return Match{}, false
	}
	return ranked[0], true
}

// adjustForNumbers rewards matching sequel numbers and penalizes missing or different ones.
func adjustForNumbers(score float64, queryNums, titleNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(titleNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(titleNums))
	for _, n := range titleNums {
		have[n] = true
	}
	for _, n := range queryNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
