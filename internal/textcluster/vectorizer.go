package textcluster

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultTokenPattern matches runs of two or more word characters.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

// sklearnTokenPattern is what a TfidfVectorizer fit with defaults exports.
const sklearnTokenPattern = `\b\w\w+\b`

const unicodeWord = `\p{L}\p{N}_`

// VectorizerSpec is the persisted form of a fitted TF-IDF vectorizer.
type VectorizerSpec struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
	Norm         string         `json:"norm"`
	TokenPattern string         `json:"token_pattern,omitempty"`
}

// Vectorizer projects text into the frozen TF-IDF space. It is never
// refit; Transform is read-only and safe for concurrent use.
type Vectorizer struct {
	vocab     map[string]int
	idf       []float64
	lowercase bool
	sublinear bool
	binary    bool
	norm      string
	token     *regexp.Regexp
}

// Term is one non-zero coordinate of a transformed document.
type Term struct {
	Index int
	Value float64
}

func NewVectorizer(spec VectorizerSpec) (*Vectorizer, error) {
	if len(spec.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer vocabulary is empty")
	}
	if len(spec.IDF) != len(spec.Vocabulary) {
		return nil, fmt.Errorf("vectorizer has %d idf weights for %d terms", len(spec.IDF), len(spec.Vocabulary))
	}
	seen := make([]bool, len(spec.IDF))
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= len(spec.IDF) {
			return nil, fmt.Errorf("vocabulary index %d for %q out of range", idx, term)
		}
		if seen[idx] {
			return nil, fmt.Errorf("vocabulary index %d assigned twice", idx)
		}
		seen[idx] = true
	}

	norm := strings.ToLower(spec.Norm)
	switch norm {
	case "l2", "l1", "", "none":
	default:
		return nil, fmt.Errorf("unsupported norm %q", spec.Norm)
	}

	pattern, err := translateTokenPattern(spec.TokenPattern)
	if err != nil {
		return nil, err
	}
	token, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile token pattern: %w", err)
	}

	lowercase := true
	if spec.Lowercase != nil {
		lowercase = *spec.Lowercase
	}

	return &Vectorizer{
		vocab:     spec.Vocabulary,
		idf:       spec.IDF,
		lowercase: lowercase,
		sublinear: spec.SublinearTF,
		binary:    spec.Binary,
		norm:      norm,
		token:     token,
	}, nil
}

// translateTokenPattern rewrites an exported Python pattern for RE2.
// Python's \w is Unicode-aware and Go's is ASCII-only, so \w is expanded
// to letter, digit and underscore classes. Word boundaries have no Unicode
// form in RE2 and are rejected unless the whole pattern is the default.
func translateTokenPattern(pattern string) (string, error) {
	pattern = strings.TrimPrefix(pattern, "(?u)")
	if pattern == "" || pattern == sklearnTokenPattern {
		return DefaultTokenPattern, nil
	}

	var b strings.Builder
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			next := pattern[i+1]
			i++
			switch next {
			case 'w':
				if inClass {
					b.WriteString(unicodeWord)
				} else {
					b.WriteString("[" + unicodeWord + "]")
				}
			case 'W':
				if inClass {
					return "", fmt.Errorf("token pattern %q: \\W inside a character class is not supported", pattern)
				}
				b.WriteString("[^" + unicodeWord + "]")
			case 'b', 'B':
				return "", fmt.Errorf("token pattern %q: word boundaries cannot match Unicode text in RE2", pattern)
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			// a leading ']' or '^]' is literal
			if i+1 < len(pattern) && pattern[i+1] == '^' {
				b.WriteByte('^')
				i++
			}
			if i+1 < len(pattern) && pattern[i+1] == ']' {
				b.WriteByte(']')
				i++
			}
		case c == ']' && inClass:
			inClass = false
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// Dim is the size of the vector space.
func (v *Vectorizer) Dim() int {
	return len(v.idf)
}

// Tokens splits text the way the vectorizer was fit.
func (v *Vectorizer) Tokens(text string) []string {
	if v.lowercase {
		text = strings.ToLower(text)
	}
	return v.token.FindAllString(text, -1)
}

// Transform returns the sparse TF-IDF vector of text ordered by index.
// Out-of-vocabulary tokens are dropped.
func (v *Vectorizer) Transform(text string) []Term {
	counts := make(map[int]float64)
	for _, tok := range v.Tokens(text) {
		if idx, ok := v.vocab[tok]; ok {
			counts[idx]++
		}
	}

	terms := make([]Term, 0, len(counts))
	for idx, tf := range counts {
		switch {
		case v.binary:
			tf = 1
		case v.sublinear:
			tf = 1 + math.Log(tf)
		}
		terms = append(terms, Term{Index: idx, Value: tf * v.idf[idx]})
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Index < terms[j].Index })

	var total float64
	switch v.norm {
	case "l2":
		for _, t := range terms {
			total += t.Value * t.Value
		}
		total = math.Sqrt(total)
	case "l1":
		for _, t := range terms {
			total += math.Abs(t.Value)
		}
	}
	if total > 0 {
		for i := range terms {
			terms[i].Value /= total
		}
	}
	return terms
}
