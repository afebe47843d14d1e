package forms

import (
	"math"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Roughly 5 words to extract per 100 words of text.
const (
	recommendRatio = 0.05
	recommendMin   = 5
	recommendMax   = 60
)

// CountWords returns number of whitespace separated words.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// RecommendWords returns suggested number of words to extract for text of
// wordCount words.
func RecommendWords(wordCount int) int {
	n := int(math.Round(float64(wordCount) * recommendRatio))
	return max(recommendMin, min(n, recommendMax))
}

// Stats describes chapter text as shown to user while filling the form.
type Stats struct {
	Words       int
	Sentences   int
	Recommended int
}

// Tokenizer training data is big, load it only when needed.
var tokenizer = sync.OnceValues(func() (*sentences.DefaultSentenceTokenizer, error) {
	return english.NewSentenceTokenizer(nil)
})

// TextStats computes text statistics. Sentence count is best effort - it is
// zero when tokenizer is not available. Only English training data is
// available, it is used for text in any book language. Punctuation based
// boundaries hold for all API languages, abbreviations of other languages
// may split sentences and count is informational only.
func TextStats(text string) Stats {
	text = strings.TrimSpace(text)
	st := Stats{Words: CountWords(text)}
	st.Recommended = RecommendWords(st.Words)
	if st.Words == 0 {
		return st
	}
	if tok, err := tokenizer(); err == nil {
		st.Sentences = len(tok.Tokenize(text))
	}
	return st
}
