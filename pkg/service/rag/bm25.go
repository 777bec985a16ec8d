package rag

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// BM25 parameters, standard Robertson values
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// bm25Index is a sparse lexical ranker over the chunk set of one namespace.
// It is rebuilt whenever chunks are added; reads go through the owning
// Index's lock.
type bm25Index struct {
	docs     [][]string
	docFreq  map[string]int
	docLen   []int
	totalLen int
}

func newBM25Index() *bm25Index {
	return &bm25Index{docFreq: map[string]int{}}
}

func (b *bm25Index) add(text string) {
	tokens := tokenize(text)
	b.docs = append(b.docs, tokens)
	b.docLen = append(b.docLen, len(tokens))
	b.totalLen += len(tokens)

	seen := map[string]struct{}{}
	for _, tok := range tokens {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			b.docFreq[tok]++
		}
	}
}

type lexicalHit struct {
	doc   int
	score float64
}

// search returns up to k documents ranked by BM25 score. Documents with a
// zero score are excluded.
func (b *bm25Index) search(query string, k int) []lexicalHit {
	if len(b.docs) == 0 || k <= 0 {
		return nil
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	n := float64(len(b.docs))
	avgLen := float64(b.totalLen) / n

	var hits []lexicalHit
	for i, doc := range b.docs {
		tf := map[string]int{}
		for _, tok := range doc {
			tf[tok]++
		}

		var score float64
		for _, q := range queryTokens {
			freq := float64(tf[q])
			if freq == 0 {
				continue
			}
			df := float64(b.docFreq[q])
			idf := math.Log(1 + (n-df+0.5)/(df+0.5))
			norm := 1 - bm25B + bm25B*float64(b.docLen[i])/avgLen
			score += idf * freq * (bm25K1 + 1) / (freq + bm25K1*norm)
		}
		if score > 0 {
			hits = append(hits, lexicalHit{doc: i, score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
