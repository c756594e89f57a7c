// Package generator draws entries and builds answer options.
package generator

import (
	"math/rand"
	"strings"
	"time"

	"github.com/verte-zerg/lrn/internal/model"
)

// DefaultOptions is the number of choices shown per round.
const DefaultOptions = 8

// Generator produces randomized selections.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Choose picks an entry whose key is not in used, uniformly at random.
// It returns false once every entry has been used.
func (g *Generator) Choose(bank []model.Entry, used map[string]struct{}) (model.Entry, bool) {
	eligible := make([]int, 0, len(bank))
	for i, entry := range bank {
		if _, ok := used[entry.Key()]; ok {
			continue
		}
		eligible = append(eligible, i)
	}
	if len(eligible) == 0 {
		return model.Entry{}, false
	}
	return bank[eligible[g.rnd.Intn(len(eligible))]], true
}

// Options returns the answer for correct plus up to n-1 distractors from pool,
// in random order. Distractors are distinct entries whose text differs from the answer.
func (g *Generator) Options(correct model.Entry, pool []model.Entry, lang model.Language, n int) []string {
	answer := correct.Answer(lang)
	options := []string{answer}
	if n <= 1 {
		return options
	}

	candidates := make([]string, 0, len(pool))
	for _, entry := range pool {
		if text := entry.Answer(lang); text != answer {
			candidates = append(candidates, text)
		}
	}
	count := n - 1
	if count > len(candidates) {
		count = len(candidates)
	}
	for _, idx := range g.rnd.Perm(len(candidates))[:count] {
		options = append(options, candidates[idx])
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// Scramble shuffles the words of the answer sentence.
func (g *Generator) Scramble(correct model.Entry, lang model.Language) string {
	words := strings.Fields(correct.Answer(lang))
	g.rnd.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	return strings.Join(words, " ")
}
