// Package problems is the puzzle oracle boundary. The combat engine
// consumes the Oracle interface and treats problems as opaque gates: it
// never inspects question internals, only the pass/fail verdict of
// Check. The arithmetic generator here is the stand-in collaborator
// used by the server and the simulator.
package problems

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mathspire/mathspire-server/internal/game/cards"
)

// Problem is one generated question with its answer check. Options is
// nil in free-text mode.
type Problem struct {
	ID       string
	Question string
	Options  []string
	check    func(string) bool
}

// Check reports whether the submission is correct. Both presentation
// modes (multiple-choice and free-text) share this contract.
func (p Problem) Check(submission string) bool {
	if p.check == nil {
		return false
	}
	return p.check(strings.TrimSpace(submission))
}

// FreeText reports whether the problem expects typed input rather than
// an option pick.
func (p Problem) FreeText() bool {
	return len(p.Options) == 0
}

// New builds a problem from its parts. Oracle implementations outside
// this package use it to wrap their own question sources.
func New(question string, options []string, check func(string) bool) Problem {
	return Problem{
		ID:       uuid.NewString(),
		Question: question,
		Options:  options,
		check:    check,
	}
}

// Oracle generates problems for a math topic hint.
type Oracle interface {
	Generate(topic cards.MathTopic) Problem
}

// Generator is a seedable arithmetic Oracle.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate produces a problem for the given topic. Unknown topics fall
// back to addition.
func (g *Generator) Generate(topic cards.MathTopic) Problem {
	switch topic {
	case cards.TopicSubtraction:
		a, b := g.rng.Intn(50)+10, g.rng.Intn(10)+1
		return g.numeric(fmt.Sprintf("%d - %d = ?", a, b), a-b)
	case cards.TopicMultiplication:
		a, b := g.rng.Intn(11)+2, g.rng.Intn(11)+2
		return g.numeric(fmt.Sprintf("%d × %d = ?", a, b), a*b)
	case cards.TopicDivision:
		q, d := g.rng.Intn(11)+2, g.rng.Intn(9)+2
		return g.numeric(fmt.Sprintf("%d ÷ %d = ?", q*d, d), q)
	case cards.TopicPrimes:
		return g.primeQuestion()
	case cards.TopicFractions:
		n := (g.rng.Intn(20) + 2) * 2
		return g.numeric(fmt.Sprintf("What is half of %d?", n), n/2)
	default:
		a, b := g.rng.Intn(50)+1, g.rng.Intn(50)+1
		return g.numeric(fmt.Sprintf("%d + %d = ?", a, b), a+b)
	}
}

// numeric builds a numeric-answer problem, randomly presented as
// multiple choice or free text.
func (g *Generator) numeric(question string, answer int) Problem {
	p := Problem{
		ID:       uuid.NewString(),
		Question: question,
		check: func(s string) bool {
			n, err := strconv.Atoi(s)
			return err == nil && n == answer
		},
	}
	if g.rng.Intn(2) == 0 {
		p.Options = g.distractors(answer)
	}
	return p
}

// distractors returns four shuffled options including the answer.
func (g *Generator) distractors(answer int) []string {
	seen := map[int]bool{answer: true}
	opts := []int{answer}
	for len(opts) < 4 {
		delta := g.rng.Intn(9) - 4
		if delta == 0 {
			continue
		}
		wrong := answer + delta
		if seen[wrong] {
			continue
		}
		seen[wrong] = true
		opts = append(opts, wrong)
	}
	g.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })

	out := make([]string, len(opts))
	for i, n := range opts {
		out[i] = strconv.Itoa(n)
	}
	return out
}

func (g *Generator) primeQuestion() Problem {
	n := g.rng.Intn(48) + 2
	want := "no"
	if isPrime(n) {
		want = "yes"
	}
	return Problem{
		ID:       uuid.NewString(),
		Question: fmt.Sprintf("Is %d a prime number?", n),
		Options:  []string{"yes", "no"},
		check: func(s string) bool {
			return strings.EqualFold(s, want)
		},
	}
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
