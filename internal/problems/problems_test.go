package problems

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathspire/mathspire-server/internal/game/cards"
)

// solve extracts the expected answer from the question text so the test
// does not duplicate the generator's arithmetic.
func solve(t *testing.T, q string) string {
	t.Helper()

	if strings.HasPrefix(q, "Is ") {
		var n int
		_, err := fmt.Sscanf(q, "Is %d a prime number?", &n)
		require.NoError(t, err)
		if isPrime(n) {
			return "yes"
		}
		return "no"
	}
	if strings.HasPrefix(q, "What is half of ") {
		var n int
		_, err := fmt.Sscanf(q, "What is half of %d?", &n)
		require.NoError(t, err)
		return strconv.Itoa(n / 2)
	}

	var a, b int
	var op string
	_, err := fmt.Sscanf(q, "%d %s %d = ?", &a, &op, &b)
	require.NoError(t, err)
	switch op {
	case "+":
		return strconv.Itoa(a + b)
	case "-":
		return strconv.Itoa(a - b)
	case "×":
		return strconv.Itoa(a * b)
	case "÷":
		return strconv.Itoa(a / b)
	}
	t.Fatalf("unrecognized question %q", q)
	return ""
}

func TestGenerateAllTopics(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(2)))

	topics := []cards.MathTopic{
		cards.TopicAddition, cards.TopicSubtraction, cards.TopicMultiplication,
		cards.TopicDivision, cards.TopicPrimes, cards.TopicFractions,
	}
	for _, topic := range topics {
		for i := 0; i < 50; i++ {
			p := gen.Generate(topic)
			require.NotEmpty(t, p.ID)
			require.NotEmpty(t, p.Question)

			answer := solve(t, p.Question)
			assert.True(t, p.Check(answer), "topic %s: %q should accept %q", topic, p.Question, answer)
			assert.False(t, p.Check(answer+"1"), "topic %s: %q should reject a wrong answer", topic, p.Question)
		}
	}
}

func TestMultipleChoiceContainsAnswer(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(9)))

	sawChoice, sawFree := false, false
	for i := 0; i < 100; i++ {
		p := gen.Generate(cards.TopicAddition)
		if p.FreeText() {
			sawFree = true
			continue
		}
		sawChoice = true
		require.Len(t, p.Options, 4)

		correct := 0
		for _, opt := range p.Options {
			if p.Check(opt) {
				correct++
			}
		}
		assert.Equal(t, 1, correct, "exactly one option is correct")
	}
	assert.True(t, sawChoice, "both presentation modes occur")
	assert.True(t, sawFree)
}

func TestCheckTrimsWhitespace(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(4)))
	p := gen.Generate(cards.TopicAddition)
	answer := solve(t, p.Question)
	assert.True(t, p.Check("  "+answer+" \n"))
}

func TestUnansweredProblemFails(t *testing.T) {
	var p Problem
	assert.False(t, p.Check("42"))
}
