package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		// Python matches "Python Developer": skill component (1/2)*60 = 30,
		// GPA component (8/10)*40 = 32, total 62.
		got := Score([]string{"Python", "React"}, []string{"Python Developer", "Node.js"}, 8.0)
		assert.Equal(t, 62, got)
	})

	t.Run("no skills and zero GPA scores zero", func(t *testing.T) {
		assert.Equal(t, 0, Score(nil, []string{"Go", "SQL"}, 0))
	})

	t.Run("perfect GPA alone guarantees at least 40", func(t *testing.T) {
		assert.GreaterOrEqual(t, Score(nil, []string{"Go"}, 10), 40)
		assert.GreaterOrEqual(t, Score([]string{"COBOL"}, []string{"Rust", "Kubernetes"}, 10), 40)
	})

	t.Run("empty requirements do not divide by zero", func(t *testing.T) {
		assert.Equal(t, 32, Score([]string{"Python"}, nil, 8.0))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		got := Score([]string{"python"}, []string{"PYTHON developer"}, 0)
		assert.Equal(t, 60, got)
	})

	t.Run("a skill counts once across requirements", func(t *testing.T) {
		// Python matches both requirements but contributes a single match:
		// (1/2)*60 = 30.
		got := Score([]string{"Python"}, []string{"Python Developer", "Python Scripting"}, 0)
		assert.Equal(t, 30, got)
	})

	t.Run("duplicate skills are ignored", func(t *testing.T) {
		base := Score([]string{"Go"}, []string{"Go Developer"}, 5)
		withDupes := Score([]string{"Go", "go", " GO "}, []string{"Go Developer"}, 5)
		assert.Equal(t, base, withDupes)
	})

	t.Run("duplicate requirements dilute the denominator", func(t *testing.T) {
		// The match loop sees one distinct requirement, but the skill
		// component divides by the raw listing: (1/2)*60 = 30.
		got := Score([]string{"Python"}, []string{"Python", "Python"}, 0)
		assert.Equal(t, 30, got)
	})

	t.Run("full match with top GPA scores 100", func(t *testing.T) {
		got := Score([]string{"Go", "SQL"}, []string{"Go services", "SQL modelling"}, 10)
		assert.Equal(t, 100, got)
	})

	t.Run("deterministic", func(t *testing.T) {
		skills := []string{"React", "TypeScript", "CSS"}
		reqs := []string{"React Engineer", "GraphQL"}
		first := Score(skills, reqs, 7.3)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Score(skills, reqs, 7.3))
		}
	})
}
