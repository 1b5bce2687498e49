package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMood(t *testing.T) {
	assert.Equal(t, MoodHappy, NormalizeMood("happy"))
	assert.Equal(t, MoodAngry, NormalizeMood("  Angry "))
	assert.Equal(t, MoodCurious, NormalizeMood("CURIOUS"))
	assert.Equal(t, MoodNeutral, NormalizeMood("belligerent"))
	assert.Equal(t, MoodNeutral, NormalizeMood(""))
}

func TestPersonaSummaryNumbersGoals(t *testing.T) {
	p := testPersona()
	summary := p.Summary()
	assert.Contains(t, summary, "John, 52, blacksmith.")
	assert.Contains(t, summary, "Goal 1: finish the horseshoes")
	assert.Contains(t, summary, "Speech style: short, blunt sentences")
}
