package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"spots left marker", "Beginner Hockey 2.0 - 3 SPOTS LEFT", "Beginner Hockey 2.0"},
		{"single spot left", "Goalie Camp - 1 SPOT LEFT", "Goalie Camp"},
		{"percent full", "Power Skating 1.0 - 60% FULL", "Power Skating 1.0"},
		{"bare full", "Shooting & Puck Handling - FULL", "Shooting & Puck Handling"},
		{"no marker", "Pre-Beginner Hockey", "Pre-Beginner Hockey"},
		{"extra whitespace", "Beginner   Hockey  1.0", "Beginner Hockey 1.0"},
		{"marker without dash", "Beginner Hockey 1.0 2 SPOTS LEFT", "Beginner Hockey 1.0"},
		{"empty", "", ""},
		{"only marker", "FULL", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Beginner Hockey 2.0 - 3 SPOTS LEFT",
		"Power Skating 1.0 - 60% FULL",
		"Shooting & Puck Handling - FULL",
		"Team Hoodie - Large",
		"  spaced   out  name ",
		"",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Category
	}{
		{"Beginner Hockey 2.0", CategoryBeginnerHockey},
		{"Pre-Beginner Hockey", CategoryBeginnerHockey},
		{"Power Skating 1.0", CategorySkillsDevelopment},
		{"Powerskating Advanced", CategorySkillsDevelopment},
		{"Shooting & Puck Handling", CategorySkillsDevelopment},
		{"Goalie Camp", CategorySkillsDevelopment},
		{"Team Hoodie - Large", CategoryMerchandise},
		{"Water Bottle", CategoryMerchandise},
		{"", CategoryMerchandise},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.in))
		})
	}
}

func TestIsProgram(t *testing.T) {
	assert.True(t, IsProgram("Beginner Hockey 2.0"))
	assert.True(t, IsProgram("Goalie Camp"))
	assert.False(t, IsProgram("Team Hoodie - Large"))
	assert.False(t, IsProgram(""))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "Beginner Hockey", CategoryBeginnerHockey.String())
	assert.Equal(t, "Skills Development", CategorySkillsDevelopment.String())
	assert.Equal(t, "Merchandise", CategoryMerchandise.String())
}
