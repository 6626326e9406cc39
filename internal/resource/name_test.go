package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToResourceName(t *testing.T) {
	cases := map[string]string{
		"The Huntress":            "the-huntress",
		"Dwight Fairfield":        "dwight-fairfield",
		"Barbecue & Chilli":       "barbecue-&-chilli",
		"Hex: Ruin":               "hex-ruin",
		"Dead Man's Switch":       "dead-mans-switch",
		`"Liar"`:                  "liar",
		"Mother's Dwelling":       "mothers-dwelling",
		"Grim Pantry":             "grim-pantry",
		"Scratched Mirror":        "scratched-mirror",
		"Boon: Circle of Healing": "boon-circle-of-healing",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, ToResourceName(input), "input %q", input)
	}
}

func TestToResourceNameIdempotent(t *testing.T) {
	names := []string{"The Huntress", "Hex: Ruin", "Dead Man's Switch"}
	for _, name := range names {
		once := ToResourceName(name)
		assert.Equal(t, once, ToResourceName(once))
	}
}

func TestToResourceNameEmpty(t *testing.T) {
	assert.Equal(t, "", ToResourceName(""))
}
