package units

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_KnownAbbreviations(t *testing.T) {
	cases := map[string]string{
		"oz":   "ounce",
		"OZ":   "ounce",
		"lb":   "pound",
		"g":    "gram",
		"kg":   "kilogram",
		"ml":   "milliliter",
		"l":    "liter",
		"tbsp": "tablespoon",
		"tsp":  "teaspoon",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "normalize %q", in)
	}
}

func TestNormalize_UnknownPassesThroughLowercased(t *testing.T) {
	assert.Equal(t, "xyz", Normalize("XYZ"))
	assert.Equal(t, "pinch", Normalize(" Pinch "))
}

func TestConvert_OunceToGram(t *testing.T) {
	got := Convert(100, "ounce", 1, "gram")
	assert.InDelta(t, 100/28.3495, got, 1e-9)
}

func TestConvert_RoundTrip(t *testing.T) {
	// ounce -> gram -> ounce must return the original within float tolerance.
	grams := Convert(3.5, "oz", 1, "g")
	back := Convert(grams, "gram", 1, "ounce")
	assert.True(t, math.Abs(back-3.5) < 1e-9, "round trip drifted: %v", back)
}

func TestConvert_UnknownUnitFallsBackToBaseAmount(t *testing.T) {
	assert.Equal(t, 42.0, Convert(42, "handful", 1, "gram"))
	assert.Equal(t, 42.0, Convert(42, "gram", 1, "handful"))
}

func TestConvertible(t *testing.T) {
	assert.True(t, Convertible("oz", "g"))
	assert.False(t, Convertible("handful", "g"))
}
