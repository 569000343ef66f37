package style

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToRGBA(t *testing.T) {
	got, err := HexToRGBA("#E69F00", 0.2)
	require.NoError(t, err)
	assert.Equal(t, "rgba(230, 159, 0, 0.2)", got)
}

func TestHexToRGBA_Invalid(t *testing.T) {
	for _, in := range []string{"", "#fff", "#GGGGGG", "12345678"} {
		t.Run(in, func(t *testing.T) {
			_, err := HexToRGBA(in, 1)
			assert.Error(t, err)
		})
	}
}

func TestForMonth_OctoberIsReference(t *testing.T) {
	assert.Equal(t, OctoberThresholds, ForMonth(time.October))
}

func TestForMonth_ScalesByFactor(t *testing.T) {
	th := ForMonth(time.May)
	assert.InDelta(t, 2.64*0.910, th.DeficientLow, 1e-9)
	assert.InDelta(t, 3.48*0.910, th.HighExcess, 1e-9)
}

func TestMonthlyFactors_Complete(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		_, ok := MonthlyFactors[m]
		assert.True(t, ok, "missing factor for %s", m)
	}
}

func TestBounds(t *testing.T) {
	th := OctoberThresholds
	lo, hi := th.Bounds(Deficient, 1.5, 4.2)
	assert.Equal(t, 1.5, lo)
	assert.Equal(t, 2.64, hi)
	lo, hi = th.Bounds(Excess, 1.5, 4.2)
	assert.Equal(t, 3.48, lo)
	assert.Equal(t, 4.2, hi)
	lo, hi = th.Bounds(Optimum, 1.5, 4.2)
	assert.Equal(t, 2.88, lo)
	assert.Equal(t, 3.24, hi)
}

func TestBand_StringAndColor(t *testing.T) {
	assert.Equal(t, "Optimum", Optimum.String())
	assert.Equal(t, "rgba(30, 144, 255, 0.25)", Deficient.Color())
	assert.Equal(t, "Unknown", Band(9).String())
}

func TestTreatmentByLabel(t *testing.T) {
	tr, ok := TreatmentByLabel("N60")
	require.True(t, ok)
	assert.Equal(t, 60, tr.Rate)
	assert.Equal(t, []int{12, 29, 43, 58, 61}, tr.Trees)

	_, ok = TreatmentByLabel("N0")
	assert.False(t, ok)
}

func TestTheme_WithOverrides(t *testing.T) {
	base := Default()
	th := base.WithOverrides(map[string]string{Citrus: "#000000", "Banana": "#111111"}, map[string]string{"N10": "#222222"})

	assert.Equal(t, "#000000", th.Crop(Citrus))
	assert.Equal(t, "#222222", th.Treatment("N10"))
	assert.Equal(t, "#808080", th.Crop("Banana"))
	assert.Equal(t, "#E69F00", base.Crop(Citrus), "base theme must not change")
}

func TestBand_Hex(t *testing.T) {
	assert.Equal(t, "#4ECDC4", Optimum.Hex())
	assert.Equal(t, "#808080", Band(-1).Hex())
	assert.Equal(t, "rgba(255, 107, 107, 0.3)", MustRGBA(Excess.Hex(), 0.3))
}
