package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValidTemplates(t *testing.T) {
	presets := Presets()
	require.NotEmpty(t, presets)

	seen := map[string]bool{}
	for _, p := range presets {
		assert.False(t, seen[p.Key], "duplicate preset key %q", p.Key)
		seen[p.Key] = true

		assert.NoError(t, p.Template.Validate(), "preset %q", p.Key)
		assert.NotEmpty(t, p.Label, "preset %q", p.Key)
	}
}

func TestPresetByKey(t *testing.T) {
	p, ok := PresetByKey("happy-hour")
	require.True(t, ok)
	assert.Equal(t, 0.8, p.Template.Multiplier)
	assert.Equal(t, "12:00", p.Template.StartTime)

	_, ok = PresetByKey("no-such-preset")
	assert.False(t, ok)
}

func TestPresetDatesCoverComingQuarter(t *testing.T) {
	for _, p := range Presets() {
		assert.True(t, p.Template.EndDate.After(p.Template.StartDate), "preset %q", p.Key)
		assert.Equal(t, p.Template.StartDate.AddDate(0, 3, 0), p.Template.EndDate, "preset %q", p.Key)
	}
}
