package court

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourt() Court {
	return Court{
		ID:                    "c1",
		Name:                  "Court 1",
		BasePrice:             20,
		DynamicPricingEnabled: true,
		PeakHoursMultiplier:   1.3,
		WeekendMultiplier:     1.2,
	}
}

func testTemplate() PeriodTemplate {
	return PeriodTemplate{
		Name:       "Happy Hour",
		StartDate:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		StartTime:  "12:00",
		EndTime:    "15:00",
		Multiplier: 0.8,
		DaysOfWeek: []time.Weekday{time.Monday, time.Tuesday},
	}
}

func TestParseHour(t *testing.T) {
	cases := []struct {
		clock string
		hour  int
		ok    bool
	}{
		{"00:00", 0, true},
		{"09:30", 9, true},
		{"23:59", 23, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"12", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		hour, ok := ParseHour(tc.clock)
		assert.Equal(t, tc.ok, ok, "clock %q", tc.clock)
		if tc.ok {
			assert.Equal(t, tc.hour, hour, "clock %q", tc.clock)
		}
	}
}

func TestPeriodTemplateValidate(t *testing.T) {
	assert.NoError(t, testTemplate().Validate())

	tpl := testTemplate()
	tpl.Name = "  "
	assert.ErrorIs(t, tpl.Validate(), ErrEmptyName)

	tpl = testTemplate()
	tpl.StartDate, tpl.EndDate = tpl.EndDate, tpl.StartDate
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidDateRange)

	tpl = testTemplate()
	tpl.Multiplier = 0
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidMultiplier)

	tpl = testTemplate()
	tpl.StartTime, tpl.EndTime = "15:00", "12:00"
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidTimeRange)

	tpl = testTemplate()
	tpl.EndTime = "12:30"
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidTimeRange, "window must span at least one full hour")
}

func TestWithBasePrice(t *testing.T) {
	orig := testCourt()

	next, err := orig.WithBasePrice(35)
	require.NoError(t, err)
	assert.Equal(t, int64(35), next.BasePrice)
	assert.Equal(t, int64(20), orig.BasePrice, "original value unchanged")

	_, err = orig.WithBasePrice(-1)
	assert.ErrorIs(t, err, ErrNegativeBasePrice)
}

func TestMultiplierSetters(t *testing.T) {
	orig := testCourt()

	next, err := orig.WithPeakMultiplier(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, next.PeakHoursMultiplier)

	next, err = orig.WithWeekendMultiplier(1.1)
	require.NoError(t, err)
	assert.Equal(t, 1.1, next.WeekendMultiplier)

	_, err = orig.WithPeakMultiplier(0)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
	_, err = orig.WithWeekendMultiplier(-0.5)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
}

func TestWithDynamicPricing(t *testing.T) {
	orig := testCourt()
	next := orig.WithDynamicPricing(false)
	assert.False(t, next.DynamicPricingEnabled)
	assert.True(t, orig.DynamicPricingEnabled)
}

func TestAddSpecialPeriod(t *testing.T) {
	orig := testCourt()

	next, err := orig.AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	require.Len(t, next.SpecialPricing, 1)
	assert.Empty(t, orig.SpecialPricing, "original untouched")

	p := next.SpecialPricing[0]
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.Active, "new periods start active")
	assert.Equal(t, 12, p.StartHour())
	assert.Equal(t, 15, p.EndHour())

	// IDs are unique even for identical templates.
	again, err := next.AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	require.Len(t, again.SpecialPricing, 2)
	assert.NotEqual(t, again.SpecialPricing[0].ID, again.SpecialPricing[1].ID)

	tpl := testTemplate()
	tpl.Multiplier = -1
	_, err = orig.AddSpecialPeriod(tpl)
	assert.ErrorIs(t, err, ErrInvalidMultiplier)
}

func TestAddSpecialPeriodNormalizesDates(t *testing.T) {
	tpl := testTemplate()
	tpl.StartDate = time.Date(2026, time.March, 1, 14, 30, 0, 0, time.UTC)
	tpl.Name = "  Happy Hour  "

	next, err := testCourt().AddSpecialPeriod(tpl)
	require.NoError(t, err)

	p := next.SpecialPricing[0]
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, "Happy Hour", p.Name)
}

func TestRemoveSpecialPeriod(t *testing.T) {
	withPeriod, err := testCourt().AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	periodID := withPeriod.SpecialPricing[0].ID

	removed, err := withPeriod.RemoveSpecialPeriod(periodID)
	require.NoError(t, err)
	assert.Empty(t, removed.SpecialPricing)
	assert.Len(t, withPeriod.SpecialPricing, 1, "original untouched")

	_, err = withPeriod.RemoveSpecialPeriod("no-such-id")
	assert.ErrorIs(t, err, ErrPeriodNotFound)
}

func TestSetSpecialPeriodActive(t *testing.T) {
	withPeriod, err := testCourt().AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	periodID := withPeriod.SpecialPricing[0].ID

	toggled, err := withPeriod.SetSpecialPeriodActive(periodID, false)
	require.NoError(t, err)
	assert.False(t, toggled.SpecialPricing[0].Active)
	assert.True(t, withPeriod.SpecialPricing[0].Active, "original untouched")

	back, err := toggled.SetSpecialPeriodActive(periodID, true)
	require.NoError(t, err)
	assert.True(t, back.SpecialPricing[0].Active)

	_, err = withPeriod.SetSpecialPeriodActive("no-such-id", true)
	assert.ErrorIs(t, err, ErrPeriodNotFound)
}

func TestCloneDoesNotAliasWeekdaySlices(t *testing.T) {
	withPeriod, err := testCourt().AddSpecialPeriod(testTemplate())
	require.NoError(t, err)

	next := withPeriod.WithDynamicPricing(false)
	next.SpecialPricing[0].DaysOfWeek[0] = time.Sunday

	assert.Equal(t, time.Monday, withPeriod.SpecialPricing[0].DaysOfWeek[0])
}

func TestCourtValidate(t *testing.T) {
	assert.NoError(t, testCourt().Validate())

	c := testCourt()
	c.Name = ""
	assert.ErrorIs(t, c.Validate(), ErrEmptyName)

	c = testCourt()
	c.BasePrice = -1
	assert.ErrorIs(t, c.Validate(), ErrNegativeBasePrice)

	c = testCourt()
	c.WeekendMultiplier = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidMultiplier)

	c, err := testCourt().AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	c.SpecialPricing = append(c.SpecialPricing, c.SpecialPricing[0])
	assert.ErrorIs(t, c.Validate(), ErrDuplicatePeriod)
}

func TestAppliesOn(t *testing.T) {
	withPeriod, err := testCourt().AddSpecialPeriod(testTemplate())
	require.NoError(t, err)
	p := withPeriod.SpecialPricing[0]

	assert.True(t, p.AppliesOn(time.Monday))
	assert.True(t, p.AppliesOn(time.Tuesday))
	assert.False(t, p.AppliesOn(time.Saturday))
}
