package dateutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO(t *testing.T) {
	d, err := Parse("2010-01-05")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2010, Month: 1, Day: 5}, d)
}

func TestParseDisplay(t *testing.T) {
	d, err := Parse("05/01/2010")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2010, Month: 1, Day: 5}, d)
}

func TestParseRejectsImpossibleDates(t *testing.T) {
	cases := []string{"2010-02-30", "30/02/2010", "2010-13-01", "1899-01-01", "3100-01-01", "2010-04-31", "", "not-a-date"}
	for _, input := range cases {
		_, err := Parse(input)
		assert.Error(t, err, "expected %q to be rejected", input)
	}
}

func TestParseAcceptsLeapDay(t *testing.T) {
	_, err := Parse("2012-02-29")
	require.NoError(t, err)

	_, err = Parse("2100-02-29")
	assert.Error(t, err, "2100 is not a leap year")

	_, err = Parse("2000-02-29")
	assert.NoError(t, err, "2000 is a leap year")
}

func TestRoundTripBothFormats(t *testing.T) {
	d := Date{Year: 2015, Month: 6, Day: 30}

	iso, err := Parse(d.String())
	require.NoError(t, err)
	assert.Equal(t, d, iso)

	display, err := Parse(d.Display())
	require.NoError(t, err)
	assert.Equal(t, d, display)
}

func TestCompareOrdering(t *testing.T) {
	a := Date{Year: 2010, Month: 1, Day: 1}
	b := Date{Year: 2010, Month: 1, Day: 2}
	c := Date{Year: 2010, Month: 2, Day: 1}

	assert.Equal(t, -1, Compare(a, b))
	assert.Equal(t, 1, Compare(c, b))
	assert.Equal(t, 0, Compare(a, a))
	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
	d := Date{Year: 2020, Month: 12, Day: 31}
	assert.Equal(t, Date{Year: 2021, Month: 1, Day: 1}, d.AddDays(1))
	assert.Equal(t, Date{Year: 2020, Month: 12, Day: 30}, d.AddDays(-1))

	feb := Date{Year: 2020, Month: 2, Day: 28}
	assert.Equal(t, Date{Year: 2020, Month: 2, Day: 29}, feb.AddDays(1))
}

func TestAddYears(t *testing.T) {
	d := Date{Year: 1990, Month: 5, Day: 14}
	assert.Equal(t, Date{Year: 2008, Month: 5, Day: 14}, d.AddYears(18))

	leap := Date{Year: 2020, Month: 2, Day: 29}
	assert.Equal(t, Date{Year: 2021, Month: 3, Day: 1}, leap.AddYears(1))
}

func TestDaysBetweenInclusive(t *testing.T) {
	a := Date{Year: 2020, Month: 6, Day: 1}
	b := Date{Year: 2020, Month: 6, Day: 30}

	assert.Equal(t, 30, DaysBetweenInclusive(a, b))
	assert.Equal(t, 30, DaysBetweenInclusive(b, a))
	assert.Equal(t, 1, DaysBetweenInclusive(a, a))
}

func TestJSONRoundTrip(t *testing.T) {
	d := Date{Year: 2010, Month: 3, Day: 9}

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2010-03-09"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)

	var null Date
	require.NoError(t, json.Unmarshal([]byte("null"), &null))
	assert.True(t, null.IsZero())
}

func TestScanFromTime(t *testing.T) {
	d := Date{Year: 2018, Month: 11, Day: 2}

	var scanned Date
	require.NoError(t, scanned.Scan(d.Time()))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsZero())
}
