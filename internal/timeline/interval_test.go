package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

func d(y, m, day int) dateutil.Date {
	out, err := dateutil.New(y, m, day)
	if err != nil {
		panic(err)
	}
	return out
}

func dp(y, m, day int) *dateutil.Date {
	v := d(y, m, day)
	return &v
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		mode BoundaryMode
		want bool
	}{
		{
			name: "disjoint ranges",
			a:    Span(d(2010, 1, 1), dp(2012, 6, 30)),
			b:    Span(d(2013, 1, 1), dp(2015, 1, 1)),
			mode: TouchingAllowed,
			want: false,
		},
		{
			name: "touching endpoints allowed",
			a:    Span(d(2010, 1, 1), dp(2015, 3, 1)),
			b:    Span(d(2015, 3, 1), nil),
			mode: TouchingAllowed,
			want: false,
		},
		{
			name: "touching endpoints strict",
			a:    Span(d(2010, 1, 1), dp(2015, 3, 1)),
			b:    Span(d(2015, 3, 1), dp(2015, 3, 10)),
			mode: TouchingOverlaps,
			want: true,
		},
		{
			name: "genuine overlap",
			a:    Span(d(2010, 1, 1), dp(2016, 1, 1)),
			b:    Span(d(2015, 1, 1), dp(2018, 1, 1)),
			mode: TouchingAllowed,
			want: true,
		},
		{
			name: "open end collides with later start",
			a:    Span(d(2010, 1, 1), nil),
			b:    Span(d(2020, 1, 1), dp(2021, 1, 1)),
			mode: TouchingAllowed,
			want: true,
		},
		{
			name: "point strictly inside range",
			a:    Point(d(2014, 5, 5)),
			b:    Span(d(2010, 1, 1), dp(2016, 1, 1)),
			mode: TouchingAllowed,
			want: true,
		},
		{
			name: "point inside open-ended range",
			a:    Point(d(2015, 6, 1)),
			b:    Span(d(2010, 1, 1), nil),
			mode: TouchingAllowed,
			want: true,
		},
		{
			name: "point on range start allowed",
			a:    Point(d(2010, 1, 1)),
			b:    Span(d(2010, 1, 1), dp(2016, 1, 1)),
			mode: TouchingAllowed,
			want: false,
		},
		{
			name: "point on range boundary allowed",
			a:    Point(d(2016, 1, 1)),
			b:    Span(d(2010, 1, 1), dp(2016, 1, 1)),
			mode: TouchingAllowed,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b, tt.mode))
			// Overlap detection must not care about argument order.
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a, tt.mode))
		})
	}
}

func TestOverlapsDegeneratePoint(t *testing.T) {
	p := Point(d(2020, 6, 1))
	assert.False(t, Overlaps(p, p, TouchingAllowed), "a single day does not strictly overlap itself")
	assert.True(t, Overlaps(p, p, TouchingOverlaps))
}

func TestOverlappingPairs(t *testing.T) {
	intervals := []Interval{
		Span(d(2010, 1, 1), dp(2016, 1, 1)),
		Span(d(2015, 1, 1), dp(2018, 1, 1)),
		Span(d(2019, 1, 1), dp(2020, 1, 1)),
	}
	pairs := OverlappingPairs(intervals, TouchingAllowed)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]int{0, 1}, pairs[0])
}

func TestContains(t *testing.T) {
	iv := Span(d(2010, 1, 1), dp(2015, 1, 1))
	assert.True(t, Contains(iv, d(2012, 6, 1), TouchingAllowed))
	assert.False(t, Contains(iv, d(2015, 1, 1), TouchingAllowed), "boundary is not strictly inside")
	assert.True(t, Contains(iv, d(2015, 1, 1), TouchingOverlaps))
	assert.False(t, Contains(iv, d(2016, 1, 1), TouchingOverlaps))
}
