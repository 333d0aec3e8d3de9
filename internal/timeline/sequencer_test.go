package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/internal/models"
	"github.com/zafarh/dsj-hrms-api/pkg/dateutil"
)

func inService(from, to *dateutil.Date, current bool) models.EmploymentBlock {
	return models.EmploymentBlock{
		Status:            models.StatusInService,
		PostingPlaceTitle: "Civil Court Okara",
		FromDate:          from,
		ToDate:            to,
		CurrentlyWorking:  current,
	}
}

func exitBlock(status models.EmploymentStatus, on *dateutil.Date) models.EmploymentBlock {
	return models.EmploymentBlock{
		Status:            status,
		PostingPlaceTitle: "Civil Court Okara",
		StatusDate:        on,
	}
}

func errorsOfKind(res *Result, kind Kind) []FieldError {
	var out []FieldError
	for _, e := range res.Errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestValidateHistoryEmpty(t *testing.T) {
	doa := d(2010, 1, 1)
	assert.True(t, ValidateHistory(doa, nil).OK())
	assert.True(t, ValidateHistory(doa, []models.EmploymentBlock{{}}).OK(),
		"a blank form row is not an error")
}

func TestValidateHistoryCleanTimeline(t *testing.T) {
	doa := d(2010, 1, 1)
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), dp(2015, 3, 1), false),
		inService(dp(2015, 3, 1), nil, true),
	}
	res := ValidateHistory(doa, history)
	assert.True(t, res.OK(), "touching boundaries are contiguous, got %+v", res.Errors)
}

func TestValidateHistoryOverlap(t *testing.T) {
	doa := d(2010, 1, 1)
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), dp(2016, 1, 1), false),
		inService(dp(2015, 1, 1), dp(2018, 1, 1), false),
	}
	res := ValidateHistory(doa, history)
	overlaps := errorsOfKind(res, KindOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, 1, overlaps[0].Block, "error lands on the later record")
	assert.Equal(t, FieldFromDate, overlaps[0].Field)
	assert.ElementsMatch(t, []int{0, 1}, overlaps[0].Related)
	assert.Contains(t, overlaps[0].Message, "service record 1")
}

func TestValidateHistoryOverlapUnsortedInput(t *testing.T) {
	doa := d(2010, 1, 1)
	// Same conflict, array order reversed; indices must track the caller's
	// slice, not the chronological position.
	history := []models.EmploymentBlock{
		inService(dp(2015, 1, 1), dp(2018, 1, 1), false),
		inService(dp(2010, 1, 1), dp(2016, 1, 1), false),
	}
	res := ValidateHistory(doa, history)
	overlaps := errorsOfKind(res, KindOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, 1, overlaps[0].Block)
	assert.ElementsMatch(t, []int{0, 1}, overlaps[0].Related)
}

func TestValidateHistoryExitInsideOpenCurrentBlock(t *testing.T) {
	doa := d(2010, 1, 1)
	// The retirement date falls mid-way through a posting that is still
	// marked currently working, so the fill is blocked and the degenerate
	// exit day collides with the open range.
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), nil, true),
		exitBlock(models.StatusRetired, dp(2015, 6, 1)),
	}
	res := ValidateHistory(doa, history)
	overlaps := errorsOfKind(res, KindOverlap)
	require.Len(t, overlaps, 1)
	assert.Equal(t, 1, overlaps[0].Block)
	assert.Equal(t, FieldStatusDate, overlaps[0].Field)
	assert.ElementsMatch(t, []int{0, 1}, overlaps[0].Related)
}

func TestValidateHistoryAppointmentAnchor(t *testing.T) {
	doa := d(2010, 1, 1)

	t.Run("missing anchor", func(t *testing.T) {
		history := []models.EmploymentBlock{
			inService(dp(2011, 1, 1), nil, true),
		}
		res := ValidateHistory(doa, history)
		seq := errorsOfKind(res, KindSequencing)
		require.Len(t, seq, 1)
		assert.Equal(t, 0, seq[0].Block)
		assert.Contains(t, seq[0].Message, "date of appointment")
	})

	t.Run("duplicate anchors", func(t *testing.T) {
		history := []models.EmploymentBlock{
			inService(dp(2010, 1, 1), dp(2012, 1, 1), false),
			exitBlock(models.StatusSuspended, dp(2010, 1, 1)),
		}
		res := ValidateHistory(doa, history)
		seq := errorsOfKind(res, KindSequencing)
		require.NotEmpty(t, seq)
		assert.Contains(t, seq[0].Message, "only one")
	})
}

func TestValidateHistoryCompleteness(t *testing.T) {
	doa := d(2010, 1, 1)
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), nil, false),
	}
	res := ValidateHistory(doa, history)
	inc := errorsOfKind(res, KindIncomplete)
	require.Len(t, inc, 1)
	assert.Equal(t, FieldToDate, inc[0].Field)
}

func TestValidateHistoryCurrentUniqueness(t *testing.T) {
	doa := d(2010, 1, 1)
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), nil, true),
		inService(dp(2020, 1, 1), nil, true),
	}
	res := ValidateHistory(doa, history)
	var flagged []FieldError
	for _, e := range res.Errors {
		if e.Field == FieldCurrentlyWorking {
			flagged = append(flagged, e)
		}
	}
	require.Len(t, flagged, 1)
	assert.Equal(t, 1, flagged[0].Block)
}

func TestValidateHistoryExitMissingDate(t *testing.T) {
	doa := d(2010, 1, 1)
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), dp(2020, 1, 1), false),
		exitBlock(models.StatusRetired, nil),
	}
	res := ValidateHistory(doa, history)
	inc := errorsOfKind(res, KindIncomplete)
	require.Len(t, inc, 1)
	assert.Equal(t, FieldStatusDate, inc[0].Field)
	assert.Contains(t, inc[0].Message, "Retirement Date")
}

func TestProposeAutoFill(t *testing.T) {
	doa := d(2010, 1, 1)

	t.Run("retirement closes the open posting", func(t *testing.T) {
		history := []models.EmploymentBlock{
			inService(dp(2010, 1, 1), nil, false),
			exitBlock(models.StatusRetired, dp(2021, 1, 10)),
		}
		patch, ok := ProposeAutoFill(doa, history)
		require.True(t, ok)
		assert.Equal(t, Patch{Block: 0, Field: FieldToDate, Value: d(2021, 1, 10)}, patch)

		// Validation treats the fill as applied; no residual errors.
		assert.True(t, ValidateHistory(doa, history).OK())

		// Applying the patch explicitly yields the same clean history.
		filled := ApplyPatch(history, patch)
		require.NotNil(t, filled[0].ToDate)
		assert.Equal(t, d(2021, 1, 10), *filled[0].ToDate)
		assert.Nil(t, history[0].ToDate, "input is never mutated")
	})

	t.Run("currently working blocks the fill", func(t *testing.T) {
		history := []models.EmploymentBlock{
			inService(dp(2010, 1, 1), nil, true),
			exitBlock(models.StatusRetired, dp(2021, 1, 10)),
		}
		_, ok := ProposeAutoFill(doa, history)
		assert.False(t, ok)
	})

	t.Run("exit before the posting starts", func(t *testing.T) {
		history := []models.EmploymentBlock{
			exitBlock(models.StatusSuspended, dp(2009, 1, 1)),
			inService(dp(2010, 1, 1), nil, false),
		}
		_, ok := ProposeAutoFill(doa, history)
		assert.False(t, ok)
	})
}

func TestSortChronological(t *testing.T) {
	history := []models.EmploymentBlock{
		exitBlock(models.StatusRetired, dp(2021, 1, 10)),
		inService(dp(2010, 1, 1), dp(2015, 1, 1), false),
		inService(dp(2015, 1, 1), dp(2021, 1, 10), false),
	}
	sorted := SortChronological(history)
	require.Len(t, sorted, 3)
	assert.Equal(t, d(2010, 1, 1), *sorted[0].FromDate)
	assert.Equal(t, d(2015, 1, 1), *sorted[1].FromDate)
	assert.Equal(t, models.StatusRetired, sorted[2].Status)
}

func TestMarkCurrent(t *testing.T) {
	history := []models.EmploymentBlock{
		inService(dp(2010, 1, 1), nil, true),
		inService(dp(2020, 1, 1), nil, false),
	}
	out := MarkCurrent(history, 1)
	assert.False(t, out[0].CurrentlyWorking)
	assert.True(t, out[1].CurrentlyWorking)
	assert.True(t, history[0].CurrentlyWorking, "input is never mutated")
}
