package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zafarh/dsj-hrms-api/internal/models"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Ranged, Classify(models.StatusInService))
	for status := range exitStatuses {
		assert.Equal(t, Exit, Classify(status), "status %s", status)
	}
}

func TestApplyStatusChange(t *testing.T) {
	t.Run("to exit clears range", func(t *testing.T) {
		block := models.EmploymentBlock{
			Status:           models.StatusInService,
			FromDate:         dp(2015, 3, 1),
			ToDate:           dp(2020, 1, 1),
			CurrentlyWorking: true,
		}
		out := ApplyStatusChange(block, models.StatusRetired)
		assert.Equal(t, models.StatusRetired, out.Status)
		assert.Nil(t, out.FromDate)
		assert.Nil(t, out.ToDate)
		assert.False(t, out.CurrentlyWorking)
		// Original untouched.
		assert.NotNil(t, block.FromDate)
	})

	t.Run("to ranged clears status date", func(t *testing.T) {
		block := models.EmploymentBlock{
			Status:     models.StatusSuspended,
			StatusDate: dp(2020, 6, 1),
		}
		out := ApplyStatusChange(block, models.StatusInService)
		assert.Equal(t, models.StatusInService, out.Status)
		assert.Nil(t, out.StatusDate)
	})
}

func TestEffectiveInterval(t *testing.T) {
	t.Run("exit is a single day", func(t *testing.T) {
		iv := EffectiveInterval(models.EmploymentBlock{
			Status:     models.StatusRetired,
			StatusDate: dp(2021, 1, 10),
		})
		require.NotNil(t, iv.Start)
		require.NotNil(t, iv.End)
		assert.True(t, iv.Start.Equal(*iv.End))
	})

	t.Run("currently working is open-ended", func(t *testing.T) {
		iv := EffectiveInterval(models.EmploymentBlock{
			Status:           models.StatusInService,
			FromDate:         dp(2015, 3, 1),
			ToDate:           dp(2020, 1, 1),
			CurrentlyWorking: true,
		})
		require.NotNil(t, iv.Start)
		assert.Nil(t, iv.End, "the flag overrides a stale To Date")
	})

	t.Run("closed range", func(t *testing.T) {
		iv := EffectiveInterval(models.EmploymentBlock{
			Status:   models.StatusInService,
			FromDate: dp(2015, 3, 1),
			ToDate:   dp(2020, 1, 1),
		})
		require.NotNil(t, iv.End)
		assert.Equal(t, d(2020, 1, 1), *iv.End)
	})
}

func TestExitDateLabel(t *testing.T) {
	assert.Equal(t, "Retirement Date", ExitDateLabel(models.StatusRetired))
	assert.Equal(t, "Date of Death", ExitDateLabel(models.StatusDeceased))
	assert.Equal(t, "Status Date", ExitDateLabel(models.StatusInService))
}
