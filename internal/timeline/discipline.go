package timeline

import (
	"fmt"

	"github.com/zafarh/dsj-hrms-api/internal/models"
)

// ValidateDisciplinaryActions checks the actions nested in one block.
// Actions may only hang off an In-Service record; decision fields become
// mandatory once the inquiry is decided.
func ValidateDisciplinaryActions(blockIndex int, block models.EmploymentBlock) *Result {
	res := &Result{}
	if len(block.DisciplinaryActions) == 0 {
		return res
	}
	if IsExit(block.Status) {
		res.add(blockIndex, FieldStatus, KindEligibility,
			"disciplinary actions may only be recorded on an In-Service record")
	}
	for i, action := range block.DisciplinaryActions {
		if action.Allegation == "" {
			res.add(blockIndex, actionField(i, "allegation"), KindIncomplete, "allegation is required")
		}
		if action.InquiryStatus != models.InquiryDecided {
			continue
		}
		if action.Decision == "" {
			res.add(blockIndex, actionField(i, "decision"), KindIncomplete,
				"decision is required once the inquiry is decided")
		}
		if action.DecisionDate == nil {
			res.add(blockIndex, actionField(i, "decision_date"), KindIncomplete,
				"decision date is required once the inquiry is decided")
		}
	}
	return res
}

func actionField(i int, name string) string {
	return fmt.Sprintf("disciplinary_actions[%d].%s", i, name)
}
