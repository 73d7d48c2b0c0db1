package statement

import (
	"time"

	"github.com/bobmcallan/extrato/internal/models"
)

// Unit shortfalls above this count as a missing prefix; anything smaller is
// accumulated rounding between the fund's figures and the row sums.
const partialThreshold = 0.1

// Reconcile compares the fund's reported unit total against the units whose
// movements are visible in the statement rows. A shortfall above the
// threshold means the statement starts mid-history: the account held units
// before the first visible row. The invisible prefix is valued at the first
// visible month's unit price, which is the earliest price the statement
// itself can vouch for.
func Reconcile(reportedUnits, visibleUnits, unitValueAtStart float64, firstVisibleMonth time.Time) models.PartialMetadata {
	missing := reportedUnits - visibleUnits
	return models.PartialMetadata{
		IsPartial:         missing > partialThreshold,
		MissingUnits:      missing,
		StartingPosition:  missing * unitValueAtStart,
		FirstVisibleMonth: firstVisibleMonth,
	}
}
