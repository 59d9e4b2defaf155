package indicator

import (
	"fmt"

	"quantcore/types"
)

var (
	ErrInvalidPeriod    = fmt.Errorf("period must be positive: %w", types.ErrConfiguration)
	ErrUnknownATRMethod = fmt.Errorf("unknown ATR method: %w", types.ErrConfiguration)
	ErrRangeMismatch    = fmt.Errorf("high/low length must match close: %w", types.ErrInvalidInput)
)
