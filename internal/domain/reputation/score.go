package reputation

const (
	NeutralScore  uint8 = 50
	MaxScore      uint8 = 100
	repaymentStep       = 5
	defaultStep         = 20
)

// Score maps a repayment history onto 0..100. It rises with successful repayments and falls
// with defaults, and a default weighs as much as four repayments.
func Score(successes, defaults uint32) uint8 {
	s := int64(NeutralScore) + repaymentStep*int64(successes) - defaultStep*int64(defaults)
	switch {
	case s < 0:
		return 0
	case s > int64(MaxScore):
		return MaxScore
	}
	return uint8(s)
}
