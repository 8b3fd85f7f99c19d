package checkout

// State is the checkout screen's lifecycle. Transitions only move forward
// except Failed, which allows another submission attempt.
type State int

const (
	Idle State = iota
	LoadingOrder
	AwaitingPaymentToken
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case LoadingOrder:
		return "loading_order"
	case AwaitingPaymentToken:
		return "awaiting_payment_token"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Terminal reports whether the checkout is finished for good.
func (s State) Terminal() bool {
	return s == Succeeded
}
