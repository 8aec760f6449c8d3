package cancellation

import "github.com/Domenick1991/airline-reservation/internal/domain"

var allowedTransitions = map[domain.CancellationStatus]map[domain.CancellationStatus]bool{
	"":                           {domain.CancellationPending: true},
	domain.CancellationPending:   {domain.CancellationCancelled: true},
	domain.CancellationCancelled: {domain.CancellationRefunded: true},
	domain.CancellationRefunded:  {},
}

// CanTransition reports whether a booking may move from one cancellation
// state to another. A nil from means the booking was never cancelled.
func CanTransition(from *domain.CancellationStatus, to domain.CancellationStatus) bool {
	var key domain.CancellationStatus
	if from != nil {
		key = *from
	}
	return allowedTransitions[key][to]
}
