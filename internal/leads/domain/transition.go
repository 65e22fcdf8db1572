package domain

import "time"

// TransitionKind classifies a status change for activity logs and events.
// It never restricts a transition.
type TransitionKind string

const (
	TransitionSame      TransitionKind = "same"
	TransitionAdvance   TransitionKind = "advance"
	TransitionRegress   TransitionKind = "regress"
	TransitionStall     TransitionKind = "stall"
	TransitionResume    TransitionKind = "resume"
	TransitionCloseWon  TransitionKind = "close_won"
	TransitionCloseLost TransitionKind = "close_lost"
	TransitionReopen    TransitionKind = "reopen"
)

// Transition moves lead to next. The graph is open: any registered status
// may follow any other, terminal ones included, so reviving a dead lead is
// allowed. On an unknown status the original lead is returned unchanged
// together with an *InvalidStatusError. The seller is never touched.
func Transition(lead Lead, next Status, now time.Time) (Lead, error) {
	if !IsValid(next) {
		return lead, &InvalidStatusError{Status: string(next)}
	}

	out := lead.Clone()
	out.Status = next
	out.UpdatedAt = now
	return out, nil
}

// DescribeTransition classifies from -> to. Unknown statuses are treated
// as rank 0. Outliers have no funnel rank, so leaving one back into the
// funnel is a resume whatever the target stage.
func DescribeTransition(from, to Status) TransitionKind {
	if from == to {
		return TransitionSame
	}

	toInfo := registryIndex[to]
	fromInfo := registryIndex[from]

	switch {
	case toInfo.Won:
		return TransitionCloseWon
	case toInfo.Terminal:
		return TransitionCloseLost
	case fromInfo.Terminal:
		return TransitionReopen
	case toInfo.Outlier:
		return TransitionStall
	case fromInfo.Outlier:
		return TransitionResume
	case toInfo.Rank > fromInfo.Rank:
		return TransitionAdvance
	default:
		return TransitionRegress
	}
}
