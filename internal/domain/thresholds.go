package domain

// ThresholdLadder lists the session percentages that trigger a notification.
var ThresholdLadder = []int{25, 50, 75, 90}

// Notification announces that an account crossed a threshold band.
type Notification struct {
	AccountID   AccountID
	AccountName string
	Threshold   int
	Percentage  int
}

// EvaluateThresholds compares percentage against last, the highest band
// already notified. It returns the bands crossed upward in ascending order and
// the new last-notified band. A drop snaps the state down to the highest band
// still at or below percentage and crosses nothing.
func EvaluateThresholds(last, percentage int) ([]int, int) {
	if percentage < last {
		return nil, SnapThreshold(percentage)
	}

	var crossed []int
	next := last
	for _, threshold := range ThresholdLadder {
		if percentage >= threshold && next < threshold {
			crossed = append(crossed, threshold)
			next = threshold
		}
	}

	return crossed, next
}

// SnapThreshold returns the highest ladder value at or below value, or 0.
func SnapThreshold(value int) int {
	snapped := 0
	for _, threshold := range ThresholdLadder {
		if value >= threshold {
			snapped = threshold
		}
	}

	return snapped
}
