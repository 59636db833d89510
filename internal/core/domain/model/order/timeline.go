package order

import "time"

// StepState describes how a timeline step relates to the order's progress.
type StepState string

const (
	// StepCompleted marks a step the order has passed through.
	StepCompleted StepState = "completed"

	// StepCurrent marks the step the order is at right now.
	StepCurrent StepState = "current"

	// StepPending marks a step the order has not reached yet.
	StepPending StepState = "pending"
)

// TimelineStep is one entry of the order progress view shown on operational
// dashboards and the customer-facing tracking widget.
type TimelineStep struct {
	// Status is the canonical status this step represents.
	Status Status

	// Label is the display name of the step.
	Label string

	// State is completed, current or pending.
	State StepState

	// Timestamp is when the step was reached, nil for pending steps.
	Timestamp *time.Time

	// Reason carries the cancellation reason on the terminal cancelled
	// step and is empty everywhere else.
	Reason string
}

// getHappyPathStatuses returns the canonical happy-path statuses in
// lifecycle order.
func getHappyPathStatuses() []Status {
	return []Status{Placed, Confirmed, Picked, Packed, OutForDelivery, Delivered}
}

// getStepLabels returns the display labels of the timeline steps.
func getStepLabels() map[Status]string {
	return map[Status]string{
		Placed:         "Order Placed",
		Confirmed:      "Confirmed",
		Picked:         "Picked",
		Packed:         "Packed",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
		Returned:       "Returned",
	}
}

// ProjectTimeline derives the progress view from an order's current state.
// It is a pure read: calling it any number of times, from any display
// context, yields the same result for the same order state.
func ProjectTimeline(o *Order) []TimelineStep {
	return BuildTimeline(o.Status(), o.Timestamps(), o.CancellationReason())
}

// BuildTimeline derives the progress view from raw order state, without
// requiring a fully rehydrated aggregate. Read paths that select only the
// status and timestamp columns use this directly.
//
// Projection rules:
//   - For a status on the happy path, every earlier step is completed, the
//     step matching the status is current, and later steps are pending.
//     Completed and current steps carry their timestamps.
//   - A cancelled order yields a single terminal cancelled entry with the
//     cancellation reason and timestamp; partial happy-path progress is
//     not shown.
//   - A returned order yields the full happy path, all completed, followed
//     by a terminal returned entry.
func BuildTimeline(status Status, stamps Timestamps, cancellationReason string) []TimelineStep {
	if status == Cancelled {
		return []TimelineStep{{
			Status:    Cancelled,
			Label:     getStepLabels()[Cancelled],
			State:     StepCurrent,
			Timestamp: stamps.CancelledAt,
			Reason:    cancellationReason,
		}}
	}

	happyPath := getHappyPathStatuses()
	currentIdx := happyPathIndex(status)
	if status == Returned {
		currentIdx = len(happyPath)
	}

	steps := make([]TimelineStep, 0, len(happyPath)+1)
	for i, stepStatus := range happyPath {
		state := StepPending
		switch {
		case i < currentIdx:
			state = StepCompleted
		case i == currentIdx:
			state = StepCurrent
		}

		steps = append(steps, TimelineStep{
			Status:    stepStatus,
			Label:     getStepLabels()[stepStatus],
			State:     state,
			Timestamp: timestampFor(stepStatus, stamps),
		})
	}

	if status == Returned {
		steps = append(steps, TimelineStep{
			Status:    Returned,
			Label:     getStepLabels()[Returned],
			State:     StepCurrent,
			Timestamp: stamps.ReturnedAt,
		})
	}

	return steps
}

// happyPathIndex returns the position of a status on the happy path,
// or -1 for statuses outside it.
func happyPathIndex(status Status) int {
	for i, s := range getHappyPathStatuses() {
		if s == status {
			return i
		}
	}
	return -1
}

// timestampFor returns the timestamp matching a happy-path step.
func timestampFor(status Status, stamps Timestamps) *time.Time {
	//nolint:exhaustive // only happy-path statuses appear as steps here
	switch status {
	case Placed:
		placedAt := stamps.PlacedAt
		return &placedAt
	case Confirmed:
		return stamps.ConfirmedAt
	case Picked:
		return stamps.PickedAt
	case Packed:
		return stamps.PackedAt
	case OutForDelivery:
		return stamps.OutForDeliveryAt
	case Delivered:
		return stamps.DeliveredAt
	default:
		return nil
	}
}
