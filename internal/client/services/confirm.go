package services

import "fmt"

// ConfirmState gates the irreversible delete. Pending is Shown with the
// delete call in flight; to the user both look the same.
type ConfirmState int

const (
	ConfirmHidden ConfirmState = iota
	ConfirmShown
	ConfirmPending
)

func (s ConfirmState) String() string {
	switch s {
	case ConfirmHidden:
		return "hidden"
	case ConfirmShown:
		return "shown"
	case ConfirmPending:
		return "pending"
	default:
		return fmt.Sprintf("ConfirmState(%d)", int(s))
	}
}

// Visible reports whether the confirmation modal is on screen.
func (s ConfirmState) Visible() bool {
	return s == ConfirmShown || s == ConfirmPending
}

// Request shows the modal.
func (s ConfirmState) Request() (ConfirmState, error) {
	switch s {
	case ConfirmHidden, ConfirmShown:
		return ConfirmShown, nil
	default:
		return s, s.illegal("request")
	}
}

// Cancel hides the modal with no side effect.
func (s ConfirmState) Cancel() (ConfirmState, error) {
	switch s {
	case ConfirmHidden, ConfirmShown:
		return ConfirmHidden, nil
	default:
		return s, s.illegal("cancel")
	}
}

// Begin marks the delete call as issued. Only a shown modal can be confirmed.
func (s ConfirmState) Begin() (ConfirmState, error) {
	switch s {
	case ConfirmShown:
		return ConfirmPending, nil
	default:
		return s, s.illegal("confirm")
	}
}

// Settle hides the modal after the delete call finished, whatever its outcome.
func (s ConfirmState) Settle() (ConfirmState, error) {
	switch s {
	case ConfirmPending:
		return ConfirmHidden, nil
	default:
		return s, s.illegal("settle")
	}
}

func (s ConfirmState) illegal(op string) error {
	return fmt.Errorf("%w: %s while confirmation is %s", ErrIllegalTransition, op, s)
}
