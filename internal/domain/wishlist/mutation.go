package wishlist

type Direction string

const (
	DirectionAdd    Direction = "add"
	DirectionRemove Direction = "remove"
)

// PendingMutation records one optimistic toggle between local apply and
// server reconciliation. PriorState is what Contains reported before the
// apply; it is the rollback target if the request fails.
type PendingMutation struct {
	ID         string
	Direction  Direction
	PriorState bool
}

func NewPendingMutation(id string, wasIn bool) PendingMutation {
	direction := DirectionAdd
	if wasIn {
		direction = DirectionRemove
	}

	return PendingMutation{
		ID:         id,
		Direction:  direction,
		PriorState: wasIn,
	}
}

// Optimistic is the membership state applied locally before the server
// answers: the opposite of the prior state.
func (m PendingMutation) Optimistic() bool {
	return !m.PriorState
}
