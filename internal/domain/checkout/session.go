package checkout

import (
	"time"

	"github.com/google/uuid"
	domainErrors "github.com/yuzvak/storefront-client/internal/domain/errors"
)

type Stage string

const (
	StageInit              Stage = "INIT"
	StageOrderCreating     Stage = "ORDER_CREATING"
	StageOrderCreated      Stage = "ORDER_CREATED"
	StagePaymentInitiating Stage = "PAYMENT_INITIATING"
	StagePaymentConfirming Stage = "PAYMENT_CONFIRMING"
	StageCompleted         Stage = "COMPLETED"
	StageFailed            Stage = "FAILED"
)

func (s Stage) String() string {
	return string(s)
}

func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageFailed
}

// forward lists the legal next stages. Any stage may move to FAILED; nothing
// leaves a terminal stage.
var forward = map[Stage][]Stage{
	StageInit:              {StageOrderCreating},
	StageOrderCreating:     {StageOrderCreated},
	StageOrderCreated:      {StagePaymentInitiating, StageCompleted},
	StagePaymentInitiating: {StagePaymentConfirming},
	StagePaymentConfirming: {StageCompleted},
}

func (s Stage) CanAdvanceTo(next Stage) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StageFailed {
		return true
	}
	for _, candidate := range forward[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

type Mode string

const (
	ModeGuest         Mode = "GUEST"
	ModeAuthenticated Mode = "AUTHENTICATED"
)

// Session is the state of one checkout attempt. The saga is its only writer
// and the stage only ever moves forward; a failure terminates the session
// rather than rewinding it.
type Session struct {
	ID            string
	Mode          Mode
	BuyerInfo     BuyerInfo
	PaymentMethod PaymentMethod
	Stage         Stage
	OrderID       string
	FailureReason string
	StartedAt     time.Time
}

func NewSession(mode Mode, buyer BuyerInfo, method PaymentMethod, startedAt time.Time) *Session {
	return &Session{
		ID:            uuid.NewString(),
		Mode:          mode,
		BuyerInfo:     buyer,
		PaymentMethod: method,
		Stage:         StageInit,
		StartedAt:     startedAt,
	}
}

func (s *Session) Advance(next Stage) error {
	if !s.Stage.CanAdvanceTo(next) {
		return domainErrors.ErrInvalidStage
	}
	s.Stage = next
	return nil
}

func (s *Session) Fail(reason string) {
	if s.Stage.IsTerminal() {
		return
	}
	s.Stage = StageFailed
	s.FailureReason = reason
}
