package core

import (
	"time"

	"github.com/liminalcash/nimchat/internal/models"
)

// gate holds one outstanding confirmation request and enforces that it is
// resolved at most once. The slot is not released until the backend reports
// the execution outcome, so a decision can never be issued twice for the
// same request.
type gate struct {
	request  models.ConfirmationRequest
	decision *models.ConfirmationDecision
}

func newGate(req models.ConfirmationRequest) *gate {
	return &gate{request: req}
}

// resolve records the user's verdict and returns the decision to transmit.
// A second call fails with ErrAlreadyResolved and produces nothing.
func (g *gate) resolve(d models.Decision) (models.ConfirmationDecision, error) {
	if g.decision != nil {
		return models.ConfirmationDecision{}, ErrAlreadyResolved
	}
	g.decision = &models.ConfirmationDecision{
		RequestID: g.request.ID,
		Decision:  d,
		DecidedAt: time.Now(),
	}
	return *g.decision, nil
}

// unacked returns the decision still awaiting a confirmation_result, if any.
func (g *gate) unacked() *models.ConfirmationDecision {
	return g.decision
}
