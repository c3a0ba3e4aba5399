// Package steps implements the authoring wizard's transition gating. The
// controller is a strict three-state machine over the current step; which
// transitions are legal depends only on per-step completion flags recomputed
// by the owning session.
package steps

import (
	"errors"
	"fmt"
)

const (
	StepBasics      = 1
	StepAttachments = 2
	StepReview      = 3
)

// ErrIllegalTransition reports a next/back/jump the gate does not permit in
// its current state.
var ErrIllegalTransition = errors.New("illegal step transition")

// Gate is the wizard step state machine. It is not safe for concurrent use;
// the session serializes access.
type Gate struct {
	current    int
	completion map[int]bool
}

// NewGate starts at the basics step. The attachments step is complete from
// the outset since attachments are optional.
func NewGate() *Gate {
	return &Gate{
		current: StepBasics,
		completion: map[int]bool{
			StepBasics:      false,
			StepAttachments: true,
			StepReview:      false,
		},
	}
}

// Current returns the active step.
func (g *Gate) Current() int {
	return g.current
}

// Completed reports whether the step's completion flag is set.
func (g *Gate) Completed(step int) bool {
	return g.completion[step]
}

// SetCompletion records a recomputed completion flag. The attachments step
// is pinned complete and silently ignores updates.
func (g *Gate) SetCompletion(step int, complete bool) {
	if step == StepAttachments {
		return
	}
	if step < StepBasics || step > StepReview {
		return
	}
	g.completion[step] = complete
}

// Next advances one step. From basics it requires the basics completion
// flag; from attachments it is always legal; review has no next, submission
// is a separate terminal action.
func (g *Gate) Next() error {
	switch g.current {
	case StepBasics:
		if !g.completion[StepBasics] {
			return fmt.Errorf("advance from step %d: basics incomplete: %w", g.current, ErrIllegalTransition)
		}
	case StepReview:
		return fmt.Errorf("advance from step %d: %w", g.current, ErrIllegalTransition)
	}
	g.current++
	return nil
}

// Back retreats one step. Legal from any step after the first.
func (g *Gate) Back() error {
	if g.current <= StepBasics {
		return fmt.Errorf("retreat from step %d: %w", g.current, ErrIllegalTransition)
	}
	g.current--
	return nil
}

// JumpTo moves directly to an earlier, completed step. Forward jumps are
// never legal.
func (g *Gate) JumpTo(step int) error {
	if step < StepBasics || step > StepReview {
		return fmt.Errorf("jump to step %d: %w", step, ErrIllegalTransition)
	}
	if step >= g.current {
		return fmt.Errorf("jump forward from step %d to %d: %w", g.current, step, ErrIllegalTransition)
	}
	if !g.completion[step] {
		return fmt.Errorf("jump to incomplete step %d: %w", step, ErrIllegalTransition)
	}
	g.current = step
	return nil
}

// CanSubmit reports whether the terminal submit action is available: basics
// complete and the review confirmation given.
func (g *Gate) CanSubmit() bool {
	return g.completion[StepBasics] && g.completion[StepReview]
}
