package steps_test

import (
	"errors"
	"testing"

	"quill/internal/steps"
)

func TestNextFromBasicsRequiresCompletion(t *testing.T) {
	gate := steps.NewGate()

	if err := gate.Next(); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("Next with incomplete basics = %v, want ErrIllegalTransition", err)
	}
	if gate.Current() != steps.StepBasics {
		t.Fatalf("current = %d after illegal next", gate.Current())
	}

	gate.SetCompletion(steps.StepBasics, true)
	if err := gate.Next(); err != nil {
		t.Fatalf("Next after completion: %v", err)
	}
	if gate.Current() != steps.StepAttachments {
		t.Fatalf("current = %d, want attachments", gate.Current())
	}
}

func TestNextFromAttachmentsIsAlwaysLegal(t *testing.T) {
	gate := steps.NewGate()
	gate.SetCompletion(steps.StepBasics, true)
	if err := gate.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	// No attachments staged; the step is still passable.
	if err := gate.Next(); err != nil {
		t.Fatalf("Next from attachments: %v", err)
	}
	if gate.Current() != steps.StepReview {
		t.Fatalf("current = %d, want review", gate.Current())
	}
	if err := gate.Next(); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("Next from review = %v, want ErrIllegalTransition", err)
	}
}

func TestBack(t *testing.T) {
	gate := steps.NewGate()
	if err := gate.Back(); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("Back from first step = %v, want ErrIllegalTransition", err)
	}

	gate.SetCompletion(steps.StepBasics, true)
	_ = gate.Next()
	if err := gate.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	if gate.Current() != steps.StepBasics {
		t.Fatalf("current = %d", gate.Current())
	}
}

func TestJumpToForbidsForwardJumps(t *testing.T) {
	gate := steps.NewGate()
	gate.SetCompletion(steps.StepBasics, true)

	if err := gate.JumpTo(steps.StepReview); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("forward jump = %v, want ErrIllegalTransition", err)
	}

	_ = gate.Next()
	_ = gate.Next()
	if err := gate.JumpTo(steps.StepBasics); err != nil {
		t.Fatalf("jump back to completed step: %v", err)
	}
	if gate.Current() != steps.StepBasics {
		t.Fatalf("current = %d", gate.Current())
	}
}

func TestJumpToIncompleteStepIsIllegal(t *testing.T) {
	gate := steps.NewGate()
	gate.SetCompletion(steps.StepBasics, true)
	_ = gate.Next()
	_ = gate.Next()

	gate.SetCompletion(steps.StepBasics, false)
	if err := gate.JumpTo(steps.StepBasics); !errors.Is(err, steps.ErrIllegalTransition) {
		t.Fatalf("jump to incomplete step = %v, want ErrIllegalTransition", err)
	}
}

func TestAttachmentsCompletionIsPinned(t *testing.T) {
	gate := steps.NewGate()
	gate.SetCompletion(steps.StepAttachments, false)
	if !gate.Completed(steps.StepAttachments) {
		t.Fatal("attachments step must always report complete")
	}
}

func TestCanSubmit(t *testing.T) {
	gate := steps.NewGate()
	if gate.CanSubmit() {
		t.Fatal("submit must be gated at start")
	}
	gate.SetCompletion(steps.StepBasics, true)
	if gate.CanSubmit() {
		t.Fatal("submit requires review confirmation")
	}
	gate.SetCompletion(steps.StepReview, true)
	if !gate.CanSubmit() {
		t.Fatal("submit should be legal with basics and review complete")
	}
}
