package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/srg/neewerctl/internal/identity"
	"github.com/srg/neewerctl/internal/lightctl"
	"github.com/srg/neewerctl/internal/protocol"
	"github.com/srg/neewerctl/internal/scenes"
)

// FormatUserError turns an error chain into a single actionable message.
// Known domain errors get a hint about what to do; everything else passes
// through unchanged.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var notNeewer *identity.NotANeewerDeviceError
	if errors.As(err, &notNeewer) {
		return fmt.Sprintf("%s (use 'neewerctl scan' to list supported lights)", notNeewer.Error())
	}

	var unknownEffect *scenes.UnknownEffectError
	if errors.As(err, &unknownEffect) {
		return fmt.Sprintf("%s (use 'neewerctl effects' to list them)", unknownEffect.Error())
	}

	var validation *protocol.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	if errors.Is(err, lightctl.ErrSceneUnsupported) {
		return "this light does not support scene effects"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "operation timed out; is the light powered and in range?"
	}

	return err.Error()
}
