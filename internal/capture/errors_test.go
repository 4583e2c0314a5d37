package capture

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	if UserMessage(nil) != "" {
		t.Fatal("nil error should have no message")
	}

	kinds := []error{
		ErrDeviceUnavailable, ErrPermissionDenied, ErrAlreadyAcquiring,
		ErrRecordingFailed, ErrTicketRequestFailed, ErrProcessingTimeout,
		ErrAssetTransport, ErrFinalizeFailed, ErrInvalidDraft, ErrCanceled,
	}
	seen := map[string]error{}
	for _, k := range kinds {
		msg := UserMessage(fmt.Errorf("%w: detail", k))
		if msg == "" {
			t.Errorf("%v: empty message", k)
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("%v and %v share message %q", k, prev, msg)
		}
		seen[msg] = k
	}

	if UserMessage(ErrUploadFailed) != UserMessage(ErrTicketRequestFailed) {
		t.Error("ticket and transfer failures should read the same to the user")
	}
	if UserMessage(context.Canceled) != UserMessage(ErrCanceled) {
		t.Error("context cancellation should read as a cancel")
	}
	if UserMessage(errors.New("other")) == "" {
		t.Error("unknown errors still need a message")
	}
}
