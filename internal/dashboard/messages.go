package dashboard

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/brainlink/internal/backend"
	"github.com/MrSnakeDoc/brainlink/internal/domain"
)

var (
	// ErrBusy rejects an action while another of the same kind is in flight.
	ErrBusy = errors.New("another request is already in progress")

	// ErrSessionEnded is returned when the backend rejected the credential.
	// The credential has been cleared; the caller should send the user to
	// the sign-in page.
	ErrSessionEnded = errors.New("session ended")

	// ErrNotConfirmed is returned by Delete when the user did not confirm.
	ErrNotConfirmed = errors.New("delete not confirmed")

	// ErrInvalidContent is returned for a card that cannot be addressed on
	// the backend.
	ErrInvalidContent = errors.New("invalid content id")
)

const (
	MsgBusy           = "Another request is already in progress."
	MsgInvalidContent = "Invalid content ID"
	MsgForbidden      = "You don't have permission to perform this action."

	MsgCreated = "Content added successfully!"
	MsgDeleted = "Content deleted successfully!"
	MsgShared  = "Brain shared! Copy the link below."

	msgInvalidData    = "Invalid data provided"
	msgCreateAuth     = "Authentication failed. Please login again."
	msgNetwork        = "Network error. Please check your connection."
	msgActionAuth     = "You are not authorized. Please log in again."
	msgDeleteFallback = "Failed to delete content. Please try again."
	msgShareFallback  = "Failed to share brain. Please try again."
)

// formFields are the create form inputs backend field errors can point at.
var formFields = []string{"title", "link", "type"}

// createFailure maps a failed submission to the banner message and the
// per-field messages shown in the form.
func createFailure(err error) (string, map[string]string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "" {
			return ve.Message, nil
		}
		return ve.Message, map[string]string{ve.Field: ve.Message}
	}

	be, ok := backend.AsError(err)
	if !ok {
		return msgNetwork, nil
	}

	switch {
	case be.Status == 400:
		msg := be.Message
		if msg == "" {
			msg = msgInvalidData
		}
		fields := map[string]string{}
		for _, f := range formFields {
			if m := be.MessageFor(f); m != "" {
				fields[f] = m
			}
		}
		return "Error: " + msg, fields
	case be.Status == 401:
		return msgCreateAuth, nil
	case be.Status == 403:
		return MsgForbidden, nil
	}
	return fmt.Sprintf("Server error: %d", be.Status), nil
}

// actionFailure maps a failed delete or share to its banner message.
// Structured field errors win, then the session rule, then the backend's
// own message.
func actionFailure(err error, fallback string) string {
	be, ok := backend.AsError(err)
	if !ok {
		return fallback
	}
	switch {
	case len(be.Fields) > 0:
		return "Validation error: " + be.FieldMessages()
	case be.Status == 401:
		return msgActionAuth
	case be.Status == 403:
		return MsgForbidden
	case be.Message != "":
		return be.Message
	}
	return fallback
}
