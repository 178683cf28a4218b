package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/brainlink/internal/domain"
	"github.com/MrSnakeDoc/brainlink/internal/session"
)

// ModalState is the lifecycle phase of the creation form.
type ModalState uint8

const (
	ModalClosed ModalState = iota
	ModalOpen
	ModalSubmitting
)

func (s ModalState) String() string {
	switch s {
	case ModalOpen:
		return "open"
	case ModalSubmitting:
		return "submitting"
	}
	return "closed"
}

// submitFunc sends a validated draft to the backend.
type submitFunc func(ctx context.Context, sess *session.Session, d domain.Draft) error

// CreateModal is the add-content form:
//
//	closed -> open -> submitting -> closed (success)
//	                             -> open   (failure, fields kept)
type CreateModal struct {
	submit submitFunc

	mu          sync.Mutex
	state       ModalState
	draft       domain.Draft
	err         string
	fieldErrors map[string]string
}

// ModalView is a snapshot of the form for rendering.
type ModalView struct {
	State       ModalState
	Title       string
	Link        string
	Type        domain.ContentType
	Error       string
	FieldErrors map[string]string
}

// Open reports whether the form is shown.
func (v ModalView) Open() bool { return v.State != ModalClosed }

// Submitting reports whether a submission is outstanding.
func (v ModalView) Submitting() bool { return v.State == ModalSubmitting }

func newCreateModal(submit submitFunc) *CreateModal {
	return &CreateModal{
		submit: submit,
		draft:  domain.Draft{Type: domain.DefaultContentType},
	}
}

// Open shows the form. Pending input is kept.
func (m *CreateModal) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == ModalClosed {
		m.state = ModalOpen
	}
}

// Close hides the form and clears its error. Pending input is kept.
func (m *CreateModal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == ModalSubmitting {
		return
	}
	m.state = ModalClosed
	m.clearErrors()
}

// SelectType changes the type of the pending draft. Unknown types are
// ignored.
func (m *CreateModal) SelectType(t domain.ContentType) {
	if !t.Valid() {
		return
	}
	m.mu.Lock()
	m.draft.Type = t
	m.mu.Unlock()
}

// SetFields updates the pending title and link.
func (m *CreateModal) SetFields(title, link string) {
	m.mu.Lock()
	m.draft.Title = title
	m.draft.Link = link
	m.mu.Unlock()
}

// View returns the current form state.
func (m *CreateModal) View() ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	fe := make(map[string]string, len(m.fieldErrors))
	for k, v := range m.fieldErrors {
		fe[k] = v
	}
	return ModalView{
		State:       m.state,
		Title:       m.draft.Title,
		Link:        m.draft.Link,
		Type:        m.draft.Type,
		Error:       m.err,
		FieldErrors: fe,
	}
}

// Submit validates the pending draft and sends it. On success the form is
// reset and closed; on failure it stays open with the input intact and an
// error message set.
func (m *CreateModal) Submit(ctx context.Context, sess *session.Session) error {
	m.mu.Lock()
	if m.state == ModalSubmitting {
		m.mu.Unlock()
		return ErrBusy
	}
	m.state = ModalOpen
	m.clearErrors()

	d := m.draft.Normalized()
	if err := domain.ValidateDraft(d, sess.Authenticated()); err != nil {
		m.fail(err)
		m.mu.Unlock()
		return err
	}
	m.state = ModalSubmitting
	m.mu.Unlock()

	err := m.submit(ctx, sess, d)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = ModalOpen
		if errors.Is(err, ErrBusy) {
			m.err = MsgBusy
		} else {
			m.fail(err)
		}
		return err
	}

	m.draft = domain.Draft{Type: domain.DefaultContentType}
	m.state = ModalClosed
	return nil
}

func (m *CreateModal) fail(err error) {
	m.err, m.fieldErrors = createFailure(err)
}

func (m *CreateModal) clearErrors() {
	m.err = ""
	m.fieldErrors = nil
}
