package service

import (
	"errors"
	"sync"
	"time"

	"gitlab.com/dirk.krummacker/contacts-app/internal/avatar"
	"gitlab.com/dirk.krummacker/contacts-app/internal/model"
	"gitlab.com/dirk.krummacker/contacts-app/internal/store"
	"gitlab.com/dirk.krummacker/contacts-app/internal/swipe"
	api "gitlab.com/dirk.krummacker/contacts-app/pkg/model"
	"go.uber.org/zap"
)

// ErrRowNotFound is returned for gestures on a row whose contact does not exist.
var ErrRowNotFound = errors.New("row not found")

// ErrNotRevealed is returned when the delete affordance of a row is tapped while it is hidden.
var ErrNotRevealed = errors.New("delete affordance is not revealed")

// Shell connects the presentation shell to the contact store. It owns the input form session
// and one swipe controller per visible row. Every intent runs under a single lock, which stands
// in for the UI event thread, and so do the completions of row animations.
type Shell struct {
	mu        sync.Mutex
	store     *store.Store
	session   *store.EditSession
	rows      map[string]*swipe.Controller
	scheduler swipe.Scheduler
	duration  time.Duration
	logger    *zap.Logger
}

// ShellOption customizes a Shell.
type ShellOption func(*Shell)

// WithScheduler sets the scheduler that runs the row animations.
func WithScheduler(s swipe.Scheduler) ShellOption {
	return func(sh *Shell) { sh.scheduler = s }
}

// WithDeleteDuration sets the length of the row exit animation.
func WithDeleteDuration(d time.Duration) ShellOption {
	return func(sh *Shell) { sh.duration = d }
}

// WithLogger sets the logger of the shell.
func WithLogger(logger *zap.Logger) ShellOption {
	return func(sh *Shell) { sh.logger = logger }
}

// NewShell creates a shell on top of the specified store.
func NewShell(contacts *store.Store, opts ...ShellOption) *Shell {
	sh := &Shell{
		store:     contacts,
		rows:      map[string]*swipe.Controller{},
		scheduler: swipe.RealTime(),
		duration:  swipe.DefaultDeleteDuration,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	sh.scheduler = swipe.Serialized(sh.scheduler, &sh.mu)
	return sh
}

// Contacts returns the contacts to render, in display order.
func (sh *Shell) Contacts() []api.Contact {
	all := sh.store.All()
	contacts := make([]api.Contact, 0, len(all))
	for _, c := range all {
		contacts = append(contacts, toAPI(c))
	}
	return contacts
}

// Contact returns a single contact.
func (sh *Shell) Contact(id string) (api.Contact, bool) {
	c, found := sh.store.Get(id)
	if !found {
		return api.Contact{}, false
	}
	return toAPI(c), true
}

// Form returns the current state of the input form.
func (sh *Shell) Form() api.Form {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.form()
}

// RequestCreate opens the input form in create mode.
func (sh *Shell) RequestCreate() api.Form {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	session := sh.store.StartCreate()
	sh.session = &session
	return sh.form()
}

// RequestEdit opens the input form for the contact with the given id.
func (sh *Shell) RequestEdit(id string) (api.Form, bool) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	c, found := sh.store.Get(id)
	if !found {
		return api.Form{}, false
	}
	sh.openEdit(c)
	return sh.form(), true
}

// CancelForm closes the input form without storing anything.
func (sh *Shell) CancelForm() api.Form {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.session = nil
	return sh.form()
}

// SubmitForm stores the form values and closes the form. If no form is open, the values are
// added as a new contact. The result tells whether a new contact was created. A
// *store.ValidationError leaves the form open.
func (sh *Shell) SubmitForm(name string, phone string) (api.Contact, bool, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	session := sh.store.StartCreate()
	if sh.session != nil {
		session = *sh.session
	}
	before := sh.store.Len()
	c, err := sh.store.Submit(session, name, phone)
	if err != nil {
		sh.logger.Debug("form rejected", zap.Error(err))
		return api.Contact{}, false, err
	}
	sh.session = nil
	return toAPI(c), sh.store.Len() > before, nil
}

// Row returns the animated values of the row of the given contact.
func (sh *Shell) Row(id string) (api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return api.Row{}, err
	}
	return toRow(id, row), nil
}

// DragFrame forwards a move frame of a drag gesture on a row.
func (sh *Shell) DragFrame(id string, dx float64) (api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return api.Row{}, err
	}
	row.Drag(dx)
	return toRow(id, row), nil
}

// DragRelease forwards the end of a drag gesture on a row.
func (sh *Shell) DragRelease(id string, dx float64) (api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return api.Row{}, err
	}
	phase := row.Release(dx)
	sh.logger.Debug("row released", zap.String("id", id), zap.Stringer("phase", phase))
	return toRow(id, row), nil
}

// DragCancel forwards the termination of a drag gesture that ended without a release.
func (sh *Shell) DragCancel(id string) (api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return api.Row{}, err
	}
	row.Cancel()
	return toRow(id, row), nil
}

// Tap forwards a tap at horizontal position x on a row of the given width. Depending on where
// the tap lands it opens the contact for editing or commits the deletion of the row.
func (sh *Shell) Tap(id string, x float64, width float64) (swipe.Action, api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return swipe.NoAction, api.Row{}, err
	}
	action := row.Tap(x, width)
	return action, toRow(id, row), nil
}

// TapDeleteAffordance commits the deletion of a revealed row. The contact is removed from the
// store once the exit animation has finished.
func (sh *Shell) TapDeleteAffordance(id string) (api.Row, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	row, err := sh.row(id)
	if err != nil {
		return api.Row{}, err
	}
	if !row.Commit() {
		return toRow(id, row), ErrNotRevealed
	}
	sh.logger.Debug("row committed", zap.String("id", id))
	return toRow(id, row), nil
}

// row returns the controller of the row of the given contact, creating it on first use. The
// caller must hold the lock.
func (sh *Shell) row(id string) (*swipe.Controller, error) {
	if row, found := sh.rows[id]; found {
		return row, nil
	}
	if _, found := sh.store.Get(id); !found {
		return nil, ErrRowNotFound
	}
	row := swipe.NewController(swipe.Callbacks{
		Edit: func() {
			if c, found := sh.store.Get(id); found {
				sh.openEdit(c)
			}
		},
		Delete: func() { sh.remove(id) },
	}, swipe.WithScheduler(sh.scheduler), swipe.WithDeleteDuration(sh.duration))
	sh.rows[id] = row
	return row, nil
}

// remove deletes a contact once its row has disappeared. It runs as an animation completion,
// with the lock held.
func (sh *Shell) remove(id string) {
	delete(sh.rows, id)
	if sh.store.Delete(id) {
		sh.logger.Info("contact deleted", zap.String("id", id))
	}
}

// openEdit starts an edit session. The caller must hold the lock.
func (sh *Shell) openEdit(c model.Contact) {
	session := sh.store.StartEdit(c)
	sh.session = &session
}

// form describes the input form. The caller must hold the lock.
func (sh *Shell) form() api.Form {
	if sh.session == nil {
		return api.Form{Visible: false, Title: "New Contact", Submit: "Save"}
	}
	target, editing := sh.session.Target()
	if !editing {
		return api.Form{Visible: true, Title: "New Contact", Submit: "Save"}
	}
	contact := toAPI(target)
	return api.Form{Visible: true, Editing: true, Title: "Edit Contact", Submit: "Update", Contact: &contact}
}

func toAPI(c model.Contact) api.Contact {
	return api.Contact{
		Id:       c.Id,
		Name:     c.Name,
		Phone:    c.Phone,
		Initials: avatar.Initials(c.Name),
		Color:    avatar.Color(c.Name),
	}
}

func toRow(id string, row *swipe.Controller) api.Row {
	s := row.State()
	return api.Row{
		Id:            id,
		Phase:         s.Phase.String(),
		Offset:        s.Offset,
		Height:        s.Height,
		Opacity:       s.Opacity,
		DeleteOpacity: s.DeleteOpacity,
	}
}
