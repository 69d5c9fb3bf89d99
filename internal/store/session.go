package store

import "gitlab.com/dirk.krummacker/contacts-app/internal/model"

// EditSession is the state of an open input form. The zero value is a create session.
type EditSession struct {
	target *model.Contact
}

// Editing reports whether the session edits an existing contact.
func (e EditSession) Editing() bool {
	return e.target != nil
}

// Target returns the contact being edited as it was when the session started.
func (e EditSession) Target() (model.Contact, bool) {
	if e.target == nil {
		return model.Contact{}, false
	}
	return *e.target, true
}
