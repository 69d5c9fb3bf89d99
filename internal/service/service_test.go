package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contacts-app/internal/store"
	"gitlab.com/dirk.krummacker/contacts-app/internal/swipe"
	api "gitlab.com/dirk.krummacker/contacts-app/pkg/model"
)

// testService bundles the router under test with the store and scheduler behind it.
type testService struct {
	router    *gin.Engine
	store     *store.Store
	scheduler *swipe.ManualScheduler
}

// initializeContactsService sets up the shell with an empty store whose ids are "c1", "c2", ...
// and a manual animation clock, and returns a handle to the gin engine against which requests
// can be executed.
func initializeContactsService() *testService {
	counter := 0
	contacts := store.New(store.WithIdGenerator(func() string {
		counter++
		return fmt.Sprintf("c%d", counter)
	}))
	scheduler := swipe.NewManualScheduler(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	shell := NewShell(contacts, WithScheduler(scheduler))
	gin.SetMode(gin.ReleaseMode)
	return &testService{
		router:    SetupHttpRouter(shell, false),
		store:     contacts,
		scheduler: scheduler,
	}
}

// runTest executes the HTTP request with the specified arguments and returns the response.
func (s *testService) runTest(method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	s.router.ServeHTTP(recorder, request)
	return recorder
}

// addContact stores a contact directly, bypassing the form.
func (s *testService) addContact(t *testing.T, name string, phone string) string {
	contact, err := s.store.Add(name, phone)
	require.NoError(t, err)
	return contact.Id
}

// decode unmarshals the body of a response.
func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &v), recorder.Body.String())
	return v
}

// TestGetAllEmpty executes a GET request for all contacts on an empty store. It expects an empty
// JSON list.
func TestGetAllEmpty(t *testing.T) {
	s := initializeContactsService()
	recorder := s.runTest("GET", "/contacts", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Empty(t, decode[[]api.Contact](t, recorder))
}

// TestGetAll executes a GET request for all contacts. It expects the contacts in insertion order
// together with their avatars.
func TestGetAll(t *testing.T) {
	s := initializeContactsService()
	s.addContact(t, "Juan Dela Cruz", "+63 912 345 6789")
	s.addContact(t, "Maria", "+63 917 000 1111")

	recorder := s.runTest("GET", "/contacts", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	contacts := decode[[]api.Contact](t, recorder)
	require.Len(t, contacts, 2)
	assert.Equal(t, "c1", contacts[0].Id)
	assert.Equal(t, "Juan Dela Cruz", contacts[0].Name)
	assert.Equal(t, "+63 912 345 6789", contacts[0].Phone)
	assert.Equal(t, "JC", contacts[0].Initials)
	assert.NotEmpty(t, contacts[0].Color)
	assert.Equal(t, "c2", contacts[1].Id)
	assert.Equal(t, "M", contacts[1].Initials)
}

// TestGet executes a GET request for a single contact with a valid and an unknown ID.
func TestGet(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan Dela Cruz", "+63 912 345 6789")

	recorder := s.runTest("GET", "/contacts/"+id, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Juan Dela Cruz", decode[api.Contact](t, recorder).Name)

	recorder = s.runTest("GET", "/contacts/9999", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// TestFormatPhone sends keystroke input for live formatting.
func TestFormatPhone(t *testing.T) {
	s := initializeContactsService()
	tests := []struct {
		raw   string
		phone string
		valid bool
	}{
		{"09123456789", "+63 912 345 6789", true},
		{"0912", "0912", false},
		{"", "", false},
		{"+63 912 345 6789", "+63 912 345 6789", true},
	}
	for _, tt := range tests {
		body, _ := json.Marshal(map[string]string{"raw": tt.raw})
		recorder := s.runTest("POST", "/phone/format", string(body))
		assert.Equal(t, http.StatusOK, recorder.Code)
		result := decode[map[string]interface{}](t, recorder)
		assert.Equal(t, tt.phone, result["phone"], "raw: "+tt.raw)
		assert.Equal(t, tt.valid, result["valid"], "raw: "+tt.raw)
	}
	recorder := s.runTest("POST", "/phone/format", "not JSON")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

// TestSubmitCreate opens the form in create mode and submits it. It expects the CREATED status
// code, a new contact at the end of the list and a closed form.
func TestSubmitCreate(t *testing.T) {
	s := initializeContactsService()
	s.addContact(t, "Maria", "+63 917 000 1111")

	recorder := s.runTest("POST", "/form/create", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	form := decode[api.Form](t, recorder)
	assert.True(t, form.Visible)
	assert.False(t, form.Editing)
	assert.Equal(t, "New Contact", form.Title)
	assert.Equal(t, "Save", form.Submit)

	recorder = s.runTest("POST", "/form/submit", `{"name": "Juan Dela Cruz", "phone": "+63 912 345 6789"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	contact := decode[api.Contact](t, recorder)
	assert.Equal(t, "c2", contact.Id)
	assert.Equal(t, 2, s.store.Len())
	assert.Equal(t, "Juan Dela Cruz", s.store.All()[1].Name)

	recorder = s.runTest("GET", "/form", "")
	assert.False(t, decode[api.Form](t, recorder).Visible)
}

// TestSubmitEdit opens the form for an existing contact and submits it. It expects the OK status
// code and the contact updated in place.
func TestSubmitEdit(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	s.addContact(t, "Maria", "+63 917 000 1111")

	recorder := s.runTest("POST", "/contacts/"+id+"/edit", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	form := decode[api.Form](t, recorder)
	assert.True(t, form.Editing)
	assert.Equal(t, "Edit Contact", form.Title)
	assert.Equal(t, "Update", form.Submit)
	require.NotNil(t, form.Contact)
	assert.Equal(t, "Juan", form.Contact.Name)

	recorder = s.runTest("POST", "/form/submit", `{"name": "Juan Dela Cruz", "phone": "+63 900 000 0000"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	contact := decode[api.Contact](t, recorder)
	assert.Equal(t, id, contact.Id)
	assert.Equal(t, "Juan Dela Cruz", s.store.All()[0].Name)
	assert.Equal(t, 2, s.store.Len())
}

// TestEditUnknown opens the form for an unknown contact.
func TestEditUnknown(t *testing.T) {
	s := initializeContactsService()
	recorder := s.runTest("POST", "/contacts/9999/edit", "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

// TestSubmitInvalid submits invalid form values. It expects BAD REQUEST with the message for the
// user, an unchanged store and a form that stays open.
func TestSubmitInvalid(t *testing.T) {
	tests := []struct {
		body    string
		message string
	}{
		{`{"name": "", "phone": "+63 912 345 6789"}`, store.MessageMissingFields},
		{`{"name": "Juan", "phone": ""}`, store.MessageMissingFields},
		{`{"name": "Juan", "phone": "12345"}`, store.MessageInvalidPhone},
		{`{"name": "Juan", "phone": "09123456789"}`, store.MessageInvalidPhone},
		{"", "invalid JSON"},
		{"not JSON", "invalid JSON"},
	}
	for _, tt := range tests {
		s := initializeContactsService()
		s.runTest("POST", "/form/create", "")
		recorder := s.runTest("POST", "/form/submit", tt.body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code, "request body: "+tt.body)
		assert.Equal(t, tt.message, decode[map[string]interface{}](t, recorder)["message"])
		assert.Equal(t, 0, s.store.Len())
		assert.True(t, decode[api.Form](t, s.runTest("GET", "/form", "")).Visible)
	}
}

// TestCancelForm opens and cancels the form.
func TestCancelForm(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	s.runTest("POST", "/contacts/"+id+"/edit", "")
	recorder := s.runTest("POST", "/form/cancel", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.False(t, decode[api.Form](t, recorder).Visible)

	// without an open form a submission creates a contact
	recorder = s.runTest("POST", "/form/submit", `{"name": "Ana", "phone": "+63 900 000 0000"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, 2, s.store.Len())
}

// TestSwipeToReveal drags a row beyond the threshold.
func TestSwipeToReveal(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")

	for _, dx := range []int{-10, -30, -60} {
		recorder := s.runTest("POST", "/rows/"+id+"/drag", fmt.Sprintf(`{"dx": %d}`, dx))
		assert.Equal(t, http.StatusOK, recorder.Code)
		row := decode[api.Row](t, recorder)
		assert.Equal(t, "dragging", row.Phase)
		assert.Equal(t, float64(dx), row.Offset)
	}
	recorder := s.runTest("POST", "/rows/"+id+"/release", `{"dx": -60}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	row := decode[api.Row](t, recorder)
	assert.Equal(t, "revealed", row.Phase)
	assert.Equal(t, -100.0, row.Offset)
	assert.Equal(t, 1.0, row.DeleteOpacity)
}

// TestSwipeCancel drags a row less than the threshold.
func TestSwipeCancel(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	for _, dx := range []int{-10, -20, -30} {
		s.runTest("POST", "/rows/"+id+"/drag", fmt.Sprintf(`{"dx": %d}`, dx))
	}
	row := decode[api.Row](t, s.runTest("POST", "/rows/"+id+"/release", `{"dx": -30}`))
	assert.Equal(t, "idle", row.Phase)
	assert.Equal(t, 0.0, row.Offset)
}

// TestSwipeTerminated drags a row and terminates the gesture without a release. It expects the
// row to snap back, and a following small movement not to move it.
func TestSwipeTerminated(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -40}`)

	recorder := s.runTest("POST", "/rows/"+id+"/cancel", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	row := decode[api.Row](t, recorder)
	assert.Equal(t, "idle", row.Phase)
	assert.Equal(t, 0.0, row.Offset)

	row = decode[api.Row](t, s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -3}`))
	assert.Equal(t, "idle", row.Phase)
	assert.Equal(t, 0.0, row.Offset)
	assert.Equal(t, http.StatusNotFound, s.runTest("POST", "/rows/9999/cancel", "").Code)
}

// TestRowInvalidRequests sends gestures with bad bodies or for unknown rows.
func TestRowInvalidRequests(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")

	assert.Equal(t, http.StatusBadRequest, s.runTest("POST", "/rows/"+id+"/drag", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.runTest("POST", "/rows/"+id+"/drag", "{}").Code)
	assert.Equal(t, http.StatusBadRequest, s.runTest("POST", "/rows/"+id+"/release", "not JSON").Code)
	assert.Equal(t, http.StatusBadRequest, s.runTest("POST", "/rows/"+id+"/tap", `{"width": 300}`).Code)
	assert.Equal(t, http.StatusNotFound, s.runTest("POST", "/rows/9999/drag", `{"dx": -60}`).Code)
	assert.Equal(t, http.StatusNotFound, s.runTest("GET", "/rows/9999", "").Code)
	assert.Equal(t, http.StatusNotFound, s.runTest("POST", "/rows/9999/delete", "").Code)
}

// TestDeleteRequiresReveal taps the delete affordance of a row that is not revealed.
func TestDeleteRequiresReveal(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	recorder := s.runTest("POST", "/rows/"+id+"/delete", "")
	assert.Equal(t, http.StatusConflict, recorder.Code)
	s.scheduler.Advance(time.Second)
	assert.Equal(t, 1, s.store.Len())
}

// TestDelete reveals a row and taps its delete affordance. It expects that the contact is only
// removed after the exit animation has finished.
func TestDelete(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	s.addContact(t, "Maria", "+63 917 000 1111")
	s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -80}`)
	s.runTest("POST", "/rows/"+id+"/release", `{"dx": -80}`)

	recorder := s.runTest("POST", "/rows/"+id+"/delete", "")
	assert.Equal(t, http.StatusAccepted, recorder.Code)
	assert.Equal(t, "committing", decode[api.Row](t, recorder).Phase)
	assert.Equal(t, 2, s.store.Len())

	s.scheduler.Advance(100 * time.Millisecond)
	row := decode[api.Row](t, s.runTest("GET", "/rows/"+id, ""))
	assert.InDelta(t, 40.0, row.Height, 1e-9)
	assert.InDelta(t, 0.5, row.Opacity, 1e-9)
	assert.Equal(t, 2, s.store.Len())

	s.scheduler.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, s.store.Len())
	assert.Equal(t, "Maria", s.store.All()[0].Name)
	assert.Equal(t, http.StatusNotFound, s.runTest("GET", "/rows/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, s.runTest("GET", "/contacts/"+id, "").Code)
}

// TestTapRow taps a revealed row on its body and on its delete affordance.
func TestTapRow(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")

	recorder := s.runTest("POST", "/rows/"+id+"/tap", `{"x": 120, "width": 340}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "edit", decode[map[string]interface{}](t, recorder)["action"])
	form := decode[api.Form](t, s.runTest("GET", "/form", ""))
	assert.True(t, form.Editing)
	assert.Equal(t, id, form.Contact.Id)
	s.runTest("POST", "/form/cancel", "")

	s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -70}`)
	s.runTest("POST", "/rows/"+id+"/release", `{"dx": -70}`)
	recorder = s.runTest("POST", "/rows/"+id+"/tap", `{"x": 300, "width": 340}`)
	assert.Equal(t, "delete", decode[map[string]interface{}](t, recorder)["action"])
	assert.False(t, decode[api.Form](t, s.runTest("GET", "/form", "")).Visible)

	s.scheduler.Advance(swipe.DefaultDeleteDuration)
	assert.Equal(t, 0, s.store.Len())
}

// TestRevealSeveralRows reveals two rows at the same time.
func TestRevealSeveralRows(t *testing.T) {
	s := initializeContactsService()
	first := s.addContact(t, "Juan", "+63 912 345 6789")
	second := s.addContact(t, "Maria", "+63 917 000 1111")
	for _, id := range []string{first, second} {
		s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -90}`)
		s.runTest("POST", "/rows/"+id+"/release", `{"dx": -90}`)
	}
	assert.Equal(t, "revealed", decode[api.Row](t, s.runTest("GET", "/rows/"+first, "")).Phase)
	assert.Equal(t, "revealed", decode[api.Row](t, s.runTest("GET", "/rows/"+second, "")).Phase)
}

// TestSubmitAfterTargetDeleted deletes the contact that is open in the form, then submits the
// form. It expects that the values are added as a new contact.
func TestSubmitAfterTargetDeleted(t *testing.T) {
	s := initializeContactsService()
	id := s.addContact(t, "Juan", "+63 912 345 6789")
	s.runTest("POST", "/contacts/"+id+"/edit", "")
	s.runTest("POST", "/rows/"+id+"/drag", `{"dx": -90}`)
	s.runTest("POST", "/rows/"+id+"/release", `{"dx": -90}`)
	s.runTest("POST", "/rows/"+id+"/delete", "")
	s.scheduler.Advance(swipe.DefaultDeleteDuration)
	require.Equal(t, 0, s.store.Len())

	recorder := s.runTest("POST", "/form/submit", `{"name": "Juan", "phone": "+63 912 345 6789"}`)
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "c2", decode[api.Contact](t, recorder).Id)
}
