package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contacts-app/internal/phone"
	"gitlab.com/dirk.krummacker/contacts-app/internal/store"
	"gitlab.com/dirk.krummacker/contacts-app/internal/swipe"
)

// formRequest is the body of a form submission.
type formRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// formatRequest is the body of a live formatting request, sent on every keystroke.
type formatRequest struct {
	Raw string `json:"raw"`
}

// dragRequest is the body of a drag frame or release.
type dragRequest struct {
	Dx *float64 `json:"dx"`
}

// tapRequest is the body of a tap on a row. X is measured from the left edge of the row.
type tapRequest struct {
	X     *float64 `json:"x"`
	Width float64  `json:"width"`
}

// actionNames are the names of tap actions in responses.
var actionNames = map[swipe.Action]string{
	swipe.NoAction:     "none",
	swipe.EditAction:   "edit",
	swipe.DeleteAction: "delete",
}

// SetupHttpRouter initializes the REST API router and registers all endpoints of the shell.
// HTTP request logging is turned off if requestLogging is false.
func SetupHttpRouter(sh *Shell, requestLogging bool) *gin.Engine {
	var router *gin.Engine
	if requestLogging {
		router = gin.Default()
	} else {
		sh.logger.Info("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	}
	h := handlers{shell: sh}
	router.GET("/contacts", h.findContacts)
	router.GET("/contacts/:id", h.findContactByID)
	router.POST("/contacts/:id/edit", h.requestEdit)
	router.POST("/phone/format", h.formatPhone)
	router.GET("/form", h.findForm)
	router.POST("/form/create", h.requestCreate)
	router.POST("/form/submit", h.submitForm)
	router.POST("/form/cancel", h.cancelForm)
	router.GET("/rows/:id", h.findRow)
	router.POST("/rows/:id/drag", h.dragFrame)
	router.POST("/rows/:id/release", h.dragRelease)
	router.POST("/rows/:id/cancel", h.dragCancel)
	router.POST("/rows/:id/tap", h.tapRow)
	router.POST("/rows/:id/delete", h.tapDelete)
	return router
}

type handlers struct {
	shell *Shell
}

// findContacts responds with the list of all contacts in display order. An empty list is a valid
// answer; the shell shows its "No contacts yet" hint for it.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts
func (h handlers) findContacts(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, h.shell.Contacts())
}

// findContactByID responds with the contact whose ID matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/contacts/0b9e6c36-7f5e-4c3f-9a59-7a1c2e6d9f10
func (h handlers) findContactByID(c *gin.Context) {
	contact, found := h.shell.Contact(c.Param("id"))
	if !found {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, contact)
}

// requestEdit opens the input form for the contact with the given id and responds with the form.
func (h handlers) requestEdit(c *gin.Context) {
	form, found := h.shell.RequestEdit(c.Param("id"))
	if !found {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, form)
}

// formatPhone responds with the formatted version of the raw phone input and whether it would be
// accepted on submit.
//
// Example REST API call:
//
//	> curl http://localhost:8080/phone/format --request "POST" --header "Content-Type: application/json" --data '{"raw": "09123456789"}'
func (h handlers) formatPhone(c *gin.Context) {
	var req formatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	formatted := phone.Format(req.Raw)
	c.IndentedJSON(http.StatusOK, gin.H{"phone": formatted, "valid": phone.IsValid(formatted)})
}

// findForm responds with the current state of the input form.
func (h handlers) findForm(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, h.shell.Form())
}

// requestCreate opens the input form in create mode.
func (h handlers) requestCreate(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, h.shell.RequestCreate())
}

// cancelForm closes the input form.
func (h handlers) cancelForm(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, h.shell.CancelForm())
}

// submitForm stores the values of the input form. It responds with CREATED and the new contact
// in create mode, and with OK and the updated contact in edit mode. Invalid values are answered
// with BAD REQUEST and the message to show to the user.
//
// Example REST API call:
//
//	> curl http://localhost:8080/form/submit --request "POST" --include --header "Content-Type: application/json" --data '{"name": "Juan Dela Cruz", "phone": "+63 912 345 6789"}'
func (h handlers) submitForm(c *gin.Context) {
	var req formRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	contact, created, err := h.shell.SubmitForm(req.Name, req.Phone)
	var validationErr *store.ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}
	if created {
		c.IndentedJSON(http.StatusCreated, contact)
	} else {
		c.IndentedJSON(http.StatusOK, contact)
	}
}

// findRow responds with the animated values of a row.
func (h handlers) findRow(c *gin.Context) {
	row, err := h.shell.Row(c.Param("id"))
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

// dragFrame forwards a move frame of a drag gesture. The body holds the horizontal displacement
// since the finger went down.
//
// Example REST API call:
//
//	> curl http://localhost:8080/rows/0b9e6c36-7f5e-4c3f-9a59-7a1c2e6d9f10/drag --request "POST" --header "Content-Type: application/json" --data '{"dx": -60}'
func (h handlers) dragFrame(c *gin.Context) {
	dx, ok := bindDisplacement(c)
	if !ok {
		return
	}
	row, err := h.shell.DragFrame(c.Param("id"), dx)
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

// dragRelease forwards the end of a drag gesture with the final displacement.
func (h handlers) dragRelease(c *gin.Context) {
	dx, ok := bindDisplacement(c)
	if !ok {
		return
	}
	row, err := h.shell.DragRelease(c.Param("id"), dx)
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

// dragCancel forwards the termination of a drag gesture without a release, for example when the
// list takes over the touch to scroll.
func (h handlers) dragCancel(c *gin.Context) {
	row, err := h.shell.DragCancel(c.Param("id"))
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, row)
}

// tapRow forwards a tap on a row and responds with what the tap resolved to.
func (h handlers) tapRow(c *gin.Context) {
	var req tapRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.X == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	action, row, err := h.shell.Tap(c.Param("id"), *req.X, req.Width)
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"action": actionNames[action], "row": row})
}

// tapDelete commits the deletion of a revealed row. It responds with ACCEPTED because the contact
// is only removed after the row has collapsed.
func (h handlers) tapDelete(c *gin.Context) {
	row, err := h.shell.TapDeleteAffordance(c.Param("id"))
	if err != nil {
		abortWithRowError(c, err)
		return
	}
	c.IndentedJSON(http.StatusAccepted, row)
}

// bindDisplacement reads the dx value of a drag request body.
func bindDisplacement(c *gin.Context) (float64, bool) {
	var req dragRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Dx == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return 0, false
	}
	return *req.Dx, true
}

// abortWithRowError maps the errors of row intents to HTTP status codes.
func abortWithRowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrRowNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
	case errors.Is(err, ErrNotRevealed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
