package app

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/middleware"
	"github.com/nourabuild/contacts-service/internal/sdk/models"
	"github.com/nourabuild/contacts-service/internal/sdk/sqldb"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

func (a *App) HandleListContacts(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	limit, offset := listParams(c)

	contacts, err := a.db.ListContacts(c.Request.Context(), user.ID, limit, offset)
	if err != nil {
		a.toSentry(c, "list_contacts", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}

	c.JSON(http.StatusOK, contactsResponse(contacts))
}

func (a *App) HandleCreateContact(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.toSentry(c, "create_contact", "unmarshal", sentry.LevelError, err)
		writeError(c, ErrUnmarshal, nil)
		return
	}

	birthday, errCode, validationErrors := validateContactInput(req)
	if errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	// Cheap duplicate check first. The unique index still catches races.
	if _, err := a.db.GetContactByEmail(c.Request.Context(), user.ID, req.Email); err == nil {
		writeError(c, ErrContactEmailExists, nil)
		return
	} else if !errors.Is(err, sqldb.ErrDBNotFound) {
		a.toSentry(c, "create_contact", "db_lookup", sentry.LevelError, err)
		writeError(c, ErrSaveContact, nil)
		return
	}

	newContact := models.NewContact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		UserID:    user.ID,
	}

	contact, err := a.db.CreateContact(c.Request.Context(), newContact)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBDuplicatedEntry) {
			writeError(c, ErrContactEmailExists, nil)
			return
		}
		a.toSentry(c, "create_contact", "db", sentry.LevelError, err)
		writeError(c, ErrSaveContact, nil)
		return
	}

	c.JSON(http.StatusCreated, contactResponse(contact))
}

func (a *App) HandleGetContact(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	contact, err := a.db.GetContactByID(c.Request.Context(), user.ID, contactID)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrContactNotFound, nil)
			return
		}
		a.toSentry(c, "get_contact", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}

	c.JSON(http.StatusOK, contactResponse(contact))
}

func (a *App) HandleUpdateContact(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.toSentry(c, "update_contact", "unmarshal", sentry.LevelError, err)
		writeError(c, ErrUnmarshal, nil)
		return
	}

	birthday, errCode, validationErrors := validateContactInput(req)
	if errCode != "" {
		writeError(c, errCode, validationErrors)
		return
	}

	updated := models.NewContact{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Birthday:  birthday,
		UserID:    user.ID,
	}

	contact, err := a.db.UpdateContact(c.Request.Context(), user.ID, contactID, updated)
	if err != nil {
		switch {
		case errors.Is(err, sqldb.ErrDBNotFound):
			writeError(c, ErrContactNotFound, nil)
		case errors.Is(err, sqldb.ErrDBDuplicatedEntry):
			writeError(c, ErrContactEmailExists, nil)
		default:
			a.toSentry(c, "update_contact", "db", sentry.LevelError, err)
			writeError(c, ErrSaveContact, nil)
		}
		return
	}

	c.JSON(http.StatusOK, contactResponse(contact))
}

func (a *App) HandleDeleteContact(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	contactID, ok := contactIDParam(c)
	if !ok {
		return
	}

	if err := a.db.DeleteContact(c.Request.Context(), user.ID, contactID); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrContactNotFound, nil)
			return
		}
		a.toSentry(c, "delete_contact", "db", sentry.LevelError, err)
		writeError(c, ErrSaveContact, nil)
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *App) HandleSearchByEmail(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	email := strings.TrimSpace(c.Param("email"))

	contact, err := a.db.GetContactByEmail(c.Request.Context(), user.ID, email)
	if err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			writeError(c, ErrContactNotFound, nil)
			return
		}
		a.toSentry(c, "search_by_email", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}

	c.JSON(http.StatusOK, contactResponse(contact))
}

func (a *App) HandleSearchByFirstName(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	name := strings.TrimSpace(c.Param("name"))

	contacts, err := a.db.ListContactsByFirstName(c.Request.Context(), user.ID, name)
	if err != nil {
		a.toSentry(c, "search_by_first_name", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}
	if len(contacts) == 0 {
		writeError(c, ErrContactNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, contactsResponse(contacts))
}

func (a *App) HandleSearchByLastName(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	name := strings.TrimSpace(c.Param("name"))

	contacts, err := a.db.ListContactsByLastName(c.Request.Context(), user.ID, name)
	if err != nil {
		a.toSentry(c, "search_by_last_name", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}
	if len(contacts) == 0 {
		writeError(c, ErrContactNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, contactsResponse(contacts))
}

func (a *App) HandleUpcomingBirthdays(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	contacts, err := a.db.ListUpcomingBirthdays(c.Request.Context(), user.ID)
	if err != nil {
		a.toSentry(c, "upcoming_birthdays", "db", sentry.LevelError, err)
		writeError(c, ErrRetrieveContacts, nil)
		return
	}
	if len(contacts) == 0 {
		writeError(c, ErrContactNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, contactsResponse(contacts))
}

// contactIDParam parses the :id path parameter. It writes the error response
// itself so handlers can bail out with a plain return.
func contactIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, ErrInvalidContactID, nil)
		return 0, false
	}
	return id, true
}

func listParams(c *gin.Context) (limit, offset int) {
	limit = defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	return limit, offset
}
