package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/middleware"
	"github.com/nourabuild/contacts-service/internal/services/avatar"
	"github.com/nourabuild/contacts-service/internal/services/sentry"
)

func (a *App) HandleUsersMe(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

func (a *App) HandleUpdateAvatar(c *gin.Context) {
	user, err := middleware.GetUser(c)
	if err != nil {
		writeError(c, ErrUnauthorized, nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, ErrMissingFields, map[string]string{"file": "file_required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.toSentry(c, "update_avatar", "open_file", sentry.LevelError, err)
		writeError(c, ErrUploadAvatar, nil)
		return
	}
	defer file.Close()

	avatarURL, err := a.avatars.UploadAvatar(c.Request.Context(), user.Username, file)
	if err != nil {
		if errors.Is(err, avatar.ErrInvalidImage) {
			writeError(c, ErrInvalidImage, nil)
			return
		}
		a.toSentry(c, "update_avatar", "upload", sentry.LevelError, err)
		writeError(c, ErrUploadAvatar, nil)
		return
	}

	updatedUser, err := a.db.UpdateUserAvatar(c.Request.Context(), user.Email, avatarURL)
	if err != nil {
		a.toSentry(c, "update_avatar", "db", sentry.LevelError, err)
		writeError(c, ErrUpdateUser, nil)
		return
	}

	c.JSON(http.StatusOK, userResponse(updatedUser))
}
