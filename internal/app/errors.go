package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nourabuild/contacts-service/internal/sdk/middleware"
)

const (
	ErrUnmarshal           = "invalid_request_body"
	ErrMissingFields       = "missing_required_fields"
	ErrInvalidEmail        = "invalid_email"
	ErrUsernameLength      = "username_length"
	ErrPasswordLength      = "password_length"
	ErrNameLength          = "name_length"
	ErrInvalidContactID    = "invalid_contact_id"
	ErrInvalidBirthday     = "invalid_birthday"
	ErrInvalidImage        = "invalid_image"
	ErrVerification        = "verification_error"
	ErrInvalidCredentials  = "invalid_credentials"
	ErrEmailNotConfirmed   = "email_not_confirmed"
	ErrUnauthorized        = "unauthorized"
	ErrInvalidToken        = middleware.CodeInvalidToken
	ErrExpiredToken        = middleware.CodeExpiredToken
	ErrInvalidTokenScope   = middleware.CodeInvalidTokenScope
	ErrMissingAuthHeader   = middleware.CodeMissingAuthHeader
	ErrInvalidAuthHeader   = middleware.CodeInvalidAuthHeader
	ErrUserNotFound        = middleware.CodeUserNotFound
	ErrContactNotFound     = "contact_not_found"
	ErrUserExists          = "user_already_exists"
	ErrContactEmailExists  = "contact_email_exists"
	ErrInvalidEmailToken   = "invalid_email_token"
	ErrRateLimited         = middleware.CodeRateLimited
	ErrHashPassword        = "internal_hash_error"
	ErrCreateUser          = "internal_create_user_error"
	ErrProcessLogin        = "internal_login_error"
	ErrRetrieveContacts    = "internal_retrieve_contacts_error"
	ErrSaveContact         = "internal_save_contact_error"
	ErrGenerateTokens      = "internal_generate_tokens_error"
	ErrConfirmEmail        = "internal_confirm_email_error"
	ErrUploadAvatar        = "internal_upload_avatar_error"
	ErrUpdateUser          = "internal_update_user_error"
	ErrDatabaseUnreachable = "database_unreachable"
)

var errorStatusMap = map[string]int{
	ErrUnmarshal:           http.StatusBadRequest,
	ErrMissingFields:       http.StatusBadRequest,
	ErrInvalidEmail:        http.StatusBadRequest,
	ErrUsernameLength:      http.StatusBadRequest,
	ErrPasswordLength:      http.StatusBadRequest,
	ErrNameLength:          http.StatusBadRequest,
	ErrInvalidContactID:    http.StatusBadRequest,
	ErrInvalidBirthday:     http.StatusBadRequest,
	ErrInvalidImage:        http.StatusBadRequest,
	ErrVerification:        http.StatusBadRequest,
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrEmailNotConfirmed:   http.StatusUnauthorized,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrInvalidToken:        http.StatusUnauthorized,
	ErrExpiredToken:        http.StatusUnauthorized,
	ErrInvalidTokenScope:   http.StatusUnauthorized,
	ErrMissingAuthHeader:   http.StatusUnauthorized,
	ErrInvalidAuthHeader:   http.StatusUnauthorized,
	ErrUserNotFound:        http.StatusUnauthorized,
	ErrContactNotFound:     http.StatusNotFound,
	ErrUserExists:          http.StatusConflict,
	ErrContactEmailExists:  http.StatusConflict,
	ErrInvalidEmailToken:   http.StatusUnprocessableEntity,
	ErrRateLimited:         http.StatusTooManyRequests,
	ErrHashPassword:        http.StatusInternalServerError,
	ErrCreateUser:          http.StatusInternalServerError,
	ErrProcessLogin:        http.StatusInternalServerError,
	ErrRetrieveContacts:    http.StatusInternalServerError,
	ErrSaveContact:         http.StatusInternalServerError,
	ErrGenerateTokens:      http.StatusInternalServerError,
	ErrConfirmEmail:        http.StatusInternalServerError,
	ErrUploadAvatar:        http.StatusInternalServerError,
	ErrUpdateUser:          http.StatusInternalServerError,
	ErrDatabaseUnreachable: http.StatusInternalServerError,
}

func statusForError(code string) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, code string, details map[string]string) {
	c.JSON(statusForError(code), ErrorResponse{Error: code, Details: details})
}
