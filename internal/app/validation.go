package app

import (
	"net/mail"
	"strings"
	"time"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 6
	maxPasswordLength = 30
	minNameLength     = 2

	birthdayLayout = "2006-01-02"
)

func validateSignupInput(req SignupRequest) (string, map[string]string) {
	validationErrors := make(map[string]string)

	if strings.TrimSpace(req.Username) == "" {
		validationErrors["username"] = "username_required"
	}
	if strings.TrimSpace(req.Email) == "" {
		validationErrors["email"] = "email_required"
	}
	if req.Password == "" {
		validationErrors["password"] = "password_required"
	}

	if len(validationErrors) > 0 {
		return ErrMissingFields, validationErrors
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		validationErrors["email"] = "invalid_email_format"
	}

	if len(req.Username) < minUsernameLength {
		validationErrors["username"] = "username_too_short"
	} else if len(req.Username) > maxUsernameLength {
		validationErrors["username"] = "username_too_long"
	}

	if len(req.Password) < minPasswordLength {
		validationErrors["password"] = "password_too_short"
	} else if len(req.Password) > maxPasswordLength {
		validationErrors["password"] = "password_too_long"
	}

	if len(validationErrors) == 0 {
		return "", nil
	}

	return primarySignupError(validationErrors), validationErrors
}

func validateLoginInput(req LoginRequest) map[string]string {
	validationErrors := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		validationErrors["email"] = "email_required"
	}
	if req.Password == "" {
		validationErrors["password"] = "password_required"
	}

	if len(validationErrors) == 0 {
		return nil
	}

	return validationErrors
}

func validateEmailInput(req RequestEmailRequest) (string, map[string]string) {
	if strings.TrimSpace(req.Email) == "" {
		return ErrMissingFields, map[string]string{"email": "email_required"}
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return ErrInvalidEmail, map[string]string{"email": "invalid_email_format"}
	}

	return "", nil
}

// validateContactInput checks a contact payload and returns the parsed
// birthday alongside the primary error code and per-field details.
func validateContactInput(req ContactRequest) (time.Time, string, map[string]string) {
	validationErrors := make(map[string]string)

	if strings.TrimSpace(req.FirstName) == "" {
		validationErrors["first_name"] = "first_name_required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		validationErrors["last_name"] = "last_name_required"
	}
	if strings.TrimSpace(req.Email) == "" {
		validationErrors["email"] = "email_required"
	}
	if strings.TrimSpace(req.Phone) == "" {
		validationErrors["phone"] = "phone_required"
	}
	if strings.TrimSpace(req.Birthday) == "" {
		validationErrors["birthday"] = "birthday_required"
	}

	if len(validationErrors) > 0 {
		return time.Time{}, ErrMissingFields, validationErrors
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		validationErrors["email"] = "invalid_email_format"
	}

	if len(req.FirstName) < minNameLength {
		validationErrors["first_name"] = "first_name_too_short"
	}
	if len(req.LastName) < minNameLength {
		validationErrors["last_name"] = "last_name_too_short"
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		validationErrors["birthday"] = "invalid_birthday_format"
	} else if birthday.After(time.Now()) {
		validationErrors["birthday"] = "birthday_in_future"
	}

	if len(validationErrors) == 0 {
		return birthday, "", nil
	}

	return time.Time{}, primaryContactError(validationErrors), validationErrors
}

func parseBirthday(value string) (time.Time, error) {
	return time.Parse(birthdayLayout, value)
}

func primarySignupError(details map[string]string) string {
	errCode := ErrInvalidEmail
	if _, hasUsernameErr := details["username"]; hasUsernameErr {
		errCode = ErrUsernameLength
	}
	if _, hasPasswordErr := details["password"]; hasPasswordErr {
		errCode = ErrPasswordLength
	}

	return errCode
}

func primaryContactError(details map[string]string) string {
	errCode := ErrInvalidEmail
	if _, hasFirstErr := details["first_name"]; hasFirstErr {
		errCode = ErrNameLength
	}
	if _, hasLastErr := details["last_name"]; hasLastErr {
		errCode = ErrNameLength
	}
	if _, hasBirthdayErr := details["birthday"]; hasBirthdayErr {
		errCode = ErrInvalidBirthday
	}

	return errCode
}
