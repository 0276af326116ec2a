package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/reminder"
	"github.com/listoapp/listo-api/internal/service"
	"github.com/listoapp/listo-api/internal/service/auth"
	"github.com/listoapp/listo-api/internal/store"
)

// errorMapping pairs an HTTP status with the application error code and a
// client-safe message.
type errorMapping struct {
	status  int
	code    int
	message string
}

// mapError resolves an internal error to its HTTP status, application code
// and sanitized message. Unknown errors become a 9000 internal error so no
// detail leaks.
func mapError(err error) errorMapping {
	switch {
	// Authentication
	case errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return errorMapping{http.StatusUnauthorized, shared.CodeSessionExpired, "La sesión ha expirado"}

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return errorMapping{http.StatusUnauthorized, shared.CodeAuthenticationFailed, "Error de autenticación"}

	case errors.Is(err, service.ErrInvalidCredentials):
		return errorMapping{http.StatusUnauthorized, shared.CodeInvalidCredentials, "Credenciales inválidas"}

	// Authorization
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, service.ErrNotOwned):
		return errorMapping{http.StatusForbidden, shared.CodeUnauthorizedAccess, "No tienes permiso para realizar esta acción"}

	// Not found
	case errors.Is(err, store.ErrUserNotFound):
		return errorMapping{http.StatusNotFound, shared.CodeResourceNotFound, "Usuario no encontrado"}
	case errors.Is(err, store.ErrTaskNotFound):
		return errorMapping{http.StatusNotFound, shared.CodeResourceNotFound, "Tarea no encontrada"}
	case errors.Is(err, store.ErrListNotFound):
		return errorMapping{http.StatusNotFound, shared.CodeResourceNotFound, "Lista no encontrada"}
	case errors.Is(err, store.ErrReminderNotFound):
		return errorMapping{http.StatusNotFound, shared.CodeResourceNotFound, "Recordatorio no encontrado"}
	case errors.Is(err, store.ErrNotFound):
		return errorMapping{http.StatusNotFound, shared.CodeResourceNotFound, "Recurso no encontrado"}

	// Conflicts
	case errors.Is(err, store.ErrEmailExists):
		return errorMapping{http.StatusConflict, shared.CodeDuplicateResource, "El email ya está registrado"}
	case errors.Is(err, store.ErrUsernameExists):
		return errorMapping{http.StatusConflict, shared.CodeDuplicateResource, "El nombre de usuario ya está registrado"}
	case errors.Is(err, store.ErrDuplicate):
		return errorMapping{http.StatusConflict, shared.CodeDuplicateResource, "El recurso ya existe"}

	// Validation
	case errors.Is(err, service.ErrResetTokenInvalid):
		return errorMapping{http.StatusBadRequest, shared.CodeInvalidInput, "El enlace de restablecimiento no es válido o ha caducado"}
	case errors.Is(err, reminder.ErrInvalidLead):
		return errorMapping{http.StatusBadRequest, shared.CodeInvalidFormat, "Formato de antelación inválido"}
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidTimezone),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidReminderType),
		isDomainValidation(err):
		return errorMapping{http.StatusBadRequest, shared.CodeValidationError, "Error de validación en los datos de entrada"}

	default:
		return errorMapping{http.StatusInternalServerError, shared.CodeInternalError, "Error interno del servidor"}
	}
}

// isDomainValidation catches the package-level validation sentinels the
// domain constructors return (empty title, password length, bad weekday).
func isDomainValidation(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmptyUserID,
		domain.ErrEmptyUsername,
		domain.ErrEmptyEmail,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyTaskTitle,
		domain.ErrEmptyListName,
		domain.ErrEmptyPreferencesID,
		domain.ErrEmptyPreferencesUser,
		domain.ErrEmptyDeliveryEmail,
		domain.ErrInvalidSummaryWeekday,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// SanitizeValidationError reduces a validator error to a client-safe
// message naming the offending field without echoing its value.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	return "Error de validación en los datos de entrada"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "len":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps the error and writes the standard error body, logging
// the underlying cause.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, details string) {
	m := mapError(err)
	message := m.message
	if details != "" && m.status < http.StatusInternalServerError {
		message = details
	}
	shared.RespondWithErrorAndLog(w, r, m.status, m.code, message, err)
}
