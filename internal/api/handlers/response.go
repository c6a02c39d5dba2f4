// Package handlers общие помощники HTTP-слоя: ответы JSON, разбор тела и параметров,
// отображение доменных ошибок в коды статуса
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Field     string `json:"field,omitempty"`
	FullAt    string `json:"fullAt,omitempty"`
	BlockType string `json:"blockType,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Status    string `json:"status,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON пишет ответ в JSON
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с сообщением
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError отображает доменную ошибку в HTTP-ответ
// Возвращает false для ошибок вне таксономии (их пишет вызывающий как 500)
func RespondDomainError(w http.ResponseWriter, err error) bool {
	var (
		validationErr *domain.ValidationError
		capacityErr   *domain.CapacityError
		authErr       *domain.AuthorizationError
		conflictErr   *domain.StateConflictError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: validationErr.Message,
			Kind:  "validation",
			Field: validationErr.Field,
		})
	case errors.As(err, &capacityErr):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:  fmt.Sprintf("slot is full at %s", capacityErr.FullAt),
			Kind:   "capacity",
			FullAt: capacityErr.FullAt.String(),
		})
	case errors.As(err, &authErr):
		RespondJSON(w, http.StatusForbidden, ErrorResponse{
			Error:     "action is not allowed",
			Kind:      "authorization",
			BlockType: authErr.BlockType,
			Reason:    authErr.Reason,
		})
	case errors.As(err, &conflictErr):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:  conflictErr.Message,
			Kind:   "state_conflict",
			Status: conflictErr.Status,
		})
	case errors.As(err, &notFoundErr):
		RespondJSON(w, http.StatusNotFound, ErrorResponse{
			Error: fmt.Sprintf("%s not found", notFoundErr.Entity),
			Kind:  "not_found",
		})
	default:
		return false
	}
	return true
}

// DecodeJSON декодирует тело запроса и проверяет теги validate
// Неизвестные поля отклоняются
func DecodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// PathID разбирает положительный int64 из переменной пути
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, mux.Vars(r)[name])
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD
func ParseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateFormat, s)
}

// ValidationMessage первая ошибка validator в виде "field: tag"
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s: %s", verrs[0].Field(), verrs[0].Tag())
	}
	return err.Error()
}
