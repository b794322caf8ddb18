package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veganum/userapi/internal/domain"
	"github.com/veganum/userapi/internal/schema"
	"github.com/veganum/userapi/internal/usecase"
)

// Тексты ответов API
const (
	msgUserNotFound = "Usuario no encontrado"
	msgDBError      = "Error en la base de datos"
	msgUnexpected   = "Error inesperado: "
	msgUserDeleted  = "Usuario eliminado correctamente"
)

// UserHandler — обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: uc,
		logger:      logger,
	}
}

// Routes возвращает роутер ресурса; монтируется под {API_PREFIX}/user.
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Get("/user/{id}", h.GetUser)
	r.Post("/create", h.CreateUser)
	r.Put("/update/{id}", h.UpdateUser)
	r.Delete("/delete/{id}", h.DeleteUser)
	return r
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"Error inesperado: response encoding failed"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой в поле detail.
func respondWithError(w http.ResponseWriter, code int, detail interface{}, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]interface{}{"detail": detail}, logger)
}

// handleError выбирает HTTP-статус по типу ошибки.
func (h *UserHandler) handleError(w http.ResponseWriter, endpoint string, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Warn("invalid request", "endpoint", endpoint, "error", err)
		respondWithError(w, http.StatusUnprocessableEntity, verr.Issues, h.logger)
	case errors.Is(err, domain.ErrUserNotFound):
		h.logger.Warn("user not found", "endpoint", endpoint)
		respondWithError(w, http.StatusNotFound, msgUserNotFound, h.logger)
	case domain.IsStorageError(err):
		h.logger.Error("database error", "endpoint", endpoint, "error", err)
		respondWithError(w, http.StatusInternalServerError, msgDBError, h.logger)
	default:
		h.logger.Error("unexpected error", "endpoint", endpoint, "error", err)
		respondWithError(w, http.StatusInternalServerError, msgUnexpected+err.Error(), h.logger)
	}
}

// ListUsers — GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUseCase.ListUsers(r.Context())
	if err != nil {
		h.handleError(w, "ListUsers", err)
		return
	}

	h.logger.Info("users listed", "count", len(users))
	respondWithJSON(w, http.StatusOK, schema.NewUserResponses(users), h.logger)
}

// GetUser — GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := schema.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "GetUser", err)
		return
	}

	user, err := h.userUseCase.GetUser(r.Context(), id)
	if err != nil {
		h.handleError(w, "GetUser", err)
		return
	}
	if user == nil {
		h.handleError(w, "GetUser", domain.ErrUserNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, schema.NewUserResponse(user), h.logger)
}

// CreateUser — POST /create
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	in, err := schema.DecodeUserCreate(r.Body)
	if err != nil {
		h.handleError(w, "CreateUser", err)
		return
	}

	user, err := h.userUseCase.CreateUser(r.Context(), in.Fields())
	if err != nil {
		h.handleError(w, "CreateUser", err)
		return
	}

	h.logger.Info("user created", "user_id", user.ID)
	respondWithJSON(w, http.StatusOK, schema.NewUserResponse(user), h.logger)
}

// UpdateUser — PUT /update/{id}. Существование проверяется до записи;
// хранилище проверяет его повторно внутри транзакции.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := schema.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "UpdateUser", err)
		return
	}
	in, err := schema.DecodeUserBase(r.Body)
	if err != nil {
		h.handleError(w, "UpdateUser", err)
		return
	}

	existing, err := h.userUseCase.GetUser(r.Context(), id)
	if err != nil {
		h.handleError(w, "UpdateUser", err)
		return
	}
	if existing == nil {
		h.handleError(w, "UpdateUser", domain.ErrUserNotFound)
		return
	}

	user, err := h.userUseCase.UpdateUser(r.Context(), id, in.Fields())
	if err != nil {
		h.handleError(w, "UpdateUser", err)
		return
	}

	h.logger.Info("user updated", "user_id", id)
	respondWithJSON(w, http.StatusOK, schema.NewUserResponse(user), h.logger)
}

// DeleteUser — DELETE /delete/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := schema.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "DeleteUser", err)
		return
	}

	existing, err := h.userUseCase.GetUser(r.Context(), id)
	if err != nil {
		h.handleError(w, "DeleteUser", err)
		return
	}
	if existing == nil {
		h.handleError(w, "DeleteUser", domain.ErrUserNotFound)
		return
	}

	if err := h.userUseCase.DeleteUser(r.Context(), id); err != nil {
		h.handleError(w, "DeleteUser", err)
		return
	}

	h.logger.Info("user deleted", "user_id", id)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": msgUserDeleted}, h.logger)
}
