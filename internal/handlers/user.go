package handlers

import (
	"BrainrotKeeper/internal/config"
	"BrainrotKeeper/internal/middleware"
	"BrainrotKeeper/internal/service"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler — регистрация, вход и проверка сессии.
type UserHandler struct {
	UserService      *service.UserService
	InventoryService *service.InventoryService
	Logger           *zap.SugaredLogger
	Config           *config.Config
}

func NewUserHandler(userService *service.UserService, inventoryService *service.InventoryService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, InventoryService: inventoryService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Login    string `json:"login" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type userResponse struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// Register создаёт пользователя, выдаёт cookie и профиль Default.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, service.ErrLoginTaken):
		respondMessage(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, service.ErrEmptyCredentials):
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.Logger.Errorw("Register: service error", "login", req.Login, "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.InventoryService != nil {
		if err := h.InventoryService.EnsureDefaultProfile(r.Context(), user.ID); err != nil {
			// пользователь уже создан, профиль можно завести позже
			h.Logger.Warnw("Register: default profile not created", "user_id", user.ID, "error", err)
		}
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: cookie error", "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "login", user.Login)
	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Login: user.Login})
}

// Login проверяет пароль и выдаёт cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Login, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrEmptyCredentials):
		respondMessage(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
		return
	case err != nil:
		h.Logger.Errorw("Login: service error", "login", req.Login, "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: cookie error", "error", err)
		respondMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, userResponse{ID: user.ID, Login: user.Login})
}

// Status сообщает, авторизован ли запрос.
func (h *UserHandler) Status(w http.ResponseWriter, r *http.Request) {
	result := "anonymous"
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		result = "User ID = " + id
	}
	respondJSON(w, http.StatusOK, map[string]string{"result": result})
}
