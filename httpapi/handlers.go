package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/castlelock/authcore"
	"github.com/castlelock/authcore/middleware"
)

type handlers struct {
	engine *authcore.Engine
}

type signUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateName(req.Name); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateConfirm(req.Password, req.ConfirmPassword); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "user registered successfully, please verify your email", map[string]any{
		"user": result.User,
	})
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		writeFailure(w, http.StatusBadRequest, "password is required")
		return
	}

	result, err := h.engine.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "signed in successfully", map[string]any{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *handlers) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.engine.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "token refreshed successfully", map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (h *handlers) signOut(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.SignOut(r.Context(), req.RefreshToken); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "signed out successfully", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *handlers) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.engine.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var data map[string]any
	if result.Token != "" {
		data = map[string]any{"resetToken": result.Token}
	}
	writeSuccess(w, http.StatusOK, "password reset email sent", data)
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *handlers) resetPassword(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePassword(req.Password); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateConfirm(req.Password, req.ConfirmPassword); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ResetPassword(r.Context(), token, req.Password); err != nil {
		writeEngineError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "password reset successfully", nil)
}

func (h *handlers) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	result, err := h.engine.VerifyEmail(r.Context(), token)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	message := "email verified successfully"
	if result.AlreadyVerified {
		message = "email is already verified"
	}
	writeSuccess(w, http.StatusOK, message, map[string]any{
		"user": result.User,
	})
}

func (h *handlers) validateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "token verification failed")
		return
	}

	writeSuccess(w, http.StatusOK, "token is valid", map[string]any{
		"user": user,
	})
}
