package handlers

import (
	"log"
	"net/http"
	"strings"

	"studyload/apperrors"
	"studyload/models"
	"studyload/utils"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User      models.User `json:"user"`
	CSRFToken string      `json:"csrf_token"`
}

// RegisterUserHandler creates an account and signs the new user in.
func (a *App) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := utils.ValidateUsername(req.Username); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.ValidateEmail(req.Email); err != nil {
		log.Println("invalid email: ", err)
		writeMessage(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		writeMessage(w, http.StatusBadRequest, "Passwords must be at least 8 characters in length and contain: one uppercase letter, one lowercase letter, one special character, one digit")
		return
	}
	if !utils.SamePassword(req.Password, req.ConfirmPassword) {
		writeMessage(w, http.StatusBadRequest, "passwords must match")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Println("hash password: ", err)
		writeMessage(w, http.StatusInternalServerError, "error creating account. please contact admin.")
		return
	}

	user, err := a.Users.CreateUser(r.Context(), models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if apperrors.IsCode(err, apperrors.CodeConflict) {
		writeMessage(w, http.StatusConflict, "Email address or username is already registered")
		return
	}
	if err != nil {
		log.Println("add user error: ", err, " user: ", req.Email)
		writeError(w, r, err)
		return
	}

	a.startSession(w, r, user, http.StatusCreated)
}

// LoginHandler checks credentials and issues session and csrf cookies.
func (a *App) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	user, err := a.Users.GetUserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if apperrors.IsCode(err, apperrors.CodeNotFound) {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		log.Println("Login failed: ", err)
		writeError(w, r, err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	a.startSession(w, r, user, http.StatusOK)
}

func (a *App) startSession(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	session := utils.NewSession(r, user.ID, a.now(), a.SessionTTL)
	if err := a.Sessions.Save(r.Context(), session); err != nil {
		log.Println("error storing session: ", err)
		writeMessage(w, http.StatusServiceUnavailable, "internal error. try again.")
		return
	}
	utils.SetSessionCookies(w, session, a.SessionTTL)
	writeJSON(w, status, sessionResponse{User: user, CSRFToken: session.CSRFToken})
}

// LogOutHandler drops the current session. It succeeds without one.
func (a *App) LogOutHandler(w http.ResponseWriter, r *http.Request) {
	st, err := r.Cookie(utils.SessionCookie)
	if err == nil && st.Value != "" {
		if err := a.Sessions.Delete(r.Context(), st.Value); err != nil {
			log.Printf("Failed to delete session: %v", err)
		}
	}
	utils.ClearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}
