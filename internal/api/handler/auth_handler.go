package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sellz/sellz-backend/internal/api/metrics"
	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
)

// AuthHandler exposes sign-in, registration and the password flows.
type AuthHandler struct {
	authService  ports.AuthService
	cookieTTL    time.Duration
	secureCookie bool
}

func NewAuthHandler(authService ports.AuthService, cookieTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// signupRequest carries the multipart form fields; the profile picture file
// is read separately from the same form.
type signupRequest struct {
	FirstName   string `form:"firstName" validate:"required"`
	LastName    string `form:"lastName" validate:"required"`
	OtherNames  string `form:"otherNames"`
	DisplayName string `form:"displayName" validate:"required"`
	Birthdate   string `form:"birthdate" validate:"required,datetime=2006-01-02"`
	Gender      string `form:"gender" validate:"required,oneof=M F"`
	Country     string `form:"country" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	PhoneNumber string `form:"phoneNumber" validate:"required"`
	Address     string `form:"address" validate:"required"`
	Password    string `form:"password" validate:"required"`
}

// envelope is the canonical success body:
// {"status":"success","token":...,"data":{"user":{...}}}.
type envelope struct {
	Status string       `json:"status"`
	Token  string       `json:"token,omitempty"`
	Data   envelopeData `json:"data"`
}

type envelopeData struct {
	User *domain.User `json:"user"`
}

// sendToken writes the success envelope and sets the jwt cookie (httpOnly,
// Secure outside development).
func (h *AuthHandler) sendToken(c echo.Context, status int, token string, user *domain.User) error {
	c.SetCookie(&http.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.secureCookie,
		Path:     "/",
	})
	return c.JSON(status, envelope{Status: "success", Token: token, Data: envelopeData{User: user}})
}

// SignIn authenticates a user and issues a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide email and password!")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()
	return h.sendToken(c, http.StatusCreated, token, user)
}

// Signup returns a registration handler bound to a fixed role. The role
// comes from the route, never from the request body.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        profilePicture  formData  file  true  "Profile picture"
// @Success      201  {object}  envelope
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req signupRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		fileHeader, err := c.FormFile("profilePicture")
		if err != nil {
			return domain.ErrMissingPicture
		}
		file, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "could not read profile picture")
		}
		defer file.Close()

		in := ports.SignupInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			OtherNames:  req.OtherNames,
			DisplayName: req.DisplayName,
			Birthdate:   req.Birthdate,
			Gender:      req.Gender,
			Country:     req.Country,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Address:     req.Address,
			Password:    req.Password,
			Picture: &ports.PictureUpload{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Size:        fileHeader.Size,
				Body:        file,
			},
		}

		token, user, err := h.authService.SignUp(c.Request().Context(), role, in)
		if err != nil {
			return err
		}

		metrics.SignupsTotal.WithLabelValues(role).Inc()
		return h.sendToken(c, http.StatusCreated, token, user)
	}
}

// ForgotPassword issues a one-time reset token and emails it.
//
// @Summary      Request a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide user email")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	baseURL := c.Scheme() + "://" + c.Request().Host
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, baseURL); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("requested", "failure").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested", "success").Inc()

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Token sent to email!",
	})
}

// ResetPassword redeems a reset token for a new password.
//
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path      string                true  "Reset token"
// @Param        body   body      resetPasswordRequest  true  "New password"
// @Success      200    {object}  envelope
// @Failure      400    {object}  map[string]string
// @Router       /users/resetPassword/{token} [patch]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "New password is required")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sessionToken, user, err := h.authService.ResetPassword(c.Request().Context(), token, req.Password)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("completed", "failure").Inc()
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("completed", "success").Inc()
	return h.sendToken(c, http.StatusOK, sessionToken, user)
}

// UpdatePassword changes the password of the authenticated user.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      201   {object}  envelope
// @Failure      401   {object}  map[string]string
// @Security     BearerAuth
// @Router       /auth/updatePassword [patch]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, updated, err := h.authService.UpdatePassword(c.Request().Context(), user.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}

	return h.sendToken(c, http.StatusCreated, token, updated)
}
