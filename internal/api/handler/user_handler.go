package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sellz/sellz-backend/internal/core/domain"
	"github.com/sellz/sellz-backend/internal/core/ports"
)

// UserHandler exposes the user-record routes outside the auth flows.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type updateUserRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	OtherNames  *string `json:"otherNames"`
	DisplayName *string `json:"displayName"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
}

type userEnvelope struct {
	Status string       `json:"status"`
	Data   envelopeData `json:"data"`
}

// GetUser returns the public representation of one user.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        userId  path      string  true  "User ID"
// @Success      200     {object}  userEnvelope
// @Failure      404     {object}  map[string]string
// @Router       /users/{userId} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Status: "success", Data: envelopeData{User: user}})
}

// UpdateUser patches profile fields of a user.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        userId  path      string             true  "User ID"
// @Param        body    body      updateUserRequest  true  "Fields to change"
// @Success      200     {object}  userEnvelope
// @Failure      404     {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{userId} [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), c.Param("userId"), ports.UpdateUserInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		OtherNames:  req.OtherNames,
		DisplayName: req.DisplayName,
		Country:     req.Country,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{Status: "success", Data: envelopeData{User: user}})
}

// UpdateProfilePicture replaces the stored profile picture.
//
// @Summary      Replace profile picture
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        userId          path      string  true  "User ID"
// @Param        profilePicture  formData  file    true  "New picture"
// @Success      200             {object}  userEnvelope
// @Failure      400             {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{userId}/profile-picture [patch]
func (h *UserHandler) UpdateProfilePicture(c echo.Context) error {
	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		return domain.ErrMissingPicture
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read profile picture")
	}
	defer file.Close()

	user, err := h.userService.UpdateProfilePicture(c.Request().Context(), c.Param("userId"), ports.PictureUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{Status: "success", Data: envelopeData{User: user}})
}

// DeleteUser removes an account.
//
// @Summary      Delete a user
// @Tags         users
// @Param        userId  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/{userId} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.userService.DeleteUser(c.Request().Context(), c.Param("userId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
