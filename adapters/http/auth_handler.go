package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnect/internal/application/usecase/auth"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type AuthHandler struct {
	loginUseCase    *auth.LoginUseCase
	registerUseCase *auth.RegisterUseCase
	userUseCase     *auth.UserUseCase
	logger          logger.Logger
}

func NewAuthHandler(loginUC *auth.LoginUseCase, registerUC *auth.RegisterUseCase, userUC *auth.UserUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		loginUseCase:    loginUC,
		registerUseCase: registerUC,
		userUseCase:     userUC,
		logger:          log,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("Token is not valid", nil))
		return
	}

	u, err := h.userUseCase.Current(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("Token is not valid", nil))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.NewValidation(apperror.FieldError{Msg: "File is required", Param: "file"}))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("open uploaded file", err))
		return
	}
	defer file.Close()

	u, err := h.userUseCase.UploadAvatar(c.Request.Context(), auth.UploadAvatarInput{UserID: userID, File: file})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
