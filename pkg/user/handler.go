package user

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/localhive/event-catalog/internal/errdef"
	"github.com/localhive/event-catalog/internal/handler"
	"github.com/localhive/event-catalog/internal/util"

	"github.com/localhive/event-catalog/pkg/config"
	"github.com/localhive/event-catalog/pkg/model"
	"github.com/localhive/event-catalog/pkg/token"
	"github.com/gin-gonic/gin"
)

func NewHandler(config config.Config, userService userService, tokenService tokenService) Handler {
	return Handler{
		config,
		userService,
		tokenService,
	}
}

type Handler struct {
	config       config.Config
	userService  userService
	tokenService tokenService
}

type userService interface {
	SignUp(ctx context.Context, email, password, displayName string) (*model.User, error)
	SignIn(ctx context.Context, email string, password string) (*model.User, error)
	FindById(ctx context.Context, id uint) (*model.User, error)
	ValidateEmail(ctx context.Context, token uuid.UUID) error
}

type tokenService interface {
	GetTokens(user *model.User, previousTokenId string) (*token.Tokens, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*token.RefreshTokenData, error)
	SignOut(userId uint) error
}

type signUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,gte=16,lte=128"`
	DisplayName string `json:"displayName" binding:"required,notblank"`
}

// SignUp user
func (h Handler) SignUp(c *gin.Context) {
	// swagger:route POST /users signUp
	//
	// SignUp user
	//
	// Sign up a user. This endpoint is publicly accessible and therefor anyone can sign up. The
	// account has to be validated using the emailed link before it can sign in.
	//
	// responses:
	//   201: User
	//   400: Error
	//   409: Error
	//   415: Error
	var request signUpRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Email, request.Password, request.DisplayName)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ValidateEmail user
func (h Handler) ValidateEmail(c *gin.Context) {
	// swagger:route POST /users/validate/{token} validateEmail
	//
	// Validate email
	//
	// Validate a user account using the token from the validation email
	//
	// responses:
	//   200:
	//   400: Error
	//   404: Error
	emailToken, err := uuid.Parse(c.Param("token"))
	if err != nil {
		_ = c.Error(errdef.NewBadRequest("error parsing token: %v", err))
		return
	}

	if err := h.userService.ValidateEmail(c.Request.Context(), emailToken); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

// SignIn user
func (h Handler) SignIn(c *gin.Context) {
	// swagger:route POST /tokens signIn
	//
	// Sign in
	//
	// Sign in... And get tokens
	//
	// security:
	//   basicAuth:
	//
	// responses:
	//   201: Tokens
	//   401: Error
	//   403: Error
	//   415: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tokens, err := h.tokenService.GetTokens(user, "")
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, h.config.Authentication.SameSiteMode, h.config.Hostname)

	c.JSON(http.StatusCreated, tokens)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken user
func (h Handler) RefreshToken(c *gin.Context) {
	// swagger:route POST /refresh refreshToken
	//
	// Refresh tokens
	//
	// Refresh user tokens. The refresh token is read from the request body or, failing that, the
	// "refreshToken" cookie.
	//
	// responses:
	//   201: Tokens
	//   401: Error
	//   415: Error
	refreshTokenString, err := h.getRefreshToken(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	refreshToken, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}

	user, err := h.userService.FindById(c.Request.Context(), refreshToken.UserId)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.AbortWithError(http.StatusUnauthorized, err)
		} else {
			_ = c.Error(err)
		}
		return
	}

	tokens, err := h.tokenService.GetTokens(user, refreshToken.ID.String())
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.SetCookies(c, tokens, h.config.Authentication.SameSiteMode, h.config.Hostname)

	c.JSON(http.StatusCreated, tokens)
}

func (h Handler) getRefreshToken(c *gin.Context) (string, error) {
	var request RefreshTokenRequest
	if err := c.ShouldBindJSON(&request); err == nil && request.RefreshToken != "" {
		return request.RefreshToken, nil
	}

	cookie, err := c.Cookie("refreshToken")
	if err != nil || cookie == "" {
		return "", errdef.NewUnauthorized("refresh token not found in request body or cookie")
	}
	return cookie, nil
}

// Me user
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	freshUser, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, freshUser)
}

// SignOut user
func (h Handler) SignOut(c *gin.Context) {
	// swagger:route DELETE /users signOut
	//
	// Sign out
	//
	// Sign out user... A JWT can't easily be invalidated so even after calling this endpoint a
	// user can still sign in assuming the JWT isn't expired. However, the token can't be refreshed
	// using the refresh token supplied upon signin
	//
	// security:
	//	oauth2:
	//
	// responses:
	//	200:
	//	401: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	util.ClearCookies(c)

	c.Status(http.StatusOK)
}
