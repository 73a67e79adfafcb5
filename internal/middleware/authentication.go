package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/localhive/event-catalog/internal/errdef"

	"github.com/localhive/event-catalog/pkg/model"
	"github.com/gin-gonic/gin"
)

func NewAuthentication(publicKey *rsa.PublicKey, signInService signInService) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		publicKey:     publicKey,
		signInService: signInService,
	}
}

type signInService interface {
	SignIn(ctx context.Context, email string, password string) (*model.User, error)
}

type AuthenticationMiddleware struct {
	publicKey     *rsa.PublicKey
	signInService signInService
}

// BasicAuthentication authenticates requests using the HTTP basic auth scheme.
func (m AuthenticationMiddleware) BasicAuthentication(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		m.handleError(c, errors.New("invalid Authorization header format"))
		return
	}

	user, err := m.signInService.SignIn(c.Request.Context(), username, password)
	if err != nil {
		m.handleError(c, err)
		return
	}

	m.setUser(c, user)
	c.Next()
}

// handleError responds with unauthorized unless the account exists but is not
// validated yet, which is forbidden.
func (m AuthenticationMiddleware) handleError(c *gin.Context, e error) {
	if errdef.IsForbidden(e) {
		_ = c.AbortWithError(http.StatusForbidden, e)
		return
	}
	_ = c.AbortWithError(http.StatusUnauthorized, e)
}

// TokenAuthentication authenticates requests using the access token from either the Authorization
// header or the access/refresh token cookies.
func (m AuthenticationMiddleware) TokenAuthentication(c *gin.Context) {
	user, err := parseRequest(c.Request, m.publicKey)
	if err != nil {
		_ = c.Error(errdef.NewUnauthorized("token not valid"))
		c.Abort()
		return
	}

	m.setUser(c, user)
	c.Next()
}

// setUser makes the user available to handlers via the Gin context and to logs via the
// [http.Request.Context].
func (m AuthenticationMiddleware) setUser(c *gin.Context, user *model.User) {
	c.Set("user", user)
	ctx := model.NewContextWithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
}

func parseRequest(request *http.Request, key *rsa.PublicKey) (*model.User, error) {
	token, err := jwt.ParseRequest(
		request,
		jwt.WithKey(jwa.RS256, key),
		jwt.WithHeaderKey("Authorization"),
		jwt.WithCookieKey("accessToken"),
		jwt.WithCookieKey("refreshToken"),
	)
	if err != nil {
		return nil, err
	}

	return extractUser(token)
}

func extractUser(token jwt.Token) (*model.User, error) {
	userData, ok := token.Get("user")
	if !ok {
		return nil, errors.New("user not found in claims")
	}

	bytes, err := json.Marshal(userData)
	if err != nil {
		return nil, err
	}

	user := &model.User{}
	err = json.Unmarshal(bytes, user)
	return user, err
}
