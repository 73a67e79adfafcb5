package util

import (
	"net/http"

	"github.com/localhive/event-catalog/pkg/token"
	"github.com/gin-gonic/gin"
)

// SetCookies sets the access and refresh token cookies. The refresh token cookie is scoped to the
// refresh path so browsers only send it when rotating tokens.
func SetCookies(c *gin.Context, tokens *token.Tokens, sameSiteMode http.SameSite, hostname string) {
	c.SetSameSite(sameSiteMode)
	c.SetCookie("accessToken", tokens.AccessToken, int(tokens.ExpiresIn), "/", hostname, true, true)
	c.SetCookie("refreshToken", tokens.RefreshToken, 0, "/refresh", hostname, true, true)
}

// ClearCookies expires both token cookies. The paths have to match the ones used by [SetCookies].
func ClearCookies(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", true, true)
	c.SetCookie("refreshToken", "", -1, "/refresh", "", true, true)
}
