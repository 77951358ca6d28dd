package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "cart_session"
	sessionHeader = "X-Cart-Session"
	sessionMaxAge = 7 * 24 * 60 * 60
)

// cartSession returns the caller's cart session id. With create set, a caller without
// one gets a fresh id in a cookie.
func cartSession(c *gin.Context, create bool) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	if !create {
		return ""
	}
	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
	c.Header(sessionHeader, id)
	return id
}
