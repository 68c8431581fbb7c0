/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/services"
	"github.com/masteryyh/storefront/pkg/utils/response"
)

const sessionKey = "session"

func BasicAuthMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Username == "" {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
			c.Abort()
			c.String(http.StatusUnauthorized, "authorization required")
			return
		}

		usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.Username)) == 1
		passwordMatch := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1

		if !usernameMatch || !passwordMatch {
			c.Header("WWW-Authenticate", `Basic realm="Authorization Required"`)
			c.Abort()
			c.String(http.StatusUnauthorized, "invalid username or password")
			return
		}

		c.Next()
	}
}

// SessionMiddleware resolves the session cookie. With requireAuth set,
// anything other than a read needs a live session, except logging in and out.
func SessionMiddleware(auth *services.AuthService, requireAuth bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(consts.SessionCookie); err == nil && token != "" {
			if session, err := auth.Session(c.Request.Context(), token); err == nil {
				c.Set(sessionKey, session)
			}
		}

		if !requireAuth || isPublic(c.Request) {
			c.Next()
			return
		}
		if _, ok := c.Get(sessionKey); !ok {
			response.Abort(c, customerrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func isPublic(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	return strings.HasSuffix(path, "/login") || strings.HasSuffix(path, "/logout")
}

// GetSession returns the session resolved for this request, if any.
func GetSession(c *gin.Context) *models.ServerSession {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.ServerSession)
	return session
}
