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

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/middleware"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/services"
	"github.com/masteryyh/storefront/pkg/utils/response"
)

type AuthRoutes struct {
	service *services.AuthService
}

func NewAuthRoutes(service *services.AuthService) *AuthRoutes {
	return &AuthRoutes{service: service}
}

func (r *AuthRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", r.Login)
	router.POST("/logout", r.Logout)
	router.GET("/session", r.Session)
}

func (r *AuthRoutes) Login(c *gin.Context) {
	var dto models.LoginDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.Failed(c, customerrors.InvalidParams(err))
		return
	}

	resp, session, err := r.service.Login(c, &dto)
	if err != nil {
		response.Failed(c, err)
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookie, session.Token, maxAge, "/", "", false, true)
	response.OK(c, resp)
}

func (r *AuthRoutes) Logout(c *gin.Context) {
	if token, err := c.Cookie(consts.SessionCookie); err == nil {
		if err := r.service.Logout(c, token); err != nil {
			response.Failed(c, err)
			return
		}
	}
	c.SetCookie(consts.SessionCookie, "", -1, "/", "", false, true)
	response.NoContent(c)
}

func (r *AuthRoutes) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		response.Failed(c, customerrors.ErrUnauthorized)
		return
	}
	response.OK(c, gin.H{
		"subject":   session.Subject,
		"subjectId": session.SubjectID,
		"expiresAt": session.ExpiresAt,
	})
}
