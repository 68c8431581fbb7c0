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

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SubjectUser   = "user"
	SubjectPatron = "patron"

	DefaultSessionTTL = 24 * time.Hour
)

// AuthService checks credentials against staff accounts first and patrons
// second, and keeps server-side sessions for the session cookie.
type AuthService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewAuthService(db *gorm.DB, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{
		db:  db,
		ttl: ttl,
		now: time.Now,
	}
}

func column(name string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: name}, Value: value}
}

// Login returns the account summary and a new session. Staff log in with
// their username, patrons with their email address.
func (s *AuthService) Login(ctx context.Context, dto *models.LoginDto) (*models.LoginResponse, *models.ServerSession, error) {
	resp, subject, subjectID, err := s.authenticate(ctx, dto)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	session := &models.ServerSession{
		Token:     uuid.NewString(),
		Subject:   subject,
		SubjectID: subjectID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := gorm.G[models.ServerSession](s.db).Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create session", "error", err)
		return nil, nil, err
	}
	return resp, session, nil
}

func (s *AuthService) authenticate(ctx context.Context, dto *models.LoginDto) (*models.LoginResponse, string, int64, error) {
	user, err := gorm.G[models.User](s.db).Where(column("Username", dto.Username)).Take(ctx)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.HashPW), []byte(dto.Password)) != nil {
			return nil, "", 0, customerrors.ErrInvalidCredentials
		}
		return &models.LoginResponse{
			ID:       user.ID,
			Email:    user.Email,
			Username: user.Username,
			IsAdmin:  user.IsAdmin(),
		}, SubjectUser, user.ID, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		slog.ErrorContext(ctx, "failed to look up user", "error", err)
		return nil, "", 0, err
	}

	patron, err := gorm.G[models.Patron](s.db).Where(column("Email", strings.ToLower(dto.Username))).Take(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", 0, customerrors.ErrInvalidCredentials
		}
		slog.ErrorContext(ctx, "failed to look up patron", "error", err)
		return nil, "", 0, err
	}
	if patron.HashPW == "" || bcrypt.CompareHashAndPassword([]byte(patron.HashPW), []byte(dto.Password)) != nil {
		return nil, "", 0, customerrors.ErrInvalidCredentials
	}
	return &models.LoginResponse{
		ID:       patron.ID,
		Email:    patron.Email,
		Username: patron.Name,
	}, SubjectPatron, patron.ID, nil
}

// Session resolves a token. Expired sessions are removed and reported as unauthorized.
func (s *AuthService) Session(ctx context.Context, token string) (*models.ServerSession, error) {
	if token == "" {
		return nil, customerrors.ErrUnauthorized
	}
	session, err := gorm.G[models.ServerSession](s.db).Where(column("token", token)).Take(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerrors.ErrUnauthorized
		}
		return nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		_ = s.Logout(ctx, token)
		return nil, customerrors.ErrUnauthorized
	}
	return &session, nil
}

// Logout drops the session. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := gorm.G[models.ServerSession](s.db).Where(column("token", token)).Delete(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to delete session", "error", err)
		return err
	}
	return nil
}
