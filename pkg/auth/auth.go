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

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/request"
)

// Store is the persistent key/value backing of the session.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

type Session struct {
	User            *models.LoginResponse `json:"user,omitempty"`
	Role            string                `json:"role,omitempty"`
	IsAuthenticated bool                  `json:"isAuthenticated"`
	IsLoggedIn      bool                  `json:"isLoggedIn"`
}

// Service owns the single session of this client. It is read from the store
// once by Init and cleared by Logout.
type Service struct {
	mu       sync.RWMutex
	client   *api.Client
	store    Store
	session  Session
	initOnce sync.Once
	initErr  error
}

func NewService(client *api.Client, store Store) *Service {
	return &Service{
		client: client,
		store:  store,
	}
}

func (s *Service) Init(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.load(ctx)
	})
	return s.initErr
}

func (s *Service) load(ctx context.Context) error {
	var session Session
	var user models.LoginResponse
	found, err := s.store.Get(ctx, consts.KeyUser, &user)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if found {
		session.User = &user
	}
	if _, err := s.store.Get(ctx, consts.KeyRole, &session.Role); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if _, err := s.store.Get(ctx, consts.KeyIsAuthenticated, &session.IsAuthenticated); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if _, err := s.store.Get(ctx, consts.KeyIsLoggedIn, &session.IsLoggedIn); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	var cookies []request.SessionCookie
	if _, err := s.store.Get(ctx, consts.KeyCookies, &cookies); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	s.client.Transport().RestoreCookies(cookies)

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	return nil
}

// AdminLogin signs in back-office staff. Admin accounts get the admin role,
// everyone else is an employee.
func (s *Service) AdminLogin(ctx context.Context, dto *models.LoginDto) (Session, error) {
	return s.login(ctx, dto, func(resp *models.LoginResponse) string {
		if resp.IsAdmin {
			return models.UserRoleAdmin
		}
		return models.UserRoleEmployee
	})
}

func (s *Service) CustomerLogin(ctx context.Context, dto *models.LoginDto) (Session, error) {
	return s.login(ctx, dto, func(*models.LoginResponse) string {
		return models.UserRoleCustomer
	})
}

func (s *Service) login(ctx context.Context, dto *models.LoginDto, roleOf func(*models.LoginResponse) string) (Session, error) {
	resp, err := s.client.Login(ctx, dto)
	if err != nil {
		return Session{}, err
	}
	if resp == nil {
		return Session{}, customerrors.ErrInvalidCredentials
	}

	session := Session{
		User:            resp,
		Role:            roleOf(resp),
		IsAuthenticated: true,
		IsLoggedIn:      true,
	}
	if err := s.save(ctx, session); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
	slog.DebugContext(ctx, "logged in", "username", resp.Username, "role", session.Role)
	return session, nil
}

func (s *Service) save(ctx context.Context, session Session) error {
	values := []struct {
		key   string
		value any
	}{
		{consts.KeyUser, session.User},
		{consts.KeyRole, session.Role},
		{consts.KeyIsAuthenticated, session.IsAuthenticated},
		{consts.KeyIsLoggedIn, session.IsLoggedIn},
		{consts.KeyCookies, s.client.Transport().Cookies()},
	}
	for _, v := range values {
		if err := s.store.Set(ctx, v.key, v.value); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}
	return nil
}

// Logout tells the backend, then clears the local session whatever the
// backend answered. A backend failure is still returned.
func (s *Service) Logout(ctx context.Context) error {
	remoteErr := s.client.Logout(ctx)

	s.mu.Lock()
	s.session = Session{}
	s.mu.Unlock()

	s.client.Transport().ClearCookies()
	s.client.Cache().Clear()
	if err := s.store.Delete(ctx,
		consts.KeyUser,
		consts.KeyRole,
		consts.KeyIsAuthenticated,
		consts.KeyIsLoggedIn,
		consts.KeyCookies,
	); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	if remoteErr != nil {
		return fmt.Errorf("logout request failed: %w", remoteErr)
	}
	return nil
}

func (s *Service) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Require checks that someone is logged in and, when roles are given, that
// the session holds one of them.
func (s *Service) Require(roles ...string) error {
	session := s.Session()
	if !session.IsAuthenticated {
		return customerrors.ErrNotLoggedIn
	}
	if len(roles) > 0 && !slices.Contains(roles, session.Role) {
		return customerrors.ErrForbidden
	}
	return nil
}
