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
	"fmt"
	"strings"

	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

type PatronService struct {
	table *Table[models.Patron]
}

func NewPatronService(db *gorm.DB) *PatronService {
	return &PatronService{table: NewTable[models.Patron](db)}
}

func (s *PatronService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.Patron], error) {
	return s.table.List(ctx, params)
}

func (s *PatronService) Get(ctx context.Context, id int64) (*models.Patron, error) {
	return s.table.Get(ctx, id)
}

// Create stores a patron. Without a password the patron cannot log in.
func (s *PatronService) Create(ctx context.Context, dto *models.CreatePatronDto) (*models.Patron, error) {
	patron := &models.Patron{
		Name:           dto.Name,
		Email:          strings.ToLower(dto.Email),
		Phone:          dto.Phone,
		Address:        dto.Address,
		MembershipType: dto.MembershipType,
	}
	if patron.MembershipType == "" {
		patron.MembershipType = "standard"
	}
	if dto.Password != "" {
		hash, err := hashPassword(dto.Password)
		if err != nil {
			return nil, err
		}
		patron.HashPW = hash
	}

	if err := s.table.Create(ctx, patron); err != nil {
		return nil, err
	}
	return patron, nil
}

func (s *PatronService) Update(ctx context.Context, id int64, dto *models.UpdatePatronDto) (*models.Patron, error) {
	updates := dto.Updates()
	if email, ok := updates["Email"].(string); ok {
		updates["Email"] = strings.ToLower(email)
	}
	return s.table.Update(ctx, id, updates)
}

func (s *PatronService) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}

type UserService struct {
	table *Table[models.User]
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{table: NewTable[models.User](db)}
}

func (s *UserService) List(ctx context.Context, params *pagination.QueryParams) (*pagination.ListResponse[models.User], error) {
	return s.table.List(ctx, params)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.table.Get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, dto *models.CreateUserDto) (*models.User, error) {
	hash, err := hashPassword(dto.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  dto.Username,
		Email:     strings.ToLower(dto.Email),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Role:      strings.ToLower(dto.Role),
		HashPW:    hash,
	}
	if err := s.table.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, dto *models.UpdateUserDto) (*models.User, error) {
	updates := dto.Updates()
	if email, ok := updates["Email"].(string); ok {
		updates["Email"] = strings.ToLower(email)
	}
	return s.table.Update(ctx, id, updates)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.table.Delete(ctx, id)
}
