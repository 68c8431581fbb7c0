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

package models

import (
	"strings"
	"time"
)

const (
	UserRoleAdmin    = "admin"
	UserRoleEmployee = "employee"
	UserRoleCustomer = "customer"
)

type User struct {
	ID        int64     `gorm:"column:ID;primaryKey;autoIncrement" json:"ID"`
	Username  string    `gorm:"column:Username;type:varchar(255);not null;uniqueIndex" json:"Username"`
	Email     string    `gorm:"column:Email;type:varchar(255);not null" json:"Email"`
	FirstName string    `gorm:"column:FirstName;type:varchar(255);not null;default:''" json:"FirstName"`
	LastName  string    `gorm:"column:LastName;type:varchar(255);not null;default:''" json:"LastName"`
	Role      string    `gorm:"column:Role;type:varchar(50);not null;default:'employee'" json:"Role"`
	HashPW    string    `gorm:"column:HashPW;type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `gorm:"column:CreatedAt;autoCreateTime" json:"CreatedAt"`
	UpdatedAt time.Time `gorm:"column:UpdatedAt;autoUpdateTime" json:"UpdatedAt"`
}

func (User) TableName() string {
	return "User"
}

func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, UserRoleAdmin)
}

type CreateUserDto struct {
	Username  string `json:"Username" validate:"required,max=255"`
	Email     string `json:"Email" validate:"required,email"`
	FirstName string `json:"FirstName" validate:"max=255"`
	LastName  string `json:"LastName" validate:"max=255"`
	Role      string `json:"Role" validate:"required,oneof=admin employee customer"`
	Password  string `json:"Password" validate:"required,min=6"`
}

type UpdateUserDto struct {
	Username  *string `json:"Username,omitempty" validate:"omitempty,min=1,max=255"`
	Email     *string `json:"Email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"FirstName,omitempty" validate:"omitempty,max=255"`
	LastName  *string `json:"LastName,omitempty" validate:"omitempty,max=255"`
	Role      *string `json:"Role,omitempty" validate:"omitempty,oneof=admin employee customer"`
}

func (d *UpdateUserDto) Updates() map[string]any {
	updates := make(map[string]any)
	setIf(updates, "Username", d.Username)
	setIf(updates, "Email", d.Email)
	setIf(updates, "FirstName", d.FirstName)
	setIf(updates, "LastName", d.LastName)
	setIf(updates, "Role", d.Role)
	return updates
}

// SignUpDto is the self-registration form. It becomes a customer account.
type SignUpDto struct {
	Username string `json:"Username" validate:"required,max=255"`
	Email    string `json:"Email" validate:"required,email"`
	Name     string `json:"Name" validate:"required,max=255"`
	Password string `json:"Password" validate:"required,min=6"`
}

func (d *SignUpDto) ToCreateUser() *CreateUserDto {
	first, last, _ := strings.Cut(strings.TrimSpace(d.Name), " ")
	return &CreateUserDto{
		Username:  d.Username,
		Email:     d.Email,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Role:      UserRoleCustomer,
		Password:  d.Password,
	}
}

type LoginDto struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
