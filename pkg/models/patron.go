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

import "time"

type Patron struct {
	ID             int64     `gorm:"column:ID;primaryKey;autoIncrement" json:"ID"`
	Name           string    `gorm:"column:Name;type:varchar(255);not null" json:"Name"`
	Email          string    `gorm:"column:Email;type:varchar(255);not null;uniqueIndex" json:"Email"`
	Phone          string    `gorm:"column:Phone;type:varchar(50);not null;default:''" json:"Phone"`
	Address        string    `gorm:"column:Address;type:varchar(255);not null;default:''" json:"Address"`
	MembershipType string    `gorm:"column:MembershipType;type:varchar(50);not null;default:'standard'" json:"MembershipType"`
	HashPW         string    `gorm:"column:HashPW;type:varchar(255);not null;default:''" json:"-"`
	CreatedAt      time.Time `gorm:"column:CreatedAt;autoCreateTime" json:"CreatedAt"`
	UpdatedAt      time.Time `gorm:"column:UpdatedAt;autoUpdateTime" json:"UpdatedAt"`
}

func (Patron) TableName() string {
	return "Patrons"
}

type CreatePatronDto struct {
	Name           string `json:"Name" validate:"required,max=255"`
	Email          string `json:"Email" validate:"required,email"`
	Phone          string `json:"Phone,omitempty" validate:"max=50"`
	Address        string `json:"Address,omitempty" validate:"max=255"`
	MembershipType string `json:"MembershipType,omitempty" validate:"omitempty,oneof=standard silver gold"`
	Password       string `json:"Password,omitempty" validate:"omitempty,min=6"`
}

type UpdatePatronDto struct {
	Name           *string `json:"Name,omitempty" validate:"omitempty,min=1,max=255"`
	Email          *string `json:"Email,omitempty" validate:"omitempty,email"`
	Phone          *string `json:"Phone,omitempty" validate:"omitempty,max=50"`
	Address        *string `json:"Address,omitempty" validate:"omitempty,max=255"`
	MembershipType *string `json:"MembershipType,omitempty" validate:"omitempty,oneof=standard silver gold"`
}

func (d *UpdatePatronDto) Updates() map[string]any {
	updates := make(map[string]any)
	setIf(updates, "Name", d.Name)
	setIf(updates, "Email", d.Email)
	setIf(updates, "Phone", d.Phone)
	setIf(updates, "Address", d.Address)
	setIf(updates, "MembershipType", d.MembershipType)
	return updates
}
