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
	"time"
)

type Product struct {
	ID            int64     `gorm:"column:ID;primaryKey;autoIncrement" json:"ID"`
	Name          string    `gorm:"column:Name;type:varchar(255);not null" json:"Name"`
	Author        string    `gorm:"column:Author;type:varchar(255);not null;default:''" json:"Author"`
	Description   string    `gorm:"column:Description;type:text" json:"Description"`
	SubGenre      int64     `gorm:"column:SubGenre;not null;default:0" json:"SubGenre"`
	LastUpdatedBy string    `gorm:"column:LastUpdatedBy;type:varchar(255);not null;default:''" json:"LastUpdatedBy"`
	LastUpdated   time.Time `gorm:"column:LastUpdated;autoUpdateTime" json:"LastUpdated"`
}

func (Product) TableName() string {
	return "Product"
}

type CreateProductDto struct {
	Name          string `json:"Name" validate:"required,max=255"`
	Author        string `json:"Author" validate:"max=255"`
	Description   string `json:"Description"`
	SubGenre      int64  `json:"SubGenre" validate:"min=0"`
	LastUpdatedBy string `json:"LastUpdatedBy" validate:"max=255"`
}

func (d *CreateProductDto) ToModel() *Product {
	return &Product{
		Name:          d.Name,
		Author:        d.Author,
		Description:   d.Description,
		SubGenre:      d.SubGenre,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

type UpdateProductDto struct {
	Name          *string `json:"Name,omitempty" validate:"omitempty,min=1,max=255"`
	Author        *string `json:"Author,omitempty" validate:"omitempty,max=255"`
	Description   *string `json:"Description,omitempty"`
	SubGenre      *int64  `json:"SubGenre,omitempty" validate:"omitempty,min=0"`
	LastUpdatedBy *string `json:"LastUpdatedBy,omitempty" validate:"omitempty,max=255"`
}

func (d *UpdateProductDto) Updates() map[string]any {
	updates := make(map[string]any)
	setIf(updates, "Name", d.Name)
	setIf(updates, "Author", d.Author)
	setIf(updates, "Description", d.Description)
	setIf(updates, "SubGenre", d.SubGenre)
	setIf(updates, "LastUpdatedBy", d.LastUpdatedBy)
	return updates
}

func setIf[T any](updates map[string]any, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}
