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

// TO is the customer record an order ships and bills to.
type TO struct {
	CustomerID    int64     `gorm:"column:CustomerID;primaryKey;autoIncrement" json:"CustomerID"`
	PatronId      int64     `gorm:"column:PatronId;not null;default:0;index" json:"PatronId"`
	Email         string    `gorm:"column:Email;type:varchar(255);not null" json:"Email"`
	PhoneNumber   *string   `gorm:"column:PhoneNumber;type:varchar(50)" json:"PhoneNumber"`
	StreetAddress *string   `gorm:"column:StreetAddress;type:varchar(255)" json:"StreetAddress"`
	PostCode      *string   `gorm:"column:PostCode;type:varchar(20)" json:"PostCode"`
	Suburb        *string   `gorm:"column:Suburb;type:varchar(255)" json:"Suburb"`
	State         *string   `gorm:"column:State;type:varchar(50)" json:"State"`
	CardNumber    string    `gorm:"column:CardNumber;type:varchar(32);not null" json:"CardNumber"`
	CardOwner     string    `gorm:"column:CardOwner;type:varchar(255);not null" json:"CardOwner"`
	Expiry        string    `gorm:"column:Expiry;type:varchar(10);not null" json:"Expiry"`
	CVV           int       `gorm:"column:CVV;not null" json:"CVV"`
	Patrons       *TOPatron `gorm:"-" json:"Patrons,omitempty"`
}

func (TO) TableName() string {
	return "TO"
}

type TOPatron struct {
	UserID int64  `json:"UserID"`
	Email  string `json:"Email"`
}

type CreateTODto struct {
	PatronId      int64   `json:"PatronId" validate:"min=0"`
	Email         string  `json:"Email" validate:"required,email"`
	PhoneNumber   *string `json:"PhoneNumber,omitempty" validate:"omitempty,max=50"`
	StreetAddress *string `json:"StreetAddress,omitempty" validate:"omitempty,max=255"`
	PostCode      *string `json:"PostCode,omitempty" validate:"omitempty,numeric,max=20"`
	Suburb        *string `json:"Suburb,omitempty" validate:"omitempty,max=255"`
	State         *string `json:"State,omitempty" validate:"omitempty,max=50"`
	CardNumber    string  `json:"CardNumber" validate:"required,numeric,min=12,max=19"`
	CardOwner     string  `json:"CardOwner" validate:"required,max=255"`
	Expiry        string  `json:"Expiry" validate:"required,len=5"`
	CVV           int     `json:"CVV" validate:"min=0,max=9999"`
}

func (d *CreateTODto) ToModel() *TO {
	return &TO{
		PatronId:      d.PatronId,
		Email:         d.Email,
		PhoneNumber:   d.PhoneNumber,
		StreetAddress: d.StreetAddress,
		PostCode:      d.PostCode,
		Suburb:        d.Suburb,
		State:         d.State,
		CardNumber:    d.CardNumber,
		CardOwner:     d.CardOwner,
		Expiry:        d.Expiry,
		CVV:           d.CVV,
	}
}
