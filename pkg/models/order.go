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

type Order struct {
	OrderID          int64             `gorm:"column:OrderID;primaryKey;autoIncrement" json:"OrderID"`
	Customer         int64             `gorm:"column:Customer;not null;index" json:"Customer"`
	StreetAddress    string            `gorm:"column:StreetAddress;type:varchar(255);not null;default:''" json:"StreetAddress"`
	PostCode         int               `gorm:"column:PostCode;not null;default:0" json:"PostCode"`
	Suburb           string            `gorm:"column:Suburb;type:varchar(255);not null;default:''" json:"Suburb"`
	State            string            `gorm:"column:State;type:varchar(50);not null;default:''" json:"State"`
	TO               *OrderTO          `gorm:"-" json:"TO,omitempty"`
	StocktakeList    []OrderStocktake  `gorm:"-" json:"Stocktake List"`
	ProductsInOrders []ProductsInOrder `gorm:"-" json:"ProductsInOrders List"`
}

func (Order) TableName() string {
	return "Orders"
}

type OrderTO struct {
	CustomerID int64 `json:"CustomerID"`
	PatronId   int64 `json:"PatronId"`
}

type OrderStocktake struct {
	ItemId   int64 `json:"ItemId"`
	SourceId int64 `json:"SourceId"`
}

// ProductsInOrder is one order line. ProduktId points at a stocktake item.
type ProductsInOrder struct {
	ID        int64 `gorm:"column:ID;primaryKey;autoIncrement" json:"-"`
	OrderId   int64 `gorm:"column:OrderId;not null;index" json:"OrderId"`
	ProduktId int64 `gorm:"column:produktId;not null" json:"produktId"`
	Quantity  int   `gorm:"column:Quantity;not null;default:1" json:"Quantity"`
}

func (ProductsInOrder) TableName() string {
	return "ProductsInOrders"
}

type OrderLineDto struct {
	ProduktId int64 `json:"produktId" validate:"required,min=1"`
	Quantity  int   `json:"Quantity" validate:"required,min=1"`
}

type CreateOrderDto struct {
	Customer      int64          `json:"Customer" validate:"required,min=1"`
	StreetAddress string         `json:"StreetAddress" validate:"max=255"`
	PostCode      int            `json:"PostCode" validate:"min=0"`
	Suburb        string         `json:"Suburb" validate:"max=255"`
	State         string         `json:"State" validate:"max=50"`
	Lines         []OrderLineDto `json:"ProductsInOrders" validate:"required,min=1,dive"`
}

type UpdateOrderDto struct {
	StreetAddress *string `json:"StreetAddress,omitempty" validate:"omitempty,max=255"`
	PostCode      *int    `json:"PostCode,omitempty" validate:"omitempty,min=0"`
	Suburb        *string `json:"Suburb,omitempty" validate:"omitempty,max=255"`
	State         *string `json:"State,omitempty" validate:"omitempty,max=50"`
}

func (d *UpdateOrderDto) Updates() map[string]any {
	updates := make(map[string]any)
	setIf(updates, "StreetAddress", d.StreetAddress)
	setIf(updates, "PostCode", d.PostCode)
	setIf(updates, "Suburb", d.Suburb)
	setIf(updates, "State", d.State)
	return updates
}
