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

type Genre struct {
	GenreID int64  `gorm:"column:GenreID;primaryKey;autoIncrement" json:"GenreID"`
	Name    string `gorm:"column:Name;type:varchar(255);not null" json:"Name"`
}

func (Genre) TableName() string {
	return "Genre"
}

type Stocktake struct {
	ItemId    int64             `gorm:"column:ItemId;primaryKey;autoIncrement" json:"ItemId"`
	SourceId  int64             `gorm:"column:SourceId;not null;default:0" json:"SourceId"`
	ProductId int64             `gorm:"column:ProductId;not null;index" json:"ProductId"`
	Quantity  int               `gorm:"column:Quantity;not null;default:0" json:"Quantity"`
	Price     float64           `gorm:"column:Price;not null;default:0" json:"Price"`
	Product   *StocktakeProduct `gorm:"-" json:"Product,omitempty"`
}

func (Stocktake) TableName() string {
	return "Stocktake"
}

type StocktakeProduct struct {
	ID   int64  `json:"ID"`
	Name string `json:"Name"`
}
