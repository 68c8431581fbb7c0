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
	"time"

	"gorm.io/gorm"
)

// Services groups every collection served by the development backend.
type Services struct {
	Products  *ProductService
	Genres    *GenreService
	Stocktake *StocktakeService
	Patrons   *PatronService
	Users     *UserService
	TOs       *TOService
	Orders    *OrderService
	Auth      *AuthService
}

func New(db *gorm.DB, sessionTTL time.Duration) *Services {
	return &Services{
		Products:  NewProductService(db),
		Genres:    NewGenreService(db),
		Stocktake: NewStocktakeService(db),
		Patrons:   NewPatronService(db),
		Users:     NewUserService(db),
		TOs:       NewTOService(db),
		Orders:    NewOrderService(db),
		Auth:      NewAuthService(db, sessionTTL),
	}
}
