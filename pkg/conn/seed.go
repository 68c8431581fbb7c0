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

package conn

import (
	"context"
	"log/slog"

	"github.com/masteryyh/storefront/pkg/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type presetProduct struct {
	Name        string
	Author      string
	Description string
	Genre       int64
	Quantity    int
	Price       float64
}

type presetAccount struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Role      string
	Password  string
}

var presetGenres = []models.Genre{
	{GenreID: 1, Name: "Books"},
	{GenreID: 2, Name: "Movies"},
	{GenreID: 3, Name: "Games"},
}

var presetProducts = []presetProduct{
	{Name: "Dune", Author: "Frank Herbert", Description: "Desert planet, **spice**, and a boy who would be emperor.", Genre: 1, Quantity: 12, Price: 19.99},
	{Name: "Emma", Author: "Jane Austen", Description: "A comedy of matchmaking gone wrong.", Genre: 1, Quantity: 8, Price: 12.5},
	{Name: "Neuromancer", Author: "William Gibson", Description: "The novel that coined *cyberspace*.", Genre: 1, Quantity: 5, Price: 17},
	{Name: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Description: "An envoy on a world without fixed sex.", Genre: 1, Quantity: 6, Price: 18.75},
	{Name: "Blade Runner", Author: "Ridley Scott", Description: "Replicants, rain, and origami unicorns.", Genre: 2, Quantity: 4, Price: 24.99},
	{Name: "Spirited Away", Author: "Hayao Miyazaki", Description: "A girl works in a bathhouse for spirits.", Genre: 2, Quantity: 9, Price: 21},
	{Name: "Alien", Author: "Ridley Scott", Description: "In space no one can hear you scream.", Genre: 2, Quantity: 3, Price: 16.5},
	{Name: "Portal 2", Author: "Valve", Description: "Think with portals. Cake not included.", Genre: 3, Quantity: 10, Price: 14.99},
	{Name: "Celeste", Author: "Maddy Thorson", Description: "Climb the mountain, one dash at a time.", Genre: 3, Quantity: 7, Price: 19.5},
	{Name: "Hades", Author: "Supergiant Games", Description: "Escape the underworld, die, repeat.", Genre: 3, Quantity: 11, Price: 29.95},
}

var presetAccounts = []presetAccount{
	{Username: "admin", Email: "admin@storefront.local", FirstName: "Admin", LastName: "User", Role: models.UserRoleAdmin, Password: "admin123"},
	{Username: "employee", Email: "employee@storefront.local", FirstName: "John", LastName: "Employee", Role: models.UserRoleEmployee, Password: "employee123"},
}

var presetPatrons = []presetAccount{
	{Email: "alice@example.com", FirstName: "Alice", LastName: "Customer", Password: "customer123"},
	{Email: "bob@example.com", FirstName: "Bob", LastName: "Smith", Password: "customer123"},
}

// Seed fills an empty development database with a demo catalogue and
// accounts. Tables that already hold rows are left alone.
func Seed(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Genre{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := tx.Create(&presetGenres).Error; err != nil {
				return err
			}
			slog.InfoContext(ctx, "created preset genres", "count", len(presetGenres))
		}

		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for i, pp := range presetProducts {
				product := &models.Product{
					Name:          pp.Name,
					Author:        pp.Author,
					Description:   pp.Description,
					SubGenre:      pp.Genre,
					LastUpdatedBy: "seed",
				}
				if err := tx.Create(product).Error; err != nil {
					return err
				}
				item := &models.Stocktake{
					SourceId:  int64(i%3 + 1),
					ProductId: product.ID,
					Quantity:  pp.Quantity,
					Price:     pp.Price,
				}
				if err := tx.Create(item).Error; err != nil {
					return err
				}
			}
			slog.InfoContext(ctx, "created preset products", "count", len(presetProducts))
		}

		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, pa := range presetAccounts {
				hash, err := bcrypt.GenerateFromPassword([]byte(pa.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				user := &models.User{
					Username:  pa.Username,
					Email:     pa.Email,
					FirstName: pa.FirstName,
					LastName:  pa.LastName,
					Role:      pa.Role,
					HashPW:    string(hash),
				}
				if err := tx.Create(user).Error; err != nil {
					return err
				}
				slog.InfoContext(ctx, "created preset user", "username", pa.Username, "role", pa.Role)
			}
		}

		if err := tx.Model(&models.Patron{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			for _, pp := range presetPatrons {
				hash, err := bcrypt.GenerateFromPassword([]byte(pp.Password), bcrypt.DefaultCost)
				if err != nil {
					return err
				}
				patron := &models.Patron{
					Name:           pp.FirstName + " " + pp.LastName,
					Email:          pp.Email,
					MembershipType: "standard",
					HashPW:         string(hash),
				}
				if err := tx.Create(patron).Error; err != nil {
					return err
				}
			}
			slog.InfoContext(ctx, "created preset patrons", "count", len(presetPatrons))
		}
		return nil
	}); err != nil {
		slog.ErrorContext(ctx, "failed to seed development data", "error", err)
		return err
	}
	return nil
}
