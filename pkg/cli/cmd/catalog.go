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

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/spf13/cobra"
)

var staffRoles = []string{models.UserRoleAdmin, models.UserRoleEmployee}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}

var productColumns = []column[models.Product]{
	{"ID", func(p models.Product) string { return formatInt(p.ID) }},
	{"Name", func(p models.Product) string { return p.Name }},
	{"Author", func(p models.Product) string { return p.Author }},
	{"Genre", func(p models.Product) string { return formatInt(p.SubGenre) }},
	{"Updated", func(p models.Product) string { return formatTime(p.LastUpdated) }},
}

var productCmd = (&resourceCommand[models.Product, models.CreateProductDto, models.UpdateProductDto]{
	use:     "product",
	aliases: []string{"products"},
	short:   "Manage the product catalogue",
	resource: func(c *api.Client) *api.Resource[models.Product, models.CreateProductDto, models.UpdateProductDto] {
		return c.Products
	},
	columns: productColumns,
	detail: append(productColumns,
		column[models.Product]{"Updated by", func(p models.Product) string { return p.LastUpdatedBy }},
	),
	afterGet: func(p *models.Product) {
		if p.Description == "" {
			return
		}
		fmt.Println()
		fmt.Println(renderMarkdown(p.Description))
	},
	writeRoles: staffRoles,
}).command()

var genreCmd = &cobra.Command{
	Use:     "genre",
	Aliases: []string{"genres"},
	Short:   "Show product genres",
}

var genreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all genres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		genres, err := GetClient(cmd.Context()).Genres.List(cmd.Context())
		if err != nil {
			return err
		}
		return printList(&pagination.ListResponse[models.Genre]{
			List:     genres,
			PageInfo: pagination.NewPageInfo(len(genres), 0, 0),
		}, []column[models.Genre]{
			{"ID", func(g models.Genre) string { return formatInt(g.GenreID) }},
			{"Name", func(g models.Genre) string { return g.Name }},
		})
	},
}

var stocktakeColumns = []column[models.Stocktake]{
	{"Item", func(s models.Stocktake) string { return formatInt(s.ItemId) }},
	{"Product", func(s models.Stocktake) string {
		if s.Product == nil {
			return formatInt(s.ProductId)
		}
		return fmt.Sprintf("%s (%d)", s.Product.Name, s.Product.ID)
	}},
	{"Source", func(s models.Stocktake) string { return formatInt(s.SourceId) }},
	{"Quantity", func(s models.Stocktake) string { return strconv.Itoa(s.Quantity) }},
	{"Price", func(s models.Stocktake) string { return formatPrice(s.Price) }},
}

var stocktakeCmd = (&resourceCommand[models.Stocktake, models.Stocktake, api.NoUpdate]{
	use:   "stocktake",
	short: "Manage stock items",
	resource: func(c *api.Client) *api.Resource[models.Stocktake, models.Stocktake, api.NoUpdate] {
		return c.Stocktake
	},
	columns:    stocktakeColumns,
	detail:     stocktakeColumns,
	noUpdate:   true,
	writeRoles: staffRoles,
}).command()

func init() {
	rootCmd.AddCommand(productCmd)

	rootCmd.AddCommand(genreCmd)
	genreCmd.AddCommand(genreListCmd)

	rootCmd.AddCommand(stocktakeCmd)
}
