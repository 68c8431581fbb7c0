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
	"strconv"
	"strings"

	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
)

func orderAddress(o models.Order) string {
	parts := lo.Compact([]string{o.StreetAddress, o.Suburb, o.State})
	if o.PostCode > 0 {
		parts = append(parts, strconv.Itoa(o.PostCode))
	}
	return strings.Join(parts, ", ")
}

var orderColumns = []column[models.Order]{
	{"ID", func(o models.Order) string { return formatInt(o.OrderID) }},
	{"Customer", func(o models.Order) string { return formatInt(o.Customer) }},
	{"Address", orderAddress},
	{"Items", func(o models.Order) string {
		return strconv.Itoa(lo.SumBy(o.ProductsInOrders, func(line models.ProductsInOrder) int {
			return line.Quantity
		}))
	}},
}

var orderCmd = (&resourceCommand[models.Order, models.CreateOrderDto, models.UpdateOrderDto]{
	use:     "order",
	aliases: []string{"orders"},
	short:   "Manage orders",
	resource: func(c *api.Client) *api.Resource[models.Order, models.CreateOrderDto, models.UpdateOrderDto] {
		return c.Orders
	},
	columns: orderColumns,
	detail: append(orderColumns,
		column[models.Order]{"Patron", func(o models.Order) string {
			if o.TO == nil {
				return ""
			}
			return formatInt(o.TO.PatronId)
		}},
	),
	afterGet: func(o *models.Order) {
		if len(o.ProductsInOrders) == 0 {
			return
		}
		tableData := [][]string{{"Stock item", "Quantity"}}
		for _, line := range o.ProductsInOrders {
			tableData = append(tableData, []string{formatInt(line.ProduktId), strconv.Itoa(line.Quantity)})
		}
		pterm.DefaultSection.Println("Lines")
		pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
	},
	writeRoles: staffRoles,
}).command()

// maskCard keeps the last four digits.
func maskCard(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

var toColumns = []column[models.TO]{
	{"ID", func(t models.TO) string { return formatInt(t.CustomerID) }},
	{"Patron", func(t models.TO) string { return formatInt(t.PatronId) }},
	{"Email", func(t models.TO) string { return t.Email }},
	{"Card owner", func(t models.TO) string { return t.CardOwner }},
	{"Card", func(t models.TO) string { return maskCard(t.CardNumber) }},
}

var toCmd = (&resourceCommand[models.TO, models.CreateTODto, api.NoUpdate]{
	use:      "to",
	short:    "Manage order shipping and payment records",
	resource: func(c *api.Client) *api.Resource[models.TO, models.CreateTODto, api.NoUpdate] { return c.TO },
	columns:  toColumns,
	detail: append(toColumns,
		column[models.TO]{"Phone", func(t models.TO) string { return lo.FromPtr(t.PhoneNumber) }},
		column[models.TO]{"Address", func(t models.TO) string {
			return strings.Join(lo.Compact([]string{
				lo.FromPtr(t.StreetAddress),
				lo.FromPtr(t.Suburb),
				lo.FromPtr(t.State),
				lo.FromPtr(t.PostCode),
			}), ", ")
		}},
		column[models.TO]{"Expiry", func(t models.TO) string { return t.Expiry }},
	),
	noUpdate:   true,
	writeRoles: staffRoles,
}).command()

func init() {
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(toCmd)
}
