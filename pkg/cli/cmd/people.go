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
	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/models"
)

var patronColumns = []column[models.Patron]{
	{"ID", func(p models.Patron) string { return formatInt(p.ID) }},
	{"Name", func(p models.Patron) string { return p.Name }},
	{"Email", func(p models.Patron) string { return p.Email }},
	{"Phone", func(p models.Patron) string { return p.Phone }},
	{"Membership", func(p models.Patron) string { return p.MembershipType }},
}

var patronCmd = (&resourceCommand[models.Patron, models.CreatePatronDto, models.UpdatePatronDto]{
	use:     "patron",
	aliases: []string{"patrons"},
	short:   "Manage patrons",
	resource: func(c *api.Client) *api.Resource[models.Patron, models.CreatePatronDto, models.UpdatePatronDto] {
		return c.Patrons
	},
	columns: patronColumns,
	detail: append(patronColumns,
		column[models.Patron]{"Address", func(p models.Patron) string { return p.Address }},
		column[models.Patron]{"Created", func(p models.Patron) string { return formatTime(p.CreatedAt) }},
		column[models.Patron]{"Updated", func(p models.Patron) string { return formatTime(p.UpdatedAt) }},
	),
	writeRoles: staffRoles,
}).command()

var userColumns = []column[models.User]{
	{"ID", func(u models.User) string { return formatInt(u.ID) }},
	{"Username", func(u models.User) string { return u.Username }},
	{"Email", func(u models.User) string { return u.Email }},
	{"Name", func(u models.User) string { return u.FirstName + " " + u.LastName }},
	{"Role", func(u models.User) string { return u.Role }},
}

var userCmd = (&resourceCommand[models.User, models.CreateUserDto, models.UpdateUserDto]{
	use:     "user",
	aliases: []string{"users"},
	short:   "Manage back-office and customer accounts",
	resource: func(c *api.Client) *api.Resource[models.User, models.CreateUserDto, models.UpdateUserDto] {
		return c.Users.Resource
	},
	columns: userColumns,
	detail: append(userColumns,
		column[models.User]{"Created", func(u models.User) string { return formatTime(u.CreatedAt) }},
	),
	writeRoles: []string{models.UserRoleAdmin},
}).command()

func init() {
	rootCmd.AddCommand(patronCmd)
	rootCmd.AddCommand(userCmd)
}
