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
	"context"
	"fmt"
	"strconv"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Manage the local shopping cart",
}

// loadedCart opens the session and reads the persisted cart in.
func loadedCart(ctx context.Context) (*session, error) {
	s := GetSession(ctx)
	if err := s.cart.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func printCart(ctx context.Context, s *session) error {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return err
	}
	if outputFormat != outputTable {
		return printStructured(items)
	}
	if len(items) == 0 {
		pterm.Info.Println("Cart is empty")
		return nil
	}

	tableData := pterm.TableData{{"ID", "Name", "Quantity"}}
	for _, item := range items {
		tableData = append(tableData, []string{formatInt(item.ID), cell(item.Name), strconv.Itoa(item.Quantity)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Total items: %d\n", lo.SumBy(items, func(item models.CartItem) int { return item.Quantity }))
	return nil
}

var cartAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, _ := cmd.Flags().GetInt("quantity")
		if quantity < 1 {
			return fmt.Errorf("quantity must be at least 1")
		}

		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		product, err := s.client.Products.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := s.cart.Add(cmd.Context(), product); err != nil {
			return err
		}
		if quantity > 1 {
			items, err := s.cart.Items(cmd.Context())
			if err != nil {
				return err
			}
			item, _ := lo.Find(items, func(item models.CartItem) bool { return item.ID == id })
			if err := s.cart.UpdateQuantity(cmd.Context(), id, item.Quantity+quantity-1); err != nil {
				return err
			}
		}
		total, err := s.cart.TotalItems(cmd.Context())
		if err != nil {
			return err
		}
		pterm.Success.Printf("Added %s, %d items in cart\n", product.Name, total)
		return nil
	},
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		return printCart(cmd.Context(), s)
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <product-id> <quantity>",
	Short: "Set the quantity of a cart item, 0 removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}

		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		if err := s.cart.UpdateQuantity(cmd.Context(), id, quantity); err != nil {
			return err
		}
		return printCart(cmd.Context(), s)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove an item from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		if err := s.cart.Remove(cmd.Context(), id); err != nil {
			return err
		}
		return printCart(cmd.Context(), s)
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		if err := s.cart.Clear(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Cart cleared")
		return nil
	},
}

var cartExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the cart as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		data, err := s.cart.Export(cmd.Context())
		if err != nil {
			return err
		}

		toClipboard, _ := cmd.Flags().GetBool("clipboard")
		if !toClipboard {
			fmt.Println(string(data))
			return nil
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("failed to copy cart: %w", err)
		}
		pterm.Success.Println("Cart copied to clipboard")
		return nil
	},
}

// checkoutDetails fills the TO payload from flags, prompting for whatever
// required field is still empty.
func checkoutDetails(cmd *cobra.Command) (*models.CreateTODto, bool, error) {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}
	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return lo.ToPtr(v)
	}

	email, cardNumber, cardOwner, expiry := str("email"), str("card-number"), str("card-owner"), str("expiry")
	street, suburb, state, postcode, phone := str("street"), str("suburb"), str("state"), str("postcode"), str("phone")
	cvv := str("cvv")

	if email == "" || cardNumber == "" || cardOwner == "" || expiry == "" || cvv == "" {
		if !isInteractive() {
			return nil, false, fmt.Errorf("--email, --card-number, --card-owner, --expiry and --cvv are required outside an interactive terminal")
		}
		ok, err := runForm(huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Email").Value(&email).Validate(required("email")),
				huh.NewInput().Title("Phone").Value(&phone),
				huh.NewInput().Title("Street address").Value(&street),
				huh.NewInput().Title("Suburb").Value(&suburb),
				huh.NewInput().Title("State").Value(&state),
				huh.NewInput().Title("Post code").Value(&postcode),
			).Title("Shipping"),
			huh.NewGroup(
				huh.NewInput().Title("Card number").Value(&cardNumber).Validate(required("card number")),
				huh.NewInput().Title("Name on card").Value(&cardOwner).Validate(required("card owner")),
				huh.NewInput().Title("Expiry (MM/YY)").Value(&expiry).Validate(required("expiry")),
				huh.NewInput().Title("CVV").EchoMode(huh.EchoModePassword).Value(&cvv).Validate(required("cvv")),
			).Title("Payment"),
		))
		if err != nil || !ok {
			return nil, false, err
		}
	}

	cvvNumber, err := strconv.Atoi(cvv)
	if err != nil {
		return nil, false, fmt.Errorf("invalid cvv")
	}
	return &models.CreateTODto{
		Email:         email,
		PhoneNumber:   optional(phone),
		StreetAddress: optional(street),
		PostCode:      optional(postcode),
		Suburb:        optional(suburb),
		State:         optional(state),
		CardNumber:    cardNumber,
		CardOwner:     cardOwner,
		Expiry:        expiry,
		CVV:           cvvNumber,
	}, true, nil
}

// patronFor links the order to the patron with the checkout email, if any.
func patronFor(ctx context.Context, s *session, email string) int64 {
	resp, err := s.client.Patrons.List(ctx, pagination.QueryParams{
		Where: fmt.Sprintf("(Email,eq,%s)", email),
		Limit: 1,
	})
	if err != nil || len(resp.List) == 0 {
		return 0
	}
	return resp.List[0].ID
}

var cartCheckoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for everything in the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadedCart(cmd.Context())
		if err != nil {
			return err
		}
		total, err := s.cart.TotalItems(cmd.Context())
		if err != nil {
			return err
		}
		if total == 0 {
			pterm.Warning.Println("Cart is empty")
			return nil
		}

		details, ok, err := checkoutDetails(cmd)
		if err != nil || !ok {
			return err
		}
		details.PatronId = patronFor(cmd.Context(), s, details.Email)

		order, err := s.cart.Checkout(cmd.Context(), details)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Order %d placed\n", order.OrderID)
		return printItem(order, orderColumns)
	},
}

func init() {
	rootCmd.AddCommand(cartCmd)

	cartCmd.AddCommand(cartAddCmd)
	cartAddCmd.Flags().IntP("quantity", "q", 1, "Number of units to add")

	cartCmd.AddCommand(cartListCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartClearCmd)

	cartCmd.AddCommand(cartExportCmd)
	cartExportCmd.Flags().Bool("clipboard", false, "Copy to the clipboard instead of printing")

	cartCmd.AddCommand(cartCheckoutCmd)
	for _, f := range []struct{ name, usage string }{
		{"email", "Contact email"},
		{"phone", "Contact phone number"},
		{"street", "Street address"},
		{"suburb", "Suburb"},
		{"state", "State"},
		{"postcode", "Post code"},
		{"card-number", "Card number"},
		{"card-owner", "Name on card"},
		{"expiry", "Card expiry, MM/YY"},
		{"cvv", "Card security code"},
	} {
		cartCheckoutCmd.Flags().String(f.name, "", f.usage)
	}
}
