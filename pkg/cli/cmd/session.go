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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func readHiddenInput(prompt string) (string, error) {
	pterm.DefaultInteractiveTextInput.TextStyle.Print(prompt + ": ")
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(key)), nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

// runForm treats an aborted form as a cancelled command.
func runForm(form *huh.Form) (bool, error) {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			pterm.Info.Println("Cancelled")
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long:  `Sign in as back-office staff, or as a customer with --customer. Missing credentials are prompted for.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := GetSession(cmd.Context())
		customer, _ := cmd.Flags().GetBool("customer")
		dto := &models.LoginDto{}
		dto.Username, _ = cmd.Flags().GetString("username")
		dto.Password, _ = cmd.Flags().GetString("password")

		userTitle := "Username"
		if customer {
			userTitle = "Username or email"
		}

		switch {
		case dto.Username != "" && dto.Password != "":
		case !isInteractive():
			return fmt.Errorf("--username and --password are required outside an interactive terminal")
		case dto.Username != "":
			password, err := readHiddenInput("Password")
			if err != nil {
				return err
			}
			dto.Password = password
		default:
			ok, err := runForm(huh.NewForm(huh.NewGroup(
				huh.NewInput().Title(userTitle).Value(&dto.Username).Validate(required(strings.ToLower(userTitle))),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&dto.Password).Validate(required("password")),
			)))
			if err != nil || !ok {
				return err
			}
		}
		dto.Username = strings.TrimSpace(dto.Username)

		login := s.auth.AdminLogin
		if customer {
			login = s.auth.CustomerLogin
		}
		session, err := login(cmd.Context(), dto)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Logged in as %s (%s)\n", session.User.Username, session.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the local session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := GetSession(cmd.Context()).auth.Logout(cmd.Context()); err != nil {
			pterm.Warning.Println("Local session cleared")
			return err
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := GetSession(cmd.Context()).auth.Session()
		if outputFormat != outputTable {
			return printStructured(session)
		}
		if !session.IsAuthenticated || session.User == nil {
			pterm.Warning.Println("Not logged in")
			return nil
		}
		return pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"Field", "Value"},
			{"ID", formatInt(session.User.ID)},
			{"Username", session.User.Username},
			{"Email", session.User.Email},
			{"Role", session.Role},
		}).Render()
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a customer account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetClient(cmd.Context())
		dto := &models.SignUpDto{}
		dto.Username, _ = cmd.Flags().GetString("username")
		dto.Email, _ = cmd.Flags().GetString("email")
		dto.Name, _ = cmd.Flags().GetString("name")
		dto.Password, _ = cmd.Flags().GetString("password")

		if dto.Username == "" || dto.Email == "" || dto.Name == "" || dto.Password == "" {
			if !isInteractive() {
				return fmt.Errorf("--username, --email, --name and --password are required outside an interactive terminal")
			}
			ok, err := runForm(huh.NewForm(huh.NewGroup(
				huh.NewInput().Title("Username").Value(&dto.Username).Validate(required("username")),
				huh.NewInput().Title("Email").Value(&dto.Email).Validate(required("email")),
				huh.NewInput().Title("Full name").Value(&dto.Name).Validate(required("name")),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&dto.Password).Validate(required("password")),
			)))
			if err != nil || !ok {
				return err
			}
		}

		user, err := c.Users.SignUp(cmd.Context(), dto)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Account created: %s, sign in with `storefront login --customer`\n", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("username", "u", "", "Username, or email for customers")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	loginCmd.Flags().Bool("customer", false, "Sign in as a customer")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().String("username", "", "Username")
	signupCmd.Flags().String("email", "", "Email")
	signupCmd.Flags().String("name", "", "Full name")
	signupCmd.Flags().String("password", "", "Password")
}
