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
	"log/slog"
	"net/http/cookiejar"
	"os"

	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/auth"
	"github.com/masteryyh/storefront/pkg/cart"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/conn"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/request"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	debug        bool
	outputFormat string

	logLevel = new(slog.LevelVar)
)

// session is everything a client command needs, built once per process.
type session struct {
	cfg    *config.AppConfig
	client *api.Client
	store  *conn.LocalStore
	auth   *auth.Service
	cart   *cart.Service
}

var current *session

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront and back-office client",
	Long:          `Browse the catalogue, manage patrons, users and orders, and check out a cart against a storefront backend`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
		if debug {
			logLevel.Set(slog.LevelDebug)
		} else {
			logLevel.Set(slog.LevelWarn)
		}

		if err := config.Init(cfgFile); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if appConfig().Debug {
			logLevel.Set(slog.LevelDebug)
		}

		switch outputFormat {
		case outputTable, outputJSON, outputYAML:
		default:
			return fmt.Errorf("unsupported output format %q", outputFormat)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil {
			return nil
		}
		err := current.store.Close()
		current = nil
		return err
	},
}

// openSession wires the transport, cache, local store and the session and
// cart services from the loaded config.
func openSession(ctx context.Context) (*session, error) {
	if current != nil {
		return current, nil
	}

	cfg := appConfig()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	transport := request.NewClient(cfg.API, request.WithCookieJar(jar))
	cache := query.NewCache(query.OptionsFromConfig(cfg.Query))
	client := api.NewClient(transport, cache, cfg.API.Schema)

	store, err := conn.OpenLocalStore(ctx, cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		client: client,
		store:  store,
		auth:   auth.NewService(client, store),
		cart:   cart.NewService(client, store),
	}
	if err := s.auth.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}
	current = s
	return s, nil
}

// GetSession exits the process when the session cannot be opened.
func GetSession(ctx context.Context) *session {
	s, err := openSession(ctx)
	if err != nil {
		pterm.Error.Printf("Failed to open session: %v\n", err)
		os.Exit(1)
	}
	return s
}

func appConfig() *config.AppConfig {
	return config.GetConfigManager().GetConfig()
}

func GetClient(ctx context.Context) *api.Client {
	return GetSession(ctx).client
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ./storefront.yaml and $HOME/.storefront)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputTable, "output format: table, json or yaml")
}
