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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/conn"
	"github.com/masteryyh/storefront/pkg/routes"
	"github.com/masteryyh/storefront/pkg/services"
	"github.com/masteryyh/storefront/pkg/utils/safe"
	"github.com/masteryyh/storefront/pkg/utils/signal"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the development backend",
	Long:  `Serve the storefront REST API over a local sqlite (or postgres) database seeded with demo data`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig().Server
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Port = port
		}
		if !appConfig().Debug && !debug {
			logLevel.Set(slog.LevelInfo)
			gin.SetMode(gin.ReleaseMode)
		}

		baseCtx, cancel := signal.SetupContext()
		defer cancel()

		slog.InfoContext(baseCtx, "initializing database connection...", "driver", cfg.DB.Driver)
		if err := conn.InitDB(baseCtx, cfg.DB); err != nil {
			return fmt.Errorf("failed to initialize database connection: %w", err)
		}
		db := conn.GetDB()
		if cfg.Seed {
			if err := conn.Seed(baseCtx, db); err != nil {
				return fmt.Errorf("failed to seed database: %w", err)
			}
		}

		engine, err := routes.NewRouter(cfg, services.New(db, cfg.SessionTTL))
		if err != nil {
			return err
		}

		config.GetConfigManager().Watch(func(next *config.AppConfig) {
			if next.Debug {
				logLevel.Set(slog.LevelDebug)
			} else {
				logLevel.Set(slog.LevelInfo)
			}
			slog.Info("config changed, server settings apply on restart")
		})

		srv := &http.Server{
			Addr:    ":" + strconv.Itoa(cfg.Port),
			Handler: engine,
		}
		serveErr := make(chan error, 1)
		safe.GoSafeWithCtx("http-server", baseCtx, func(ctx context.Context) {
			slog.InfoContext(ctx, "starting http server", "port", cfg.Port, "schema", cfg.Schema)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		})

		select {
		case err := <-serveErr:
			return fmt.Errorf("http server stopped: %w", err)
		case <-baseCtx.Done():
		}

		slog.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Listen port (default server.port)")
}
