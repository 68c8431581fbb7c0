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

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/utils"
)

// AppConfig is the config definition for this app
type AppConfig struct {
	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`

	// API is the backend the client talks to
	API *APIConfig `mapstructure:"api"`

	// Query controls the shared request cache
	Query *QueryConfig `mapstructure:"query"`

	// Pagination defaults for list commands
	Pagination *PaginationConfig `mapstructure:"pagination"`

	// Storage is where session and cart state is persisted
	Storage *StorageConfig `mapstructure:"storage"`

	// Server configures the development backend started by `storefront serve`
	Server *ServerConfig `mapstructure:"server"`
}

// APIConfig is the config definition for the REST backend
type APIConfig struct {
	// BaseURL is prefixed to every relative request path
	BaseURL string `mapstructure:"baseUrl"`

	// Schema is the <schema> segment of /api/<schema>/<Resource>
	Schema string `mapstructure:"schema"`

	// Timeout applied to requests whose context carries no cancellation
	Timeout time.Duration `mapstructure:"timeout"`

	// Username for optional HTTP Basic Auth
	Username string `mapstructure:"username"`

	// Password for optional HTTP Basic Auth
	Password string `mapstructure:"password"`
}

// QueryConfig is the config definition for the request cache
type QueryConfig struct {
	// StaleTime is how long a fetched entry is served without refetching
	StaleTime time.Duration `mapstructure:"staleTime"`

	// Retries is the number of extra attempts for failed reads
	Retries int `mapstructure:"retries"`

	// RetryDelay is the wait between read attempts
	RetryDelay time.Duration `mapstructure:"retryDelay"`
}

type PaginationConfig struct {
	PageSize int `mapstructure:"pageSize"`
}

type StorageConfig struct {
	// Dir holds the local store database and its lock file
	Dir string `mapstructure:"dir"`
}

// ServerConfig is the config definition for the development backend
type ServerConfig struct {
	Port   int    `mapstructure:"port"`
	Schema string `mapstructure:"schema"`

	// RequireAuth rejects writes without a session cookie
	RequireAuth bool `mapstructure:"requireAuth"`

	// Username and Password turn on HTTP Basic Auth for every request
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// SessionTTL is how long a login session stays valid
	SessionTTL time.Duration `mapstructure:"sessionTtl"`

	Seed bool            `mapstructure:"seed"`
	DB   *DatabaseConfig `mapstructure:"db"`
}

// DatabaseConfig is the config definition for the development backend database
type DatabaseConfig struct {
	// Driver is either sqlite or postgres
	Driver string `mapstructure:"driver"`

	// Path of the sqlite database file, ":memory:" for an ephemeral one
	Path string `mapstructure:"path"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

func (c *APIConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if strings.HasPrefix(c.BaseURL, "http://") || strings.HasPrefix(c.BaseURL, "https://") {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("invalid api base url '%s': %w", c.BaseURL, err)
		}
	}
	if c.Schema == "" {
		c.Schema = consts.DefaultSchema
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid api timeout: %s", c.Timeout)
	}
	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("api username and password must be set together")
	}
	return nil
}

func (c *QueryConfig) Validate() error {
	if c.StaleTime < 0 {
		c.StaleTime = 0
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	return nil
}

func (c *PaginationConfig) Validate() error {
	if c.PageSize <= 0 {
		c.PageSize = consts.DefaultPageSize
	}
	if c.PageSize > 1000 {
		return fmt.Errorf("page size too large: %d", c.PageSize)
	}
	return nil
}

func (c *StorageConfig) Validate() error {
	cleaned, err := utils.GetCleanPath(c.Dir)
	if err != nil {
		return fmt.Errorf("invalid storage dir '%s': %w", c.Dir, err)
	}
	c.Dir = cleaned
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "", "sqlite":
		c.Driver = "sqlite"
		if c.Path == "" {
			c.Path = "storefront-dev.db"
		}
	case "postgres":
		if c.Host == "" {
			c.Host = "127.0.0.1"
		}
		if c.Port <= 0 || c.Port > 65535 {
			c.Port = 5432
		}
		if c.Username == "" {
			c.Username = "postgres"
		}
		if c.Password == "" {
			return fmt.Errorf("database password is required")
		}
		if c.Database == "" {
			c.Database = "storefront"
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}
	if c.Schema == "" {
		c.Schema = consts.DefaultSchema
	}
	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("server username and password must be set together")
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.DB == nil {
		c.DB = &DatabaseConfig{}
	}
	return c.DB.Validate()
}

func (c *AppConfig) Validate() error {
	if c.API == nil {
		return fmt.Errorf("api config is required")
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("invalid api config: %w", err)
	}

	if c.Query == nil {
		c.Query = &QueryConfig{}
	}
	if err := c.Query.Validate(); err != nil {
		return fmt.Errorf("invalid query config: %w", err)
	}

	if c.Pagination == nil {
		c.Pagination = &PaginationConfig{}
	}
	if err := c.Pagination.Validate(); err != nil {
		return fmt.Errorf("invalid pagination config: %w", err)
	}

	if c.Storage == nil {
		return fmt.Errorf("storage config is required")
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("invalid storage config: %w", err)
	}

	if c.Server == nil {
		c.Server = &ServerConfig{Port: 8080}
	}
	return c.Server.Validate()
}
