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
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/spf13/viper"
)

type ConfigManager struct {
	mu     sync.RWMutex
	cfg    *AppConfig
	vipers *viper.Viper
}

func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		cfg:    &AppConfig{},
		vipers: viper.New(),
	}
}

func (cm *ConfigManager) GetConfig() *AppConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.cfg
}

func (cm *ConfigManager) Validate() error {
	return cm.cfg.Validate()
}

func (cm *ConfigManager) BindEnvVariables() {
	cm.vipers.SetEnvPrefix("STOREFRONT")
	cm.vipers.AutomaticEnv()
	cm.vipers.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envs := map[string]string{
		"debug":              "STOREFRONT_DEBUG",
		"api.baseUrl":        "STOREFRONT_API_BASE_URL",
		"api.schema":         "STOREFRONT_API_SCHEMA",
		"api.timeout":        "STOREFRONT_API_TIMEOUT",
		"api.username":       "STOREFRONT_API_USERNAME",
		"api.password":       "STOREFRONT_API_PASSWORD",
		"storage.dir":        "STOREFRONT_STORAGE_DIR",
		"server.port":        "STOREFRONT_SERVER_PORT",
		"server.username":    "STOREFRONT_SERVER_USERNAME",
		"server.password":    "STOREFRONT_SERVER_PASSWORD",
		"server.db.driver":   "STOREFRONT_SERVER_DB_DRIVER",
		"server.db.path":     "STOREFRONT_SERVER_DB_PATH",
		"server.db.host":     "STOREFRONT_SERVER_DB_HOST",
		"server.db.port":     "STOREFRONT_SERVER_DB_PORT",
		"server.db.username": "STOREFRONT_SERVER_DB_USERNAME",
		"server.db.password": "STOREFRONT_SERVER_DB_PASSWORD",
		"server.db.database": "STOREFRONT_SERVER_DB_DATABASE",
	}

	for key, env := range envs {
		cm.vipers.BindEnv(key, env)
	}
}

func (cm *ConfigManager) SetDefaults() {
	cm.vipers.SetDefault("debug", false)
	cm.vipers.SetDefault("api.baseUrl", "http://localhost:8080")
	cm.vipers.SetDefault("api.schema", consts.DefaultSchema)
	cm.vipers.SetDefault("api.timeout", "10s")
	cm.vipers.SetDefault("query.staleTime", "30s")
	cm.vipers.SetDefault("query.retries", 3)
	cm.vipers.SetDefault("query.retryDelay", "1s")
	cm.vipers.SetDefault("pagination.pageSize", consts.DefaultPageSize)
	cm.vipers.SetDefault("storage.dir", "$HOME/.storefront")
	cm.vipers.SetDefault("server.port", 8080)
	cm.vipers.SetDefault("server.schema", consts.DefaultSchema)
	cm.vipers.SetDefault("server.seed", true)
	cm.vipers.SetDefault("server.sessionTtl", "24h")
	cm.vipers.SetDefault("server.db.driver", "sqlite")
	cm.vipers.SetDefault("server.db.path", "storefront-dev.db")
}

// LoadConfig reads storefront.yaml from the default search paths. Entries in
// configPaths that name a file are used as the config file directly, the rest
// are added as extra search directories.
func (cm *ConfigManager) LoadConfig(configPaths ...string) error {
	cm.SetDefaults()

	cm.vipers.SetConfigName("storefront")
	cm.vipers.SetConfigType("yaml")

	defaultPaths := []string{
		".",
		"./config",
		"./configs",
		"/etc/storefront",
		"$HOME/.storefront",
	}

	var searchPaths []string
	for _, p := range configPaths {
		if p == "" {
			continue
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml", ".json", ".toml":
			cm.vipers.SetConfigFile(p)
		default:
			searchPaths = append(searchPaths, p)
		}
	}

	for _, path := range append(searchPaths, defaultPaths...) {
		cm.vipers.AddConfigPath(path)
	}

	if err := cm.vipers.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("no config file found, using defaults")
		} else {
			return fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		slog.Debug("using config file", "path", cm.vipers.ConfigFileUsed())
	}

	if err := cm.mergeAdditionalConfigs(); err != nil {
		return err
	}

	if err := cm.vipers.Unmarshal(cm.cfg); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return nil
}

func (cm *ConfigManager) mergeAdditionalConfigs() error {
	configFile := cm.vipers.ConfigFileUsed()
	if configFile == "" {
		return nil
	}

	dir := filepath.Dir(configFile)

	fragments, err := cm.discoverFragments(configFile)
	if err != nil {
		return err
	}

	includeFragments, err := cm.resolveIncludes(dir)
	if err != nil {
		return err
	}

	seen := map[string]struct{}{}
	ordered := make([]string, 0, len(fragments)+len(includeFragments))

	appendUnique := func(paths []string) {
		for _, p := range paths {
			clean := filepath.Clean(p)
			if clean == filepath.Clean(configFile) {
				continue
			}
			if _, ok := seen[clean]; ok {
				continue
			}
			seen[clean] = struct{}{}
			ordered = append(ordered, clean)
		}
	}

	appendUnique(fragments)
	appendUnique(includeFragments)

	for _, fragment := range ordered {
		if err := cm.mergeConfigFile(fragment); err != nil {
			return err
		}
		slog.Debug("merged config fragment", "path", fragment)
	}

	return nil
}

func (cm *ConfigManager) discoverFragments(configFile string) ([]string, error) {
	dir := filepath.Dir(configFile)
	base := strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))

	patterns := []string{
		filepath.Join(dir, fmt.Sprintf("%s.*.yaml", base)),
		filepath.Join(dir, fmt.Sprintf("%s.*.yml", base)),
	}

	var matches []string
	for _, pattern := range patterns {
		globbed, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q failed: %w", pattern, err)
		}
		if len(globbed) == 0 {
			continue
		}
		sort.Strings(globbed)
		matches = append(matches, globbed...)
	}

	return matches, nil
}

func (cm *ConfigManager) resolveIncludes(baseDir string) ([]string, error) {
	includes := cm.vipers.GetStringSlice("include")
	if len(includes) == 0 {
		return nil, nil
	}

	resolved := make([]string, 0, len(includes))
	for _, inc := range includes {
		if strings.TrimSpace(inc) == "" {
			continue
		}

		candidate := inc
		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(baseDir, candidate)
		}

		info, err := os.Stat(candidate)
		if err != nil {
			return nil, fmt.Errorf("include file %q not accessible: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("include path %q is a directory", candidate)
		}

		resolved = append(resolved, candidate)
	}

	return resolved, nil
}

func (cm *ConfigManager) mergeConfigFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config fragment %q: %w", path, err)
	}

	fragment := viper.New()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		fragment.SetConfigType("yaml")
	case ".json":
		fragment.SetConfigType("json")
	case ".toml":
		fragment.SetConfigType("toml")
	default:
		return fmt.Errorf("unsupported config fragment type %q for file %s", ext, path)
	}

	if err := fragment.ReadConfig(bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to parse config fragment %q: %w", path, err)
	}

	if err := cm.vipers.MergeConfigMap(fragment.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge config fragment %q: %w", path, err)
	}

	return nil
}

// Watch reloads the config whenever the config file changes and hands the
// re-validated result to onChange. Invalid edits are logged and skipped.
func (cm *ConfigManager) Watch(onChange func(*AppConfig)) {
	if cm.vipers.ConfigFileUsed() == "" {
		return
	}

	cm.vipers.OnConfigChange(func(e fsnotify.Event) {
		next := &AppConfig{}
		if err := cm.vipers.Unmarshal(next); err != nil {
			slog.Warn("failed to decode changed config", "path", e.Name, "error", err)
			return
		}
		if err := next.Validate(); err != nil {
			slog.Warn("ignoring invalid config change", "path", e.Name, "error", err)
			return
		}
		cm.mu.Lock()
		cm.cfg = next
		cm.mu.Unlock()
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
		if onChange != nil {
			onChange(next)
		}
	})
	cm.vipers.WatchConfig()
}

var (
	globalConfigManager *ConfigManager
	once                sync.Once
)

func Init(files ...string) error {
	var err error
	once.Do(func() {
		globalConfigManager = NewConfigManager()
		globalConfigManager.BindEnvVariables()

		if err = globalConfigManager.LoadConfig(files...); err != nil {
			return
		}

		err = globalConfigManager.Validate()
	})
	return err
}

func GetConfigManager() *ConfigManager {
	return globalConfigManager
}
