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
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"
)

// resourceCommand describes the subcommands of one backend collection.
// Create and update payloads come from --data or --file.
type resourceCommand[T, C, U any] struct {
	use     string
	aliases []string
	short   string

	resource func(*api.Client) *api.Resource[T, C, U]
	columns  []column[T]
	detail   []column[T]

	// afterGet prints extra output below the detail table.
	afterGet func(*T)

	noCreate   bool
	noUpdate   bool
	writeRoles []string
}

func (r *resourceCommand[T, C, U]) command() *cobra.Command {
	parent := &cobra.Command{
		Use:     r.use,
		Aliases: r.aliases,
		Short:   r.short,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.use + " records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := listParams(cmd)
			if err != nil {
				return err
			}
			resp, err := r.resource(GetClient(cmd.Context())).List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printList(resp, r.columns)
		},
	}
	addListFlags(listCmd)
	parent.AddCommand(listCmd)

	parent.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + r.use + " record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := r.resource(GetClient(cmd.Context())).Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := printItem(item, r.detail); err != nil {
				return err
			}
			if r.afterGet != nil && outputFormat == outputTable {
				r.afterGet(item)
			}
			return nil
		},
	})

	if !r.noCreate {
		createCmd := &cobra.Command{
			Use:   "create",
			Short: "Create a " + r.use + " record",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := GetSession(cmd.Context())
				if err := s.auth.Require(r.writeRoles...); err != nil {
					return err
				}
				dto, err := readPayload[C](cmd)
				if err != nil {
					return err
				}
				item, err := r.resource(s.client).Create(cmd.Context(), dto)
				if err != nil {
					return err
				}
				pterm.Success.Println("Created")
				return printItem(item, r.detail)
			},
		}
		addPayloadFlags(createCmd)
		parent.AddCommand(createCmd)
	}

	if !r.noUpdate {
		updateCmd := &cobra.Command{
			Use:   "update <id>",
			Short: "Update a " + r.use + " record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s := GetSession(cmd.Context())
				if err := s.auth.Require(r.writeRoles...); err != nil {
					return err
				}
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				dto, err := readPayload[U](cmd)
				if err != nil {
					return err
				}
				item, err := r.resource(s.client).Update(cmd.Context(), id, dto)
				if err != nil {
					return err
				}
				pterm.Success.Println("Updated")
				return printItem(item, r.detail)
			},
		}
		addPayloadFlags(updateCmd)
		parent.AddCommand(updateCmd)
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + r.use + " record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := GetSession(cmd.Context())
			if err := s.auth.Require(r.writeRoles...); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes && term.IsTerminal(int(os.Stdin.Fd())) {
				confirm, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete %s %d?", r.use, id))
				if err != nil {
					return err
				}
				if !confirm {
					pterm.Info.Println("Cancelled")
					return nil
				}
			}

			if err := r.resource(s.client).Delete(cmd.Context(), id); err != nil {
				return err
			}
			pterm.Success.Printf("Deleted %s %d\n", r.use, id)
			return nil
		},
	}
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	parent.AddCommand(deleteCmd)

	return parent
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("limit", 0, "Page size (default pagination.pageSize)")
	cmd.Flags().Int("offset", 0, "Row offset")
	cmd.Flags().Int("page", 0, "Page number, overrides --offset")
	cmd.Flags().String("where", "", "Filter, e.g. (Name,like,%dune%)~or(SubGenre,eq,2)")
	cmd.Flags().String("sort", "", "Sort columns, prefix with - for descending")
	cmd.Flags().String("fields", "", "Comma separated columns to return")
}

func listParams(cmd *cobra.Command) (pagination.QueryParams, error) {
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	page, _ := cmd.Flags().GetInt("page")
	where, _ := cmd.Flags().GetString("where")
	sort, _ := cmd.Flags().GetString("sort")
	fields, _ := cmd.Flags().GetString("fields")

	if limit < 0 || offset < 0 || page < 0 {
		return pagination.QueryParams{}, fmt.Errorf("%w: limit, offset and page must not be negative", customerrors.ErrInvalidParams)
	}
	if limit == 0 {
		limit = appConfig().Pagination.PageSize
	}
	if page > 0 {
		offset = pagination.Offset(page, limit)
	}
	return pagination.QueryParams{
		Limit:  limit,
		Offset: offset,
		Where:  where,
		Sort:   sort,
		Fields: fields,
	}, nil
}

func addPayloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "JSON payload")
	cmd.Flags().StringP("file", "f", "", "JSON or YAML file with the payload")
}

// readPayload decodes --data or --file into a request body. YAML files are
// converted to JSON first so the wire field names apply to both.
func readPayload[T any](cmd *cobra.Command) (*T, error) {
	data, _ := cmd.Flags().GetString("data")
	file, _ := cmd.Flags().GetString("file")

	var raw []byte
	switch {
	case data != "" && file != "":
		return nil, fmt.Errorf("%w: use either --data or --file", customerrors.ErrInvalidParams)
	case data != "":
		raw = []byte(data)
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		raw = content
		switch strings.ToLower(filepath.Ext(file)) {
		case ".yaml", ".yml":
			var doc any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				return nil, fmt.Errorf("failed to parse payload file: %w", err)
			}
			if raw, err = json.Marshal(doc); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: a payload is required, pass --data or --file", customerrors.ErrInvalidParams)
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, customerrors.InvalidParams(err)
	}
	return out, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", customerrors.ErrInvalidParams, s)
	}
	return id, nil
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
