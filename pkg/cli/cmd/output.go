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
	"strings"
	"sync"

	json "github.com/bytedance/sonic"
	"github.com/charmbracelet/glamour"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/muesli/reflow/truncate"
	"github.com/pterm/pterm"
	"github.com/samber/lo"
	"go.yaml.in/yaml/v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"

	maxCellWidth = 40
)

// column renders one table cell of T.
type column[T any] struct {
	title string
	value func(T) string
}

func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncate.StringWithTail(s, maxCellWidth, "…")
}

func printList[T any](resp *pagination.ListResponse[T], columns []column[T]) error {
	if outputFormat != outputTable {
		return printStructured(resp)
	}

	if len(resp.List) == 0 {
		pterm.Warning.Println("Nothing found")
		return nil
	}

	tableData := pterm.TableData{
		lo.Map(columns, func(c column[T], _ int) string { return c.title }),
	}
	for _, item := range resp.List {
		tableData = append(tableData, lo.Map(columns, func(c column[T], _ int) string {
			return cell(c.value(item))
		}))
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	info := resp.PageInfo
	pterm.Info.Printf("Total: %d, Page: %d/%d\n", info.TotalRows, info.Page, pagination.TotalPages(info.TotalRows, info.PageSize))
	return nil
}

func printItem[T any](item *T, columns []column[T]) error {
	if outputFormat != outputTable {
		return printStructured(item)
	}

	tableData := pterm.TableData{{"Field", "Value"}}
	for _, c := range columns {
		tableData = append(tableData, []string{c.title, c.value(*item)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// printStructured writes v as JSON or YAML. YAML goes through the JSON form
// so both outputs carry the wire field names.
func printStructured(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if outputFormat == outputJSON {
		_, err = fmt.Fprintln(os.Stdout, string(data))
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

func renderMarkdown(text string) string {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			markdownRenderer = r
		}
	})

	if markdownRenderer == nil {
		return text
	}

	rendered, err := markdownRenderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(rendered)
}
