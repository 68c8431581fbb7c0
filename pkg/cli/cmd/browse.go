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
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// browseSource is one paged resource as the browser sees it.
type browseSource interface {
	Title() string
	Load(ctx context.Context) error
	NextPage() bool
	PrevPage() bool
	Columns() []table.Column
	Rows() []table.Row
	Status() string
	Delete(ctx context.Context, row int) (string, error)
	Subscribe(fn func(query.Key)) func()
}

type resourceSource[T, C, U any] struct {
	resource *api.Resource[T, C, U]
	pager    *pagination.Pager[T]
	columns  []column[T]
	id       func(T) int64
}

func newResourceSource[T, C, U any](resource *api.Resource[T, C, U], params pagination.QueryParams, columns []column[T], id func(T) int64) *resourceSource[T, C, U] {
	return &resourceSource[T, C, U]{
		resource: resource,
		pager:    resource.Pager(params),
		columns:  columns,
		id:       id,
	}
}

func (s *resourceSource[T, C, U]) Title() string {
	return s.resource.Name()
}

func (s *resourceSource[T, C, U]) Load(ctx context.Context) error {
	return s.pager.Load(ctx)
}

func (s *resourceSource[T, C, U]) NextPage() bool {
	return s.pager.NextPage()
}

func (s *resourceSource[T, C, U]) PrevPage() bool {
	return s.pager.PrevPage()
}

// Columns sizes each column to its widest cell on the current page.
func (s *resourceSource[T, C, U]) Columns() []table.Column {
	data := s.pager.Data()
	return lo.Map(s.columns, func(c column[T], _ int) table.Column {
		width := lipgloss.Width(c.title)
		for _, item := range data {
			width = max(width, lipgloss.Width(cell(c.value(item))))
		}
		return table.Column{Title: c.title, Width: width}
	})
}

func (s *resourceSource[T, C, U]) Rows() []table.Row {
	return lo.Map(s.pager.Data(), func(item T, _ int) table.Row {
		return lo.Map(s.columns, func(c column[T], _ int) string {
			return cell(c.value(item))
		})
	})
}

func (s *resourceSource[T, C, U]) Status() string {
	info := s.pager.PageInfo()
	if info == nil {
		return "loading..."
	}
	return fmt.Sprintf("page %d/%d, %d rows", info.Page, pagination.TotalPages(info.TotalRows, info.PageSize), info.TotalRows)
}

func (s *resourceSource[T, C, U]) Delete(ctx context.Context, row int) (string, error) {
	data := s.pager.Data()
	if row < 0 || row >= len(data) {
		return "", fmt.Errorf("nothing selected")
	}
	id := s.id(data[row])
	if err := s.resource.Delete(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("deleted %s %d", s.resource.Name(), id), nil
}

func (s *resourceSource[T, C, U]) Subscribe(fn func(query.Key)) func() {
	return s.resource.Subscribe(fn)
}

type loadedMsg struct{ err error }

type deletedMsg struct {
	status string
	err    error
}

type invalidatedMsg struct{}

var (
	browseTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	browseStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	browseErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	browseTableStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
)

type browseModel struct {
	ctx     context.Context
	src     browseSource
	table   table.Model
	status  string
	err     error
	confirm bool
}

func newBrowseModel(ctx context.Context, src browseSource) browseModel {
	return browseModel{
		ctx:   ctx,
		src:   src,
		table: table.New(table.WithFocused(true), table.WithHeight(15)),
	}
}

func (m browseModel) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: m.src.Load(m.ctx)}
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.load()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.table.SetColumns(m.src.Columns())
			m.table.SetRows(m.src.Rows())
			if m.table.Cursor() < 0 {
				m.table.SetCursor(0)
			}
		}
		return m, nil

	case invalidatedMsg:
		return m, m.load()

	case deletedMsg:
		m.err = msg.err
		m.status = msg.status
		return m, nil

	case tea.KeyMsg:
		if m.confirm {
			m.confirm = false
			if msg.String() != "y" {
				m.status = "delete cancelled"
				return m, nil
			}
			row := m.table.Cursor()
			return m, func() tea.Msg {
				status, err := m.src.Delete(m.ctx, row)
				return deletedMsg{status: status, err: err}
			}
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "n", "right":
			if m.src.NextPage() {
				return m, m.load()
			}
			return m, nil
		case "p", "left":
			if m.src.PrevPage() {
				return m, m.load()
			}
			return m, nil
		case "r":
			return m, m.load()
		case "d":
			if len(m.table.Rows()) > 0 {
				m.confirm = true
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(browseTitleStyle.Render(m.src.Title()))
	b.WriteString(" ")
	b.WriteString(browseStatusStyle.Render(m.src.Status()))
	b.WriteString("\n")
	b.WriteString(browseTableStyle.Render(m.table.View()))
	b.WriteString("\n")

	switch {
	case m.confirm:
		b.WriteString(browseErrorStyle.Render("delete the selected row? y to confirm"))
	case m.err != nil:
		b.WriteString(browseErrorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(browseStatusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(browseStatusStyle.Render("n/p page • r refresh • d delete • q quit"))
	return b.String()
}

func browseSourceFor(c *api.Client, name string, params pagination.QueryParams) (browseSource, error) {
	switch strings.ToLower(name) {
	case "product", "products":
		return newResourceSource(c.Products, params, productColumns, func(p models.Product) int64 { return p.ID }), nil
	case "patron", "patrons":
		return newResourceSource(c.Patrons, params, patronColumns, func(p models.Patron) int64 { return p.ID }), nil
	case "user", "users":
		return newResourceSource(c.Users.Resource, params, userColumns, func(u models.User) int64 { return u.ID }), nil
	case "order", "orders":
		return newResourceSource(c.Orders, params, orderColumns, func(o models.Order) int64 { return o.OrderID }), nil
	case "stocktake":
		return newResourceSource(c.Stocktake, params, stocktakeColumns, func(s models.Stocktake) int64 { return s.ItemId }), nil
	case "to":
		return newResourceSource(c.TO, params, toColumns, func(t models.TO) int64 { return t.CustomerID }), nil
	default:
		return nil, fmt.Errorf("%w: cannot browse %q", customerrors.ErrUnknownResource, name)
	}
}

var browseCmd = &cobra.Command{
	Use:       "browse <resource>",
	Short:     "Page through a resource interactively",
	Long:      `Open a terminal table over products, patrons, users, orders, stocktake or to. n/p change page, d deletes the selected row.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"products", "patrons", "users", "orders", "stocktake", "to"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return fmt.Errorf("must be run in an interactive terminal")
		}

		s := GetSession(cmd.Context())
		params, err := listParams(cmd)
		if err != nil {
			return err
		}
		src, err := browseSourceFor(s.client, args[0], params)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		program := tea.NewProgram(newBrowseModel(ctx, src), tea.WithAltScreen(), tea.WithContext(ctx))

		unsubscribe := src.Subscribe(func(query.Key) {
			go program.Send(invalidatedMsg{})
		})
		defer unsubscribe()

		_, err = program.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	addListFlags(browseCmd)
}
