package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/spf13/cobra"
)

func payloadCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addPayloadFlags(cmd)
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set --%s: %v", name, err)
		}
	}
	return cmd
}

func TestReadPayload(t *testing.T) {
	dir := t.TempDir()
	yamlFile := filepath.Join(dir, "product.yaml")
	if err := os.WriteFile(yamlFile, []byte("Name: Dune\nAuthor: Frank Herbert\nSubGenre: 2\n"), 0o600); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	tests := []struct {
		name   string
		flags  map[string]string
		want   string
		failed bool
	}{
		{name: "data", flags: map[string]string{"data": `{"Name":"Emma","SubGenre":1}`}, want: "Emma"},
		{name: "yaml file", flags: map[string]string{"file": yamlFile}, want: "Dune"},
		{name: "missing", flags: map[string]string{}, failed: true},
		{name: "both", flags: map[string]string{"data": "{}", "file": yamlFile}, failed: true},
		{name: "bad json", flags: map[string]string{"data": "{"}, failed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dto, err := readPayload[models.CreateProductDto](payloadCommand(t, tt.flags))
			if tt.failed {
				if !errors.Is(err, customerrors.ErrInvalidParams) {
					t.Fatalf("expected invalid params, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dto.Name != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, dto.Name)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d (%v)", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(bad); !errors.Is(err, customerrors.ErrInvalidParams) {
			t.Fatalf("expected %q to be rejected, got %v", bad, err)
		}
	}
}

func TestCellTruncates(t *testing.T) {
	long := strings.Repeat("a", maxCellWidth+10)
	if got := cell(long); len([]rune(got)) != maxCellWidth || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected cell %q", got)
	}
	if got := cell("two\nlines"); got != "two lines" {
		t.Fatalf("expected whitespace to collapse, got %q", got)
	}
}

func TestMaskCardAndAddress(t *testing.T) {
	if got := maskCard("4111111111111111"); got != "************1111" {
		t.Fatalf("unexpected mask %q", got)
	}
	order := models.Order{StreetAddress: "1 Main St", State: "NSW", PostCode: 2000}
	if got := orderAddress(order); got != "1 Main St, NSW, 2000" {
		t.Fatalf("unexpected address %q", got)
	}
}

type fakeSource struct {
	loads   int
	pages   int
	deleted []int
}

func (f *fakeSource) Title() string { return "Product" }

func (f *fakeSource) Load(context.Context) error {
	f.loads++
	return nil
}

func (f *fakeSource) NextPage() bool {
	f.pages++
	return true
}

func (f *fakeSource) PrevPage() bool { return false }

func (f *fakeSource) Columns() []table.Column {
	return []table.Column{{Title: "ID", Width: 4}, {Title: "Name", Width: 10}}
}

func (f *fakeSource) Rows() []table.Row {
	return []table.Row{{"1", "Dune"}, {"2", "Emma"}}
}

func (f *fakeSource) Status() string { return "page 1/1" }

func (f *fakeSource) Delete(_ context.Context, row int) (string, error) {
	f.deleted = append(f.deleted, row)
	return "deleted", nil
}

func (f *fakeSource) Subscribe(func(query.Key)) func() { return func() {} }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModel(t *testing.T) {
	src := &fakeSource{}
	var m tea.Model = newBrowseModel(context.Background(), src)

	m, _ = m.Update(m.Init()())
	if rows := m.(browseModel).table.Rows(); len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	m, cmd := m.Update(key("n"))
	if src.pages != 1 || cmd == nil {
		t.Fatalf("expected next page to trigger a load")
	}
	m, _ = m.Update(cmd())
	if src.loads != 2 {
		t.Fatalf("expected 2 loads, got %d", src.loads)
	}

	m, _ = m.Update(key("d"))
	if !m.(browseModel).confirm {
		t.Fatal("expected delete confirmation")
	}
	m, cmd = m.Update(key("y"))
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	m, _ = m.Update(cmd())
	if len(src.deleted) != 1 || src.deleted[0] != 0 {
		t.Fatalf("expected row 0 deleted, got %v", src.deleted)
	}
	if m.(browseModel).status != "deleted" {
		t.Fatalf("unexpected status %q", m.(browseModel).status)
	}

	m, _ = m.Update(key("d"))
	m, cmd = m.Update(key("x"))
	if cmd != nil || len(src.deleted) != 1 {
		t.Fatal("any key other than y should cancel the delete")
	}

	if _, cmd = m.Update(invalidatedMsg{}); cmd == nil {
		t.Fatal("invalidation should reload")
	}
	if !strings.Contains(m.View(), "Product") {
		t.Fatal("view should carry the resource title")
	}
}
