package cart

import (
	"context"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/api"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/request"
	"github.com/masteryyh/storefront/pkg/routes"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
	"github.com/samber/lo"
)

type memoryStore map[string][]byte

func (m memoryStore) Get(_ context.Context, key string, out any) (bool, error) {
	data, ok := m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func (m memoryStore) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m[key] = data
	return nil
}

var (
	dune = &models.Product{ID: 1, Name: "Dune", Description: "Desert planet"}
	emma = &models.Product{ID: 2, Name: "Emma", Description: "Matchmaking"}
)

func TestAddBumpsQuantity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, memoryStore{})

	for _, p := range []*models.Product{dune, emma, dune} {
		if err := svc.Add(ctx, p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	items, _ := svc.Items(ctx)
	if len(items) != 2 || items[0].Quantity != 2 || items[1].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if total, _ := svc.TotalItems(ctx); total != 3 {
		t.Fatalf("expected 3 items, got %d", total)
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, memoryStore{})
	_ = svc.Add(ctx, dune)
	_ = svc.Add(ctx, emma)

	if err := svc.UpdateQuantity(ctx, dune.ID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, emma.ID, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.UpdateQuantity(ctx, 42, 1); !errors.Is(err, customerrors.ErrCartItemNotFound) {
		t.Fatalf("expected ErrCartItemNotFound, got %v", err)
	}

	items, _ := svc.Items(ctx)
	if len(items) != 1 || items[0].ID != dune.ID || items[0].Quantity != 5 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestCartPersists(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{}

	first := NewService(nil, store)
	_ = first.Add(ctx, dune)
	_ = first.Add(ctx, dune)

	second := NewService(nil, store)
	total, err := second.TotalItems(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 items after reload, got %d", total)
	}

	if err := second.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(store[consts.KeyCart]) != "[]" {
		t.Fatalf("expected an empty stored cart, got %s", store[consts.KeyCart])
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc := NewService(nil, memoryStore{})
	_ = svc.Add(ctx, emma)

	data, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Emma" {
		t.Fatalf("unexpected export: %s", data)
	}
}

func newClient(t *testing.T) *api.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, _, err := routes.Setup(context.Background(), &config.ServerConfig{
		Port:   8080,
		Schema: consts.DefaultSchema,
		Seed:   true,
		DB: &config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "cart.db"),
		},
	})
	if err != nil {
		t.Fatalf("failed to set up backend: %v", err)
	}
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	jar, _ := cookiejar.New(nil)
	transport := request.NewClient(&config.APIConfig{
		BaseURL: srv.URL,
		Schema:  consts.DefaultSchema,
		Timeout: 5 * time.Second,
	}, request.WithCookieJar(jar))
	return api.NewClient(transport, query.NewCache(query.Options{RetryDelay: time.Millisecond}), consts.DefaultSchema)
}

func checkoutDetails() *models.CreateTODto {
	return &models.CreateTODto{
		PatronId:      1,
		Email:         "alice@example.com",
		StreetAddress: lo.ToPtr("1 Main St"),
		PostCode:      lo.ToPtr("2000"),
		Suburb:        lo.ToPtr("Sydney"),
		State:         lo.ToPtr("NSW"),
		CardNumber:    "4111111111111111",
		CardOwner:     "Alice Customer",
		Expiry:        "12/30",
		CVV:           123,
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := NewService(nil, memoryStore{})
	if _, err := svc.Checkout(context.Background(), checkoutDetails()); !errors.Is(err, customerrors.ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	client := newClient(t)
	svc := NewService(client, memoryStore{})
	_ = svc.Add(ctx, dune)
	_ = svc.Add(ctx, dune)
	_ = svc.Add(ctx, emma)

	order, err := svc.Checkout(ctx, checkoutDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PostCode != 2000 || order.Suburb != "Sydney" {
		t.Fatalf("unexpected order address: %+v", order)
	}
	if len(order.ProductsInOrders) != 2 || order.ProductsInOrders[0].Quantity != 2 {
		t.Fatalf("unexpected order lines: %+v", order.ProductsInOrders)
	}
	if total, _ := svc.TotalItems(ctx); total != 0 {
		t.Fatalf("expected the cart to be cleared, got %d", total)
	}

	stock, err := client.Stocktake.List(ctx, pagination.QueryParams{Where: "(ProductId,eq,1)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stock.List[0].Quantity != 10 {
		t.Fatalf("expected stock to drop to 10, got %d", stock.List[0].Quantity)
	}
}

func TestCheckoutRejectsBadDetails(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newClient(t), memoryStore{})
	_ = svc.Add(ctx, dune)

	details := checkoutDetails()
	details.CardNumber = "12"
	_, err := svc.Checkout(ctx, details)
	if !errors.Is(err, customerrors.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if total, _ := svc.TotalItems(ctx); total != 1 {
		t.Fatal("cart must be kept when checkout fails")
	}
}

func TestItemsReadsStoredCart(t *testing.T) {
	ctx := context.Background()
	store := memoryStore{}
	_ = NewService(nil, store).Add(ctx, emma)

	items, err := NewService(nil, store).Items(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != emma.ID {
		t.Fatalf("expected the stored cart without an explicit load, got %+v", items)
	}
}

func TestCheckoutEmptyCreateBody(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/"+consts.DefaultSchema+"/Stocktake", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"list":[{"ItemId":7,"ProductId":1,"Quantity":3}],"pageInfo":{"totalRows":1,"page":1,"pageSize":1,"isFirstPage":true,"isLastPage":true}}`))
	})
	mux.HandleFunc("POST /api/"+consts.DefaultSchema+"/TO", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	transport := request.NewClient(&config.APIConfig{
		BaseURL: srv.URL,
		Schema:  consts.DefaultSchema,
		Timeout: 5 * time.Second,
	})
	client := api.NewClient(transport, query.NewCache(query.Options{RetryDelay: time.Millisecond}), consts.DefaultSchema)
	svc := NewService(client, memoryStore{})
	_ = svc.Add(ctx, dune)

	order, err := svc.Checkout(ctx, checkoutDetails())
	if !errors.Is(err, customerrors.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if order != nil {
		t.Fatalf("expected no order, got %+v", order)
	}
	if total, _ := svc.TotalItems(ctx); total != 1 {
		t.Fatal("cart must be kept when checkout fails")
	}
}
