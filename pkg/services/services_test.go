package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/conn"
	"github.com/masteryyh/storefront/pkg/customerrors"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	ctx := context.Background()
	db, err := conn.OpenDB(ctx, &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "services.db"),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := conn.Seed(ctx, db); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return New(db, time.Hour)
}

func TestProductListWindow(t *testing.T) {
	svc := newTestServices(t)

	resp, err := svc.Products.List(context.Background(), &pagination.QueryParams{Limit: 4, Offset: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.List) != 2 {
		t.Fatalf("expected 2 rows on the last page, got %d", len(resp.List))
	}
	info := resp.PageInfo
	if info.TotalRows != 10 || info.Page != 3 || !info.IsLastPage || info.IsFirstPage {
		t.Fatalf("unexpected page info: %+v", info)
	}
}

func TestProductListWhereAndSort(t *testing.T) {
	svc := newTestServices(t)

	resp, err := svc.Products.List(context.Background(), &pagination.QueryParams{
		Where: "(SubGenre,eq,2)",
		Sort:  "-Name",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PageInfo.TotalRows != 3 {
		t.Fatalf("expected 3 movies, got %d", resp.PageInfo.TotalRows)
	}
	if resp.List[0].Name != "Spirited Away" || resp.List[2].Name != "Alien" {
		t.Fatalf("unexpected order: %s ... %s", resp.List[0].Name, resp.List[2].Name)
	}
}

func TestProductListBadWhere(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.Products.List(context.Background(), &pagination.QueryParams{Where: "(Price,gt,3)"})
	if !errors.Is(err, customerrors.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestGenreFields(t *testing.T) {
	svc := newTestServices(t)

	resp, err := svc.Genres.List(context.Background(), &pagination.QueryParams{Fields: "Name,GenreID"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.List) != 3 || resp.List[0].Name != "Books" || resp.List[0].GenreID != 1 {
		t.Fatalf("unexpected genres: %+v", resp.List)
	}
}

func TestProductUpdateAndDelete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	name := "Dune Messiah"
	product, err := svc.Products.Update(ctx, 1, &models.UpdateProductDto{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Name != name || product.Author != "Frank Herbert" {
		t.Fatalf("unexpected product: %+v", product)
	}

	if err := svc.Products.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Products.Get(ctx, 1); !errors.Is(err, customerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Products.Delete(ctx, 1); !errors.Is(err, customerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStocktakeCarriesProduct(t *testing.T) {
	svc := newTestServices(t)

	item, err := svc.Stocktake.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Product == nil || item.Product.ID != item.ProductId || item.Product.Name != "Dune" {
		t.Fatalf("unexpected product summary: %+v", item.Product)
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	dto := &models.CreateUserDto{
		Username: "clerk",
		Email:    "Clerk@Example.com",
		Role:     models.UserRoleEmployee,
		Password: "secret123",
	}
	user, err := svc.Users.Create(ctx, dto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "clerk@example.com" || user.HashPW == "" || user.HashPW == dto.Password {
		t.Fatalf("unexpected stored user: %+v", user)
	}
	if _, err := svc.Users.Create(ctx, dto); !errors.Is(err, customerrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func placeOrder(t *testing.T, svc *Services, quantity int) (*models.Order, error) {
	t.Helper()
	ctx := context.Background()
	to, err := svc.TOs.Create(ctx, &models.CreateTODto{
		PatronId:   1,
		Email:      "alice@example.com",
		CardNumber: "4111111111111111",
		CardOwner:  "Alice Customer",
		Expiry:     "12/30",
		CVV:        123,
	})
	if err != nil {
		t.Fatalf("failed to create customer record: %v", err)
	}
	if to.Patrons == nil || to.Patrons.Email != "alice@example.com" {
		t.Fatalf("expected patron summary, got %+v", to.Patrons)
	}

	return svc.Orders.Create(ctx, &models.CreateOrderDto{
		Customer:      to.CustomerID,
		StreetAddress: "1 Main St",
		PostCode:      2000,
		Suburb:        "Sydney",
		State:         "NSW",
		Lines:         []models.OrderLineDto{{ProduktId: 1, Quantity: quantity}, {ProduktId: 2, Quantity: 1}},
	})
}

func TestOrderCreateTakesStock(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	order, err := placeOrder(t, svc, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.TO == nil || order.TO.PatronId != 1 {
		t.Fatalf("expected customer record, got %+v", order.TO)
	}
	if len(order.ProductsInOrders) != 2 || len(order.StocktakeList) != 2 {
		t.Fatalf("unexpected lines: %+v / %+v", order.ProductsInOrders, order.StocktakeList)
	}

	item, err := svc.Stocktake.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 10 {
		t.Fatalf("expected 10 left in stock, got %d", item.Quantity)
	}
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	if _, err := placeOrder(t, svc, 1000); !errors.Is(err, customerrors.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	item, err := svc.Stocktake.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Quantity != 12 {
		t.Fatalf("stock must be untouched, got %d", item.Quantity)
	}
	orders, err := svc.Orders.List(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders.List) != 0 {
		t.Fatalf("expected no orders, got %d", len(orders.List))
	}
}

func TestStocktakeDeleteDropsOrderLines(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	order, err := placeOrder(t, svc, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Stocktake.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := svc.Orders.Get(ctx, order.OrderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reloaded.ProductsInOrders) != 1 || reloaded.ProductsInOrders[0].ProduktId != 2 {
		t.Fatalf("expected only the second line to remain, got %+v", reloaded.ProductsInOrders)
	}
}

func TestAuthLogin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	resp, session, err := svc.Auth.Login(ctx, &models.LoginDto{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsAdmin || session.Subject != SubjectUser {
		t.Fatalf("unexpected login: %+v %+v", resp, session)
	}
	if _, err := svc.Auth.Session(ctx, session.Token); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}

	resp, session, err = svc.Auth.Login(ctx, &models.LoginDto{Username: "Alice@example.com", Password: "customer123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.IsAdmin || session.Subject != SubjectPatron || resp.Email != "alice@example.com" {
		t.Fatalf("unexpected patron login: %+v %+v", resp, session)
	}

	if err := svc.Auth.Logout(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Auth.Session(ctx, session.Token); !errors.Is(err, customerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestAuthLoginRejects(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	tests := []models.LoginDto{
		{Username: "admin", Password: "wrong"},
		{Username: "nobody", Password: "admin123"},
		{Username: "bob@example.com", Password: "admin123"},
	}
	for _, dto := range tests {
		if _, _, err := svc.Auth.Login(ctx, &dto); !errors.Is(err, customerrors.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %s, got %v", dto.Username, err)
		}
	}
}

func TestAuthSessionExpires(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, session, err := svc.Auth.Login(ctx, &models.LoginDto{Username: "employee", Password: "employee123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Auth.Session(ctx, session.Token); !errors.Is(err, customerrors.ErrUnauthorized) {
		t.Fatalf("expected expired session, got %v", err)
	}
}
