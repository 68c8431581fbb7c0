package api

import (
	"context"

	"github.com/masteryyh/storefront/pkg/consts"
	"github.com/masteryyh/storefront/pkg/models"
	"github.com/masteryyh/storefront/pkg/query"
	"github.com/masteryyh/storefront/pkg/utils/pagination"
)

type Users struct {
	*Resource[models.User, models.CreateUserDto, models.UpdateUserDto]
}

// SignUp registers a customer account through the user collection.
func (u *Users) SignUp(ctx context.Context, dto *models.SignUpDto) (*models.User, error) {
	if err := u.c.http.Validate(dto); err != nil {
		return nil, err
	}
	return u.Create(ctx, dto.ToCreateUser())
}

type Genres struct {
	c *Client
}

// List returns every genre with only the name and id columns.
func (g *Genres) List(ctx context.Context) ([]models.Genre, error) {
	params := pagination.QueryParams{Fields: consts.GenreFields}
	key := query.NewKey(consts.TagGenres, consts.GenreFields)
	resp, err := query.Fetch(ctx, g.c.cache, key, func(ctx context.Context) (*pagination.ListResponse[models.Genre], error) {
		return getList[models.Genre](ctx, g.c, consts.ResourceGenre, params)
	})
	if err != nil {
		return nil, err
	}
	return resp.List, nil
}
