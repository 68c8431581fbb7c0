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

package consts

// Backend resource collections, as addressed under /api/<schema>/.
const (
	ResourceProduct   = "Product"
	ResourcePatrons   = "Patrons"
	ResourceUser      = "User"
	ResourceOrders    = "Orders"
	ResourceGenre     = "Genre"
	ResourceStocktake = "Stocktake"
	ResourceTO        = "TO"
)

// Cache tags. List tags are followed by the encoded query, detail tags by the id.
const (
	TagProducts  = "products"
	TagProduct   = "product"
	TagPatrons   = "patrons"
	TagPatron    = "patron"
	TagUsers     = "users"
	TagUser      = "user"
	TagOrders    = "orders"
	TagOrder     = "order"
	TagGenres    = "genres"
	TagStocktake = "stocktake"
	TagTO        = "to"
)

// Local store keys.
const (
	KeyUser            = "user"
	KeyRole            = "role"
	KeyIsAuthenticated = "isAuthenticated"
	KeyIsLoggedIn      = "isLoggedIn"
	KeyCookies         = "cookies"
	KeyCart            = "cart"
)

const (
	DefaultPageSize = 25
	DefaultSchema   = "inft3050"
	GenreFields     = "Name,GenreID"
	SessionCookie   = "storefront_session"
)
