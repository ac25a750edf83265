package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blackboxinc/storefront-backend/pkg/commerce"
	"github.com/blackboxinc/storefront-backend/pkg/enums"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
)

const (
	productPath     = "/product"
	categoryPath    = "/product-category"
	variantPath     = "/product-variant"
	variantSizePath = "/product-variant-size"
)

const (
	defaultPage    = 1
	defaultPerPage = 12
	maxPerPage     = 100
)

// Product is the catalog record as the storefront consumes it.
type Product struct {
	ID            int64           `json:"id"`
	Slug          string          `json:"slug"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Image         string          `json:"image,omitempty"`
	Price         decimal.Decimal `json:"price"`
	DiscountPrice decimal.Decimal `json:"discount_price,omitempty"`
	BrandID       int64           `json:"brand_id,omitempty"`
	CategoryID    int64           `json:"product_category_id,omitempty"`
	ShopID        int64           `json:"shop_id,omitempty"`
}

// Category is one node of the catalog taxonomy. ParentID is zero for roots.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Image    string `json:"image,omitempty"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// Variant is a purchasable variation of a product (colorway, material).
type Variant struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
}

// Size is one stocked size of a variant.
type Size struct {
	ID        int64  `json:"id"`
	VariantID int64  `json:"product_variant_id"`
	Label     string `json:"label"`
	Stock     int    `json:"stock"`
}

// ListProductsParams are the supported product listing filters. Zero values
// are omitted from the upstream query.
type ListProductsParams struct {
	Page        int
	PerPage     int
	Sort        string
	Direction   enums.SortDirection
	Search      string
	CategoryIDs []int64
	BrandIDs    []int64
	ShopID      int64
}

// Service exposes catalog reads over the upstream API. It carries no business
// logic: each operation maps parameters to an upstream query and flattens the
// response envelope.
type Service struct {
	client *commerce.Client
}

// NewService builds the catalog query layer.
func NewService(client *commerce.Client) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("commerce client required")
	}
	return &Service{client: client}, nil
}

// ListProducts returns one page of products matching the filters.
func (s *Service) ListProducts(ctx context.Context, params ListProductsParams) (commerce.Page[Product], error) {
	if params.Page <= 0 {
		params.Page = defaultPage
	}
	if params.PerPage <= 0 {
		params.PerPage = defaultPerPage
	}
	if params.PerPage > maxPerPage {
		params.PerPage = maxPerPage
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("per_page", strconv.Itoa(params.PerPage))
	if params.Sort != "" {
		query.Set("sort", params.Sort)
		if params.Direction.IsValid() {
			query.Set("sort_direction", params.Direction.String())
		}
	}
	if search := strings.TrimSpace(params.Search); search != "" {
		query.Set("search", search)
	}
	if ids := joinIDs(params.CategoryIDs); ids != "" {
		query.Set("category_ids", ids)
	}
	if ids := joinIDs(params.BrandIDs); ids != "" {
		query.Set("brand_ids", ids)
	}
	if params.ShopID > 0 {
		query.Set("shop_id", strconv.FormatInt(params.ShopID, 10))
	}

	return commerce.GetPage[Product](ctx, s.client, productPath, query)
}

// ListCategories returns the root categories of the taxonomy.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	query := url.Values{}
	query.Set("parent_id", "0")

	var categories []Category
	if err := s.client.Get(ctx, categoryPath, query, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetProductBySlug returns a single product by its URL slug.
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}

	var product Product
	if err := s.client.Get(ctx, productPath+"/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListVariants returns the variants of one product.
func (s *Service) ListVariants(ctx context.Context, productID int64) ([]Variant, error) {
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	query := url.Values{}
	query.Set("product_id", strconv.FormatInt(productID, 10))

	var variants []Variant
	if err := s.client.Get(ctx, variantPath, query, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// ListSizes returns the stocked sizes of one variant.
func (s *Service) ListSizes(ctx context.Context, variantID int64) ([]Size, error) {
	if variantID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id required")
	}

	query := url.Values{}
	query.Set("product_variant_id", strconv.FormatInt(variantID, 10))

	var sizes []Size
	if err := s.client.Get(ctx, variantSizePath, query, &sizes); err != nil {
		return nil, err
	}
	return sizes, nil
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
