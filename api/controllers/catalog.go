package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/blackboxinc/storefront-backend/api/responses"
	"github.com/blackboxinc/storefront-backend/api/validators"
	catalogsvc "github.com/blackboxinc/storefront-backend/internal/catalog"
	"github.com/blackboxinc/storefront-backend/pkg/enums"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

// ProductList proxies the paginated catalog listing.
func ProductList(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", 12, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryIDs, err := validators.ParseQueryIDList(r, "category_ids")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandIDs, err := validators.ParseQueryIDList(r, "brand_ids")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shopID, err := validators.ParseQueryInt64(r, "shop_id", 0)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		direction, err := enums.ParseSortDirection(strings.TrimSpace(r.URL.Query().Get("sort_direction")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort direction"))
			return
		}

		params := catalogsvc.ListProductsParams{
			Page:        page,
			PerPage:     perPage,
			Sort:        strings.TrimSpace(r.URL.Query().Get("sort")),
			Direction:   direction,
			Search:      r.URL.Query().Get("search"),
			CategoryIDs: categoryIDs,
			BrandIDs:    brandIDs,
			ShopID:      shopID,
		}

		result, err := svc.ListProducts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CategoryList returns the root categories.
func CategoryList(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ProductDetail looks a product up by its URL slug.
func ProductDetail(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductVariants lists the variants of one product.
func ProductVariants(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variants, err := svc.ListVariants(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, variants)
	}
}

// VariantSizes lists the stocked sizes of one variant.
func VariantSizes(svc *catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variantID, err := pathID(r, "variantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sizes, err := svc.ListSizes(r.Context(), variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sizes)
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a positive id").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}
