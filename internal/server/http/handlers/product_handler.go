package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	"github.com/altmarket/storefront/internal/server/http/dto"
	"github.com/altmarket/storefront/internal/usecase"
)

// ProductHandler manages product endpoints, including stock adjustments.
type ProductHandler struct {
	facade CatalogFacade
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(facade CatalogFacade) *ProductHandler {
	return &ProductHandler{facade: facade}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	product, err := h.facade.CreateProduct(c.Request.Context(), productInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, toProductResponse(product))
}

// List handles GET /api/products.
func (h *ProductHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.ProductFilter{
		CategoryID: c.Query("categoryId"),
		Search:     c.Query("search"),
		Page:       page,
		Limit:      limit,
	}
	if active, ok := boolQuery(c, "active"); ok {
		filter.IsActive = &active
	}

	products, total, err := h.facade.Products(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	respondData(c, http.StatusOK, dto.Paginated{Items: items, Meta: dto.NewMeta(total, page, limit)})
}

// Get handles GET /api/products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.facade.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toProductResponse(product))
}

// GetBySKU handles GET /api/products/sku/:sku.
func (h *ProductHandler) GetBySKU(c *gin.Context) {
	product, err := h.facade.ProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toProductResponse(product))
}

// Update handles PUT /api/products/:id.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	product, err := h.facade.UpdateProduct(c.Request.Context(), c.Param("id"), productInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toProductResponse(product))
}

// AdjustStock handles PATCH /api/products/:id/stock.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	product, err := h.facade.AdjustProductStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "product deleted")
}

func productInput(req dto.ProductRequest) usecase.ProductInput {
	return usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsActive:    req.Active,
	}
}

func toProductResponse(product *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		SKU:         product.SKU,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		Active:      product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
