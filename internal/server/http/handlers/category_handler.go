package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
	"github.com/altmarket/storefront/internal/server/http/dto"
	"github.com/altmarket/storefront/internal/usecase"
)

// CategoryHandler manages category endpoints.
type CategoryHandler struct {
	facade CatalogFacade
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(facade CatalogFacade) *CategoryHandler {
	return &CategoryHandler{facade: facade}
}

// Create handles POST /api/categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	category, err := h.facade.CreateCategory(c.Request.Context(), categoryInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, toCategoryResponse(category))
}

// List handles GET /api/categories.
func (h *CategoryHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.CategoryFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	if active, ok := boolQuery(c, "active"); ok {
		filter.IsActive = &active
	}

	categories, total, err := h.facade.Categories(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, toCategoryResponse(&categories[i]))
	}
	respondData(c, http.StatusOK, dto.Paginated{Items: items, Meta: dto.NewMeta(total, page, limit)})
}

// Get handles GET /api/categories/:id.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.facade.Category(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toCategoryResponse(category))
}

// Update handles PUT /api/categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	category, err := h.facade.UpdateCategory(c.Request.Context(), c.Param("id"), categoryInput(req))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, toCategoryResponse(category))
}

// Delete handles DELETE /api/categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "category deleted")
}

func categoryInput(req dto.CategoryRequest) usecase.CategoryInput {
	return usecase.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    req.Active,
	}
}

func toCategoryResponse(category *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Active:      category.IsActive,
		CreatedAt:   category.CreatedAt,
	}
}
