package dto

// Envelope is the standard response wrapper for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Meta carries pagination details for list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// Paginated combines a page of items with its pagination meta.
type Paginated struct {
	Items any  `json:"items"`
	Meta  Meta `json:"meta"`
}

// NewMeta computes pagination meta from a total count and page settings.
func NewMeta(total int64, page, limit int) Meta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Meta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
