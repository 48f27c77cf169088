package dto

// PageQuery - ?page&limit. Значения по умолчанию подставляет хендлер.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	TotalItems      int64 `json:"totalItems"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// PaginatedResponse - единый формат всех списков
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// ModifiedResult - ответ массовых операций над заявками
type ModifiedResult struct {
	ModifiedCount int64 `json:"modifiedCount"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
