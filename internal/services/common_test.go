package services

import (
	"testing"

	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
)

func TestPageOf_Defaults(t *testing.T) {
	assert.Equal(t, repositories.Page{Page: 1, Limit: 10}, pageOf(dto.PageQuery{}))
	assert.Equal(t, repositories.Page{Page: 3, Limit: 100}, pageOf(dto.PageQuery{Page: 3, Limit: 500}))
	assert.Equal(t, repositories.Page{Page: 1, Limit: 10}, pageOf(dto.PageQuery{Page: -2, Limit: -1}))
}

func TestPageOf_CapsHugePage(t *testing.T) {
	p := pageOf(dto.PageQuery{Page: 1e18, Limit: 500})
	assert.Equal(t, maxPage, p.Page)
	assert.Positive(t, (p.Page-1)*p.Limit)
}

func TestBuildPaginatedResponse(t *testing.T) {
	resp := buildPaginatedResponse([]int{1, 2}, 25, repositories.Page{Page: 2, Limit: 10})

	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, int64(25), resp.Pagination.TotalItems)
	assert.True(t, resp.Pagination.HasNextPage)
	assert.True(t, resp.Pagination.HasPreviousPage)

	last := buildPaginatedResponse(nil, 20, repositories.Page{Page: 2, Limit: 10})
	assert.Equal(t, 2, last.Pagination.TotalPages)
	assert.False(t, last.Pagination.HasNextPage)
}

func TestUniqueIDs_KeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueIDs([]string{"b", "a", "b", "c", "a"}))
}
