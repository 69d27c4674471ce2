package shared

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Offset(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{"first page", 1, 10, 0},
		{"zero page", 0, 10, 0},
		{"third page", 3, 10, 20},
		{"no page size", 5, 0, 0},
		{"overflow saturates", 1<<60 + 1, 10, math.MaxInt},
		{"max int page", math.MaxInt, 100, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Page: tt.page, PageSize: tt.pageSize}
			assert.Equal(t, tt.want, f.Offset())
		})
	}
}

func TestFilter_PastEnd(t *testing.T) {
	assert.True(t, Filter{Page: 1, PageSize: 10}.PastEnd(0))
	assert.False(t, Filter{Page: 1, PageSize: 10}.PastEnd(5))
	assert.True(t, Filter{Page: 2, PageSize: 10}.PastEnd(5))
	assert.False(t, Filter{Page: 2, PageSize: 10}.PastEnd(11))
	assert.True(t, Filter{Page: 1<<60 + 1, PageSize: 10}.PastEnd(5))
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-4))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 42, ClampPage(42))
	assert.Equal(t, MaxPage, ClampPage(math.MaxInt))
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated[int](nil, 21, 3, 10)
	assert.NotNil(t, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, TotalPages(5, 0))
}
