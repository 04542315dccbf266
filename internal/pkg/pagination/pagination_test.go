package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParamsClamps(t *testing.T) {
	p := NewParams("", "")
	assert.Equal(t, &Params{Page: 1, Limit: DefaultLimit, Offset: 0}, p)

	p = NewParams("3", "10")
	assert.Equal(t, &Params{Page: 3, Limit: 10, Offset: 20}, p)

	p = NewParams("-1", "1000")
	assert.Equal(t, &Params{Page: 1, Limit: MaxLimit, Offset: 0}, p)

	p = NewParams("abc", "0")
	assert.Equal(t, &Params{Page: 1, Limit: DefaultLimit, Offset: 0}, p)
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(NewParams("2", "10"), 25)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	meta = GetMeta(NewParams("1", "10"), 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrev)
}
