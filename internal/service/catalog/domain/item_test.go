package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("fruit")
	require.NoError(t, err)
	assert.Equal(t, CategoryFruit, c)

	c, err = ParseCategory("NON-VEG")
	require.NoError(t, err)
	assert.Equal(t, CategoryNonVeg, c)

	_, err = ParseCategory("electronics")
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestNewItemValidation(t *testing.T) {
	item, err := NewItem("Fresh Apple", CategoryFruit, 2.50, 50)
	require.NoError(t, err)
	assert.True(t, item.Active)
	assert.Equal(t, 50, item.Stock)

	_, err = NewItem("", CategoryFruit, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NewItem("Apple", CategoryFruit, -1, 1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NewItem("Apple", CategoryFruit, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidItem)

	_, err = NewItem("Apple", Category("Snacks"), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestCanFulfill(t *testing.T) {
	item := &Item{ID: "i1", Stock: 3, Active: true}

	assert.NoError(t, item.CanFulfill(3))
	assert.ErrorIs(t, item.CanFulfill(4), ErrInsufficientStock)

	item.Active = false
	// inactive wins over stock level
	assert.ErrorIs(t, item.CanFulfill(1), ErrItemInactive)
}
