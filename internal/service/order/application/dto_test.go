package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLinesAcceptsAllReferenceShapes(t *testing.T) {
	raw := []RawCartLine{
		{ItemID: "apple", Quantity: 2},
		{ID: "banana", Quantity: 1},
		{Item: &struct {
			ID string `json:"id"`
		}{ID: "carrot"}, Quantity: 3},
	}

	lines := NormalizeLines(raw)
	assert.Equal(t, []CartLine{
		{ItemID: "apple", Quantity: 2},
		{ItemID: "banana", Quantity: 1},
		{ItemID: "carrot", Quantity: 3},
	}, lines)
}

func TestNormalizeLinesMergesDuplicates(t *testing.T) {
	raw := []RawCartLine{
		{ItemID: "apple", Quantity: 2},
		{ID: "apple", Quantity: 3}, // same item via a different field
		{ItemID: "banana", Quantity: 1},
	}

	lines := NormalizeLines(raw)
	assert.Equal(t, []CartLine{
		{ItemID: "apple", Quantity: 5},
		{ItemID: "banana", Quantity: 1},
	}, lines)
}

func TestNormalizeLinesDropsEmptyReferences(t *testing.T) {
	raw := []RawCartLine{
		{Quantity: 2},
		{ItemID: "   ", Quantity: 1},
		{ItemID: "apple", Quantity: 1},
	}

	lines := NormalizeLines(raw)
	assert.Equal(t, []CartLine{{ItemID: "apple", Quantity: 1}}, lines)
}

func TestNormalizeLinesKeepsInvalidQuantityForValidation(t *testing.T) {
	raw := []RawCartLine{{ItemID: "apple", Quantity: 0}}

	lines := NormalizeLines(raw)
	assert.Equal(t, []CartLine{{ItemID: "apple", Quantity: 0}}, lines)
}
