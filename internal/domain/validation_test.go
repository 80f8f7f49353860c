package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		item    NewItem
		wantErr error
		count   int
	}{
		{"Valid item", NewItem{Title: "Pizza", Price: 29.9, Image: "http://x/a.png"}, nil, 0},
		{"Blank title", NewItem{Title: "   ", Price: 1, Image: "http://x/a.png"}, ErrTitleRequired, 1},
		{"Zero price", NewItem{Title: "Pizza", Price: 0, Image: "http://x/a.png"}, ErrInvalidPrice, 1},
		{"Negative price", NewItem{Title: "Pizza", Price: -3, Image: "http://x/a.png"}, ErrInvalidPrice, 1},
		{"Relative image", NewItem{Title: "Pizza", Price: 1, Image: "a.png"}, ErrInvalidImage, 1},
		{"Everything wrong", NewItem{}, ErrTitleRequired, 3},
	}

	v := NewValidation()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Validate(&tc.item)

			if tc.wantErr == nil {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, tc.count)
			assert.True(t, errors.Is(errs.First(), tc.wantErr), "got %v", errs.First())
		})
	}
}

func descriptor(t *testing.T, kind FieldKind) FieldDescriptor {
	t.Helper()
	desc, ok := Descriptor(kind)
	require.True(t, ok)
	return desc
}

func TestDescriptor_UnknownKind(t *testing.T) {
	_, ok := Descriptor(FieldKind(42))
	assert.False(t, ok)
	assert.Equal(t, "unknown", FieldKind(42).String())
}

func TestValidation_ValidateField(t *testing.T) {
	v := NewValidation()

	assert.NoError(t, v.ValidateField(descriptor(t, FieldTitle), "Pizza"))
	assert.ErrorIs(t, v.ValidateField(descriptor(t, FieldTitle), "\t \n"), ErrTitleRequired)

	assert.NoError(t, v.ValidateField(descriptor(t, FieldPrice), 0.01))
	assert.ErrorIs(t, v.ValidateField(descriptor(t, FieldPrice), 0.0), ErrInvalidPrice)
	assert.ErrorIs(t, v.ValidateField(descriptor(t, FieldPrice), math.NaN()), ErrInvalidPrice)

	assert.NoError(t, v.ValidateField(descriptor(t, FieldImage), "https://cdn.example.com/p.png"))
	assert.ErrorIs(t, v.ValidateField(descriptor(t, FieldImage), ""), ErrInvalidImage)
	assert.ErrorIs(t, v.ValidateField(descriptor(t, FieldImage), "not a url"), ErrInvalidImage)
}

func TestFieldsOrder(t *testing.T) {
	require.Len(t, Fields, 3)
	assert.Equal(t, FieldTitle, Fields[0].Kind)
	assert.Equal(t, FieldPrice, Fields[1].Kind)
	assert.Equal(t, FieldImage, Fields[2].Kind)
	assert.Equal(t, "number", descriptor(t, FieldPrice).InputType)
	assert.Equal(t, "price", FieldPrice.String())
}
