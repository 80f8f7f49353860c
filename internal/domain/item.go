package domain

// MenuItem represents an entry of the menu as returned by the backend
type MenuItem struct {
	// The ID of the item, assigned by the backend
	ID int64 `json:"id"`

	// The display name of the item
	Title string `json:"title"`

	// The price of the item
	Price float64 `json:"price"`

	// Absolute URL of the display image
	Image string `json:"image"`
}

// NewItem is a candidate menu item sent to the backend for creation
type NewItem struct {
	Title string  `json:"title" validate:"notblank"`
	Price float64 `json:"price" validate:"gt=0"`
	Image string  `json:"image" validate:"required,url"`
}
