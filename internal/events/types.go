package events

// ItemCreated is published after the backend accepted a new menu item
type ItemCreated struct {
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// MenuRefreshed is published after the menu list was fetched again
type MenuRefreshed struct {
	Items int `json:"items"`
}
