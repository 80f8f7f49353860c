package view

import (
	"bytes"
	"embed"
	"fmt"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/form"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/query"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Status of the menu page
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Card is a single menu item as displayed
type Card struct {
	ID    int64
	Title string
	Image string
	Price string
}

// Page is the data of the menu page
type Page struct {
	Status Status
	Cards  []Card
	// Modal, when set, renders the creation form over the menu
	Modal *form.View
	// RefreshAfter is the reload delay in seconds while loading
	RefreshAfter int
}

// Renderer renders the menu page and the creation modal
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// FormatPrice formats a price with exactly two decimal places
func FormatPrice(price float64) string {
	return fmt.Sprintf("R$ %.2f", price)
}

// MenuPage maps the menu query state to a page. Loading wins over error,
// and an error hides any stale items.
func MenuPage(state query.State[[]domain.MenuItem]) Page {
	switch {
	case state.IsLoading():
		return Page{Status: StatusLoading, RefreshAfter: 1}
	case state.IsError():
		return Page{Status: StatusError}
	case !state.HasData:
		return Page{Status: StatusLoading, RefreshAfter: 1}
	}

	cards := make([]Card, 0, len(state.Data))
	for _, item := range state.Data {
		cards = append(cards, Card{
			ID:    item.ID,
			Title: item.Title,
			Image: item.Image,
			Price: FormatPrice(item.Price),
		})
	}
	return Page{Status: StatusReady, Cards: cards}
}

// Render writes the page. Output is buffered so a template failure does not
// leave a half written response.
func (r *Renderer) Render(w io.Writer, page Page) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "page", page); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
