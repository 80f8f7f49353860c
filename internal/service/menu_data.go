package service

import (
	"context"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/backend"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/query"
)

// MenuQueryKey identifies the menu list in the query cache
const MenuQueryKey = "food-data"

type MenuState = query.State[[]domain.MenuItem]

// MenuData exposes the menu list held by the query cache
type MenuData interface {
	// Items returns the cached items, never nil
	Items() []domain.MenuItem
	IsLoading() bool
	IsError() bool
	Error() error
	// State triggers the first read and returns the current snapshot
	State() MenuState
	// Ensure triggers the first read and waits until it settles or ctx is done
	Ensure(ctx context.Context) (MenuState, error)
	// Load is Ensure for a page being shown: a failed read is issued again
	Load(ctx context.Context) (MenuState, error)
	// Refetch reads the menu again and returns the refreshed state
	Refetch(ctx context.Context) (MenuState, error)
}

type menuData struct {
	query    *query.Query[[]domain.MenuItem]
	eventBus *events.EventBus[any]
	logger   hclog.Logger
}

func NewMenuData(
	cache *query.Cache,
	client backend.Client,
	eventBus *events.EventBus[any],
	logger hclog.Logger) (MenuData, error) {
	q, err := query.NewQuery(cache, MenuQueryKey, client.ListItems)
	if err != nil {
		return nil, err
	}

	return &menuData{
		query:    q,
		eventBus: eventBus,
		logger:   logger,
	}, nil
}

func (m *menuData) State() MenuState {
	m.query.Ensure()
	return m.query.State()
}

func (m *menuData) Items() []domain.MenuItem {
	items := m.State().Data
	if items == nil {
		return []domain.MenuItem{}
	}
	return items
}

func (m *menuData) IsLoading() bool {
	return m.State().IsLoading()
}

func (m *menuData) IsError() bool {
	return m.State().IsError()
}

func (m *menuData) Error() error {
	return m.State().Err
}

func (m *menuData) Ensure(ctx context.Context) (MenuState, error) {
	return m.query.Fetch(ctx)
}

func (m *menuData) Load(ctx context.Context) (MenuState, error) {
	m.query.Revalidate()
	return m.query.Wait(ctx)
}

func (m *menuData) Refetch(ctx context.Context) (MenuState, error) {
	m.logger.Debug("Refetching menu")

	state, err := m.query.Refetch(ctx)
	if err != nil {
		return state, err
	}

	if state.IsError() {
		m.logger.Error("Unable to refresh menu", "error", state.Err)
		return state, nil
	}

	m.eventBus.Publish(events.MenuRefreshed{Items: len(state.Data)})
	return state, nil
}
