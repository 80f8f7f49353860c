package service

import (
	"context"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/backend"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/events"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/query"
)

// ItemCreator sends new menu items to the backend. It does not touch the
// cached menu list; callers that want a fresh list refetch it themselves.
type ItemCreator interface {
	Submit(ctx context.Context, item domain.NewItem) error
	IsPending() bool
	IsSuccess() bool
	Error() error
}

type itemCreator struct {
	mutation *query.Mutation[domain.NewItem]
	client   backend.Client
	eventBus *events.EventBus[any]
	logger   hclog.Logger
}

func NewItemCreator(
	client backend.Client,
	eventBus *events.EventBus[any],
	logger hclog.Logger) ItemCreator {
	ic := &itemCreator{
		client:   client,
		eventBus: eventBus,
		logger:   logger,
	}
	ic.mutation = query.NewMutation(ic.create)
	return ic
}

func (c *itemCreator) create(ctx context.Context, item domain.NewItem) error {
	c.logger.Debug("Adding new menu item", "title", item.Title)

	if err := c.client.CreateItem(ctx, item); err != nil {
		c.logger.Error("Unable to add menu item", "title", item.Title, "error", err)
		return err
	}

	c.eventBus.Publish(events.ItemCreated{Title: item.Title, Price: item.Price})
	return nil
}

func (c *itemCreator) Submit(ctx context.Context, item domain.NewItem) error {
	return c.mutation.Mutate(ctx, item)
}

func (c *itemCreator) IsPending() bool {
	return c.mutation.IsPending()
}

func (c *itemCreator) IsSuccess() bool {
	return c.mutation.IsSuccess()
}

func (c *itemCreator) Error() error {
	return c.mutation.Error()
}
