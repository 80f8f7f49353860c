package backend

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/kahvecikaan/buildingMicroservices/menu-web/internal/domain"
	apperrors "github.com/kahvecikaan/buildingMicroservices/menu-web/internal/errors"
	"net/http"
	"net/url"
	"time"
)

const foodPath = "/food"

// Config describes how to reach the backend
type Config struct {
	// APIURL is the base URL of the backend, e.g. http://localhost:8080
	APIURL string
	// Retries is the number of additional attempts made by reads
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Timeout bounds a whole operation, retries included
	Timeout time.Duration
}

// Client talks to the menu backend
type Client interface {
	ListItems(ctx context.Context) ([]domain.MenuItem, error)
	CreateItem(ctx context.Context, item domain.NewItem) error
}

type client struct {
	transport  *httptransport.Runtime
	readClient *http.Client
	scheme     string
	timeout    time.Duration
	log        hclog.Logger
}

func NewClient(cfg Config, logger hclog.Logger) (Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: scheme and host are required", cfg.APIURL)
	}

	basePath := u.Path
	if basePath == "" {
		basePath = "/"
	}

	// reads go through a retrying client, writes are attempted once
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.RetryMax = cfg.Retries
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.Logger = logger
	rc.CheckRetry = retryOnFailure
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	writeClient := cleanhttp.DefaultPooledClient()
	rt := httptransport.NewWithClient(u.Host, basePath, []string{u.Scheme}, writeClient)

	return &client{
		transport:  rt,
		readClient: rc.StandardClient(),
		scheme:     u.Scheme,
		timeout:    cfg.Timeout,
		log:        logger,
	}, nil
}

// retryOnFailure retries network errors and every non-2xx response
func retryOnFailure(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return resp.StatusCode < 200 || resp.StatusCode > 299, nil
}

func (c *client) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	c.log.Debug("Listing menu items")

	result, err := c.transport.Submit(&runtime.ClientOperation{
		ID:                 "listItems",
		Method:             http.MethodGet,
		PathPattern:        foodPath,
		ProducesMediaTypes: []string{runtime.JSONMime},
		ConsumesMediaTypes: []string{runtime.JSONMime},
		Schemes:            []string{c.scheme},
		Params:             c.params(nil),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
			if !isSuccess(resp.Code()) {
				return nil, runtime.NewAPIError("listItems", resp.Message(), resp.Code())
			}
			var items []domain.MenuItem
			if err := consumer.Consume(resp.Body(), &items); err != nil {
				return nil, fmt.Errorf("decoding menu items: %w", err)
			}
			return items, nil
		}),
		Context: ctx,
		Client:  c.readClient,
	})
	if err != nil {
		c.log.Error("Unable to list menu items", "error", err)
		return nil, transportError("listItems", err)
	}

	items, _ := result.([]domain.MenuItem)
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (c *client) CreateItem(ctx context.Context, item domain.NewItem) error {
	c.log.Debug("Creating menu item", "title", item.Title)

	_, err := c.transport.Submit(&runtime.ClientOperation{
		ID:                 "createItem",
		Method:             http.MethodPost,
		PathPattern:        foodPath,
		ProducesMediaTypes: []string{runtime.JSONMime},
		ConsumesMediaTypes: []string{runtime.JSONMime},
		Schemes:            []string{c.scheme},
		Params:             c.params(&item),
		Reader: runtime.ClientResponseReaderFunc(func(resp runtime.ClientResponse, _ runtime.Consumer) (interface{}, error) {
			if !isSuccess(resp.Code()) {
				return nil, runtime.NewAPIError("createItem", resp.Message(), resp.Code())
			}
			// the backend may answer with an empty body; the assigned id is not needed
			return nil, nil
		}),
		Context: ctx,
	})
	if err != nil {
		c.log.Error("Unable to create menu item", "title", item.Title, "error", err)
		return transportError("createItem", err)
	}
	return nil
}

func (c *client) params(body interface{}) runtime.ClientRequestWriter {
	return runtime.ClientRequestWriterFunc(func(req runtime.ClientRequest, _ strfmt.Registry) error {
		if c.timeout > 0 {
			if err := req.SetTimeout(c.timeout); err != nil {
				return err
			}
		}
		if body != nil {
			return req.SetBodyParam(body)
		}
		return nil
	})
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func transportError(operation string, err error) error {
	status := 0
	var apiErr *runtime.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Code
	}
	return apperrors.NewTransportError(operation, status, err)
}
