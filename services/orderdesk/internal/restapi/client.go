package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

// ServiceClient is the subset of apt.ServiceClient the desk uses.
type ServiceClient interface {
	List(ctx context.Context, resource string) (*apt.SuccessResponse, error)
	Get(ctx context.Context, resource, id string) (*apt.SuccessResponse, error)
	Create(ctx context.Context, resource string, payload interface{}) (*apt.SuccessResponse, error)
	Request(ctx context.Context, method, path string, body interface{}) (*apt.SuccessResponse, error)
}

type ClientOptions struct {
	Retry   RetryConfig
	Breaker BreakerConfig
	Tasks   TaskCache
}

// Client talks to the orders backend. Reads are retried, mutations are not.
// Every call goes through a circuit breaker.
type Client struct {
	api     ServiceClient
	retry   RetryConfig
	breaker *Breaker
	tasks   TaskCache
	logger  apt.Logger
}

func NewClient(api ServiceClient, opts ClientOptions, logger apt.Logger) *Client {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if opts.Retry.MaxAttempts <= 0 {
		opts.Retry = DefaultRetryConfig()
	}
	if opts.Breaker.Name == "" {
		opts.Breaker = DefaultBreakerConfig("orders")
	}
	return &Client{
		api:     api,
		retry:   opts.Retry,
		breaker: NewBreaker(opts.Breaker, logger),
		tasks:   opts.Tasks,
		logger:  logger,
	}
}

// NewServiceClient builds the apt client for baseURL.
func NewServiceClient(baseURL string) (ServiceClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing base url", ErrNotConfigured)
	}
	client := apt.NewServiceClient(baseURL)
	if client == nil {
		return nil, fmt.Errorf("failed to create service client for %s", baseURL)
	}
	return client, nil
}

// GetByID fetches the server copy of an order.
func (c *Client) GetByID(ctx context.Context, id string) (orders.Payload, error) {
	if id == "" {
		return nil, fmt.Errorf("missing order id")
	}
	return RetryWithResult(ctx, c.retry, func() (orders.Payload, error) {
		resp, err := c.call(func() (*apt.SuccessResponse, error) {
			return c.api.Get(ctx, "orders", id)
		})
		if err != nil {
			return nil, err
		}
		return decodeObject(resp)
	})
}

func (c *Client) ListOrders(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "orders")
}

// TaskQuery selects one page of a chef's tasks.
type TaskQuery struct {
	ChefID string
	Page   int
	Status string
	Search string
}

// Key is the memo key for the query.
func (q TaskQuery) Key() string {
	return fmt.Sprintf("%s-%d-%s-%s", q.ChefID, q.Page, q.Status, q.Search)
}

func (q TaskQuery) path() string {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	path := fmt.Sprintf("/chefs/%s/tasks", url.PathEscape(q.ChefID))
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path
}

// ChefTasks returns a chef's tasks, memoized per query.
func (c *Client) ChefTasks(ctx context.Context, q TaskQuery) ([]orders.Payload, error) {
	if q.ChefID == "" {
		return nil, fmt.Errorf("missing chef id")
	}

	key := q.Key()
	if c.tasks != nil {
		cached, ok, err := c.tasks.Get(ctx, key)
		if err != nil {
			c.log().Debug("task cache read failed", "key", key, "error", err)
		} else if ok {
			return cached, nil
		}
	}

	tasks, err := RetryWithResult(ctx, c.retry, func() ([]orders.Payload, error) {
		resp, err := c.call(func() (*apt.SuccessResponse, error) {
			return c.api.Request(ctx, "GET", q.path(), nil)
		})
		if err != nil {
			return nil, err
		}
		return decodeList(resp)
	})
	if err != nil {
		return nil, err
	}

	if c.tasks != nil {
		if err := c.tasks.Set(ctx, key, tasks); err != nil {
			c.log().Debug("task cache write failed", "key", key, "error", err)
		}
	}
	return tasks, nil
}

func (c *Client) Chefs(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "chefs")
}

func (c *Client) Products(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "products")
}

func (c *Client) Departments(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "departments")
}

func (c *Client) Branches(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "branches")
}

func (c *Client) Returns(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "returns")
}

func (c *Client) Inventory(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "inventory")
}

func (c *Client) Sales(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "sales")
}

func (c *Client) list(ctx context.Context, resource string) ([]orders.Payload, error) {
	return RetryWithResult(ctx, c.retry, func() ([]orders.Payload, error) {
		resp, err := c.call(func() (*apt.SuccessResponse, error) {
			return c.api.List(ctx, resource)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", resource, err)
		}
		return decodeList(resp)
	})
}

func (c *Client) call(fn func() (*apt.SuccessResponse, error)) (*apt.SuccessResponse, error) {
	if c == nil || c.api == nil {
		return nil, ErrNotConfigured
	}
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := fn()
		return resp, classify(err)
	})
	if err != nil {
		return nil, err
	}
	resp, _ := result.(*apt.SuccessResponse)
	return resp, nil
}

func (c *Client) log() apt.Logger {
	return c.logger.With("component", "orders-client")
}

func rawData(resp *apt.SuccessResponse) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("nil success response")
	}
	return json.Marshal(resp.Data)
}

func decodeObject(resp *apt.SuccessResponse) (orders.Payload, error) {
	raw, err := rawData(resp)
	if err != nil {
		return nil, err
	}
	return orders.DecodePayload(raw)
}

func decodeList(resp *apt.SuccessResponse) ([]orders.Payload, error) {
	raw, err := rawData(resp)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("invalid response format: %w", err)
	}

	result := make([]orders.Payload, 0, len(items))
	for _, item := range items {
		p, err := orders.DecodePayload(item)
		if err != nil {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}
