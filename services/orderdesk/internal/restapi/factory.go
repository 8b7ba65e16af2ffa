package restapi

import (
	"context"
	"fmt"
	"net/url"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

type FactoryItemRequest struct {
	ProductID  string  `json:"productId"`
	Quantity   float64 `json:"quantity"`
	AssignedTo string  `json:"assignedTo,omitempty"`
}

type CreateFactoryOrderRequest struct {
	Items    []FactoryItemRequest `json:"items"`
	Notes    string               `json:"notes,omitempty"`
	Priority string               `json:"priority,omitempty"`
}

type ChefAssignmentRequest struct {
	ItemID     string `json:"itemId"`
	AssignedTo string `json:"assignedTo"`
}

type statusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type assignRequest struct {
	Items []ChefAssignmentRequest `json:"items"`
}

// FactoryOrders lists all production orders.
func (c *Client) FactoryOrders(ctx context.Context) ([]orders.Payload, error) {
	return c.list(ctx, "factory-orders")
}

func (c *Client) CreateFactoryOrder(ctx context.Context, req CreateFactoryOrderRequest) (orders.Payload, error) {
	return c.mutate(func() (*apt.SuccessResponse, error) {
		return c.api.Create(ctx, "factory-orders", req)
	})
}

func (c *Client) ApproveFactoryOrder(ctx context.Context, id string) (orders.Payload, error) {
	return c.patch(ctx, factoryPath(id, "approve"), nil)
}

func (c *Client) UpdateFactoryOrderStatus(ctx context.Context, id, status, notes string) (orders.Payload, error) {
	return c.patch(ctx, factoryPath(id, "status"), statusRequest{Status: status, Notes: notes})
}

func (c *Client) AssignChefs(ctx context.Context, id string, items []ChefAssignmentRequest) (orders.Payload, error) {
	return c.patch(ctx, factoryPath(id, "assign"), assignRequest{Items: items})
}

func (c *Client) UpdateItemStatus(ctx context.Context, orderID, itemID, status string) (orders.Payload, error) {
	path := factoryPath(orderID, fmt.Sprintf("items/%s/status", url.PathEscape(itemID)))
	return c.patch(ctx, path, statusRequest{Status: status})
}

func (c *Client) ConfirmProduction(ctx context.Context, id string) (orders.Payload, error) {
	return c.patch(ctx, factoryPath(id, "confirm-production"), nil)
}

func (c *Client) patch(ctx context.Context, path string, body interface{}) (orders.Payload, error) {
	return c.mutate(func() (*apt.SuccessResponse, error) {
		return c.api.Request(ctx, "PATCH", path, body)
	})
}

func (c *Client) mutate(fn func() (*apt.SuccessResponse, error)) (orders.Payload, error) {
	resp, err := c.call(fn)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Data == nil {
		return orders.Payload{}, nil
	}
	return decodeObject(resp)
}

func factoryPath(id, action string) string {
	return fmt.Sprintf("/factory-orders/%s/%s", url.PathEscape(id), action)
}
