package orders

import (
	"time"

	"github.com/AliCapone21/nonkabob-guliston/pkg/db/models"
	"github.com/AliCapone21/nonkabob-guliston/pkg/enums"
)

// OrderItemDTO is one immutable line of a placed order.
type OrderItemDTO struct {
	ID          int64  `json:"id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
}

// OrderDTO is the transport shape of an order with its items.
type OrderDTO struct {
	ID               int64             `json:"id"`
	Status           enums.OrderStatus `json:"status"`
	TotalPrice       int64             `json:"total_price"`
	CustomerName     string            `json:"customer_name"`
	CustomerPhone    string            `json:"customer_phone"`
	DeliveryLocation string            `json:"delivery_location,omitempty"`
	TelegramUserID   int64             `json:"telegram_user_id"`
	Items            []OrderItemDTO    `json:"items"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// OrderPageDTO is one cursor page of a customer's order history.
type OrderPageDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func FromModel(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
		})
	}

	return OrderDTO{
		ID:               o.ID,
		Status:           o.Status,
		TotalPrice:       o.TotalPrice,
		CustomerName:     o.CustomerName,
		CustomerPhone:    o.CustomerPhone,
		DeliveryLocation: o.DeliveryLocation,
		TelegramUserID:   o.TelegramUserID,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func fromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, FromModel(&orders[i]))
	}
	return out
}
