package models

import "time"

// OrderItem captures the immutable snapshot of one product within an order.
type OrderItem struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID     int64  `gorm:"column:order_id;not null;index"`
	ProductName string `gorm:"column:product_name;not null"`
	Quantity    int    `gorm:"column:quantity;not null"`
	Price       int64  `gorm:"column:price;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }
