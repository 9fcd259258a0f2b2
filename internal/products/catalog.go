package products

import (
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
)

// Category groups menu items for the storefront tabs.
type Category string

const (
	CategoryNonKabob Category = "non_kabob"
	CategoryTea      Category = "tea"
	CategoryCoffee   Category = "coffee"
)

// Product is one menu entry. Prices are integer so'm.
type Product struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Image    string   `json:"image"`
	Category Category `json:"category"`
}

// Catalog serves the static menu. The menu changes with deployments, not
// at runtime, so there is no persistence behind it.
type Catalog struct {
	items []Product
	byID  map[int64]Product
}

// NewCatalog builds the catalog from the default menu.
func NewCatalog() *Catalog {
	return newCatalog(menu)
}

func newCatalog(items []Product) *Catalog {
	byID := make(map[int64]Product, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &Catalog{items: items, byID: byID}
}

// List returns every menu item in display order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.items))
	copy(out, c.items)
	return out
}

// ListByCategory filters the menu to one storefront tab.
func (c *Catalog) ListByCategory(category Category) []Product {
	var out []Product
	for _, item := range c.items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}

// FindByID resolves one product or returns a not-found error.
func (c *Catalog) FindByID(id int64) (Product, error) {
	item, ok := c.byID[id]
	if !ok {
		return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return item, nil
}

var menu = []Product{
	{ID: 1, Name: "Tovuq Go'shtli", Price: 25000, Image: "/food/tovuq.jpg", Category: CategoryNonKabob},
	{ID: 2, Name: "Ot Go'shtli", Price: 35000, Image: "/food/ot.jpg", Category: CategoryNonKabob},
	{ID: 3, Name: "Mol Go'shtli", Price: 40000, Image: "/food/mol.jpg", Category: CategoryNonKabob},
	{ID: 4, Name: "Qo'y Go'shtli", Price: 40000, Image: "/food/qoy.jpg", Category: CategoryNonKabob},

	{ID: 10, Name: "Qora / Ko'k Choy", Price: 3000, Image: "/food/qorakokchoy.jpg", Category: CategoryTea},
	{ID: 11, Name: "Limon Choy", Price: 8000, Image: "/food/limonchoy.jpg", Category: CategoryTea},
	{ID: 12, Name: "Malina Limon", Price: 10000, Image: "/food/malinalimon.jpg", Category: CategoryTea},
	{ID: 13, Name: "Limon Imbir", Price: 12000, Image: "/food/limonimbir.jpg", Category: CategoryTea},
	{ID: 14, Name: "Karak Choy", Price: 15000, Image: "/food/karakchoy.jpg", Category: CategoryTea},
	{ID: 15, Name: "Yasmin", Price: 8000, Image: "/food/yasminchoy.jpg", Category: CategoryTea},

	{ID: 20, Name: "Espresso", Price: 9000, Image: "/food/ekspresso.jpg", Category: CategoryCoffee},
	{ID: 21, Name: "Americano", Price: 15000, Image: "/food/americano.jpg", Category: CategoryCoffee},
	{ID: 22, Name: "Cappuccino", Price: 20000, Image: "/food/cappuccino.jpg", Category: CategoryCoffee},
	{ID: 23, Name: "Latte", Price: 20000, Image: "/food/latte.jpg", Category: CategoryCoffee},
	{ID: 24, Name: "Flat White", Price: 25000, Image: "/food/flatwhite.jpg", Category: CategoryCoffee},
}
