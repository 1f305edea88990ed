package cartstore

import "math"

// MaxQuantity is the largest quantity a single cart item can hold.
const MaxQuantity = math.MaxInt32

// CartItem is a product and how many of it are in the cart.
type CartItem struct {
	ProductID string
	Quantity  int32
}

// Cart is the set of items a user has added. Items keep first-add order.
type Cart struct {
	UserID string
	Items  []CartItem
}

// NewCart returns an empty cart for userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}

// Add merges quantity into the item for productID, appending a new item if the
// product is not in the cart yet. The cart is left unchanged and false is
// returned if the resulting quantity would not fit in an int32.
func (c *Cart) Add(productID string, quantity int32) bool {
	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		if int64(c.Items[i].Quantity)+int64(quantity) > MaxQuantity {
			return false
		}
		c.Items[i].Quantity += quantity
		return true
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
	return true
}

// Quantity returns the quantity held for productID, or 0.
func (c Cart) Quantity(productID string) int32 {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// TotalQuantity sums the quantities of all items.
func (c Cart) TotalQuantity() int64 {
	var total int64
	for _, item := range c.Items {
		total += int64(item.Quantity)
	}
	return total
}

// Clone returns a deep copy of the cart.
func (c Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{UserID: c.UserID, Items: items}
}
