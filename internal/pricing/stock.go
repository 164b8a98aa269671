package pricing

// QuantityOf returns the quantity of the given product currently in the cart,
// or 0 when the cart has no line for it.
func QuantityOf(productID string, cart []CartLine) int {
	for _, line := range cart {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

// RemainingStock reports how many sellable units are left for the product
// given the current cart. The result may be negative transiently; callers
// must treat anything <= 0 as unavailable. Stock itself is never mutated
// here, only a real fulfillment process decrements it.
func RemainingStock(product Product, cart []CartLine) int {
	return product.Stock - QuantityOf(product.ID, cart)
}
