package pricing

import "testing"

func TestRemainingStock(t *testing.T) {
	product := Product{ID: "p1", Stock: 5}
	cart := []CartLine{{Product: product, Quantity: 5}}

	if got := RemainingStock(product, cart); got != 0 {
		t.Fatalf("expected remaining 0, got %d", got)
	}
	if got := RemainingStock(Product{ID: "p2", Stock: 3}, cart); got != 3 {
		t.Fatalf("expected full stock for product not in cart, got %d", got)
	}
}

func TestRemainingStockAccounting(t *testing.T) {
	product := Product{ID: "p1", Stock: 7}
	for qty := 0; qty <= 9; qty++ {
		cart := []CartLine{}
		if qty > 0 {
			cart = append(cart, CartLine{Product: product, Quantity: qty})
		}
		if got := RemainingStock(product, cart); got != product.Stock-qty {
			t.Fatalf("remaining %d for quantity %d, want %d", got, qty, product.Stock-qty)
		}
	}
}
