package cartstore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCartAdd(t *testing.T) {
	tests := []struct {
		name string
		adds []CartItem
		want []CartItem
	}{
		{
			name: "new products keep insertion order",
			adds: []CartItem{{"b", 1}, {"a", 2}, {"c", 3}},
			want: []CartItem{{"b", 1}, {"a", 2}, {"c", 3}},
		},
		{
			name: "existing product is merged",
			adds: []CartItem{{"1", 1}, {"2", 5}, {"1", 1}},
			want: []CartItem{{"1", 2}, {"2", 5}},
		},
		{
			name: "empty product id is an ordinary key",
			adds: []CartItem{{"", 1}, {"", 4}},
			want: []CartItem{{"", 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart("user")
			for _, a := range tt.adds {
				if !c.Add(a.ProductID, a.Quantity) {
					t.Fatalf("Add(%q, %d) = false", a.ProductID, a.Quantity)
				}
			}
			if diff := cmp.Diff(tt.want, c.Items); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCartAddOverflow(t *testing.T) {
	c := NewCart("user")
	c.Add("p", MaxQuantity-1)
	if !c.Add("p", 1) {
		t.Fatal("reaching MaxQuantity must succeed")
	}
	if c.Add("p", 1) {
		t.Fatal("exceeding MaxQuantity must fail")
	}
	if got := c.Quantity("p"); got != MaxQuantity {
		t.Errorf("Quantity = %d, want %d", got, MaxQuantity)
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	c := NewCart("user")
	c.Add("p", 1)
	clone := c.Clone()
	clone.Add("p", 1)
	clone.Add("q", 1)

	if got := c.Quantity("p"); got != 1 {
		t.Errorf("cloned-from cart quantity changed to %d", got)
	}
	if got := clone.TotalQuantity(); got != 3 {
		t.Errorf("clone TotalQuantity = %d, want 3", got)
	}
}
