package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line is one purchasable selection. Its identity is the composite CartID
// built from product, variant and size ids; two lines with the same CartID
// never coexist.
type Line struct {
	CartID       string          `json:"cart_id"`
	ProductID    int64           `json:"product_id"`
	VariantID    int64           `json:"product_variant_id"`
	SizeID       int64           `json:"product_variant_size_id"`
	Name         string          `json:"name,omitempty"`
	Image        string          `json:"image,omitempty"`
	VariantLabel string          `json:"variant_label,omitempty"`
	SizeLabel    string          `json:"size_label,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// State is the full serialized cart: lines in insertion order plus the
// drawer visibility flag.
type State struct {
	Lines []Line `json:"lines"`
	Open  bool   `json:"open"`
}

// Item carries the product data supplied when a shopper adds a selection.
type Item struct {
	ProductID    int64
	VariantID    int64
	SizeID       int64
	Name         string
	Image        string
	VariantLabel string
	SizeLabel    string
	UnitPrice    decimal.Decimal
}

// LineKey builds the composite cart id. Ids below zero degrade to 0 ("no
// selection") rather than erroring.
func LineKey(productID, variantID, sizeID int64) string {
	return fmt.Sprintf("%d-%d-%d", normalizeID(productID), normalizeID(variantID), normalizeID(sizeID))
}

func normalizeID(id int64) int64 {
	if id < 0 {
		return 0
	}
	return id
}

// resolveVariant picks the explicit variant argument first, then the id
// embedded on the item, then 0.
func resolveVariant(item Item, variantID int64) int64 {
	if variantID > 0 {
		return variantID
	}
	if item.VariantID > 0 {
		return item.VariantID
	}
	return 0
}

// add merges the selection into the state: an existing line with the same
// composite key gains quantity 1, otherwise a new line is appended.
func add(s State, item Item, variantID int64) State {
	variant := resolveVariant(item, variantID)
	size := normalizeID(item.SizeID)
	key := LineKey(item.ProductID, variant, size)

	next := cloneState(s)
	for i := range next.Lines {
		if next.Lines[i].CartID == key {
			next.Lines[i].Quantity++
			return next
		}
	}

	next.Lines = append(next.Lines, Line{
		CartID:       key,
		ProductID:    normalizeID(item.ProductID),
		VariantID:    variant,
		SizeID:       size,
		Name:         item.Name,
		Image:        item.Image,
		VariantLabel: item.VariantLabel,
		SizeLabel:    item.SizeLabel,
		UnitPrice:    item.UnitPrice,
		Quantity:     1,
	})
	return next
}

// remove deletes the line with the given composite key. No-op when absent.
func remove(s State, cartID string) State {
	next := cloneState(s)
	lines := next.Lines[:0]
	for _, line := range next.Lines {
		if line.CartID != cartID {
			lines = append(lines, line)
		}
	}
	next.Lines = lines
	return next
}

// increase bumps the quantity of the matching line. No-op when absent.
func increase(s State, cartID string) State {
	next := cloneState(s)
	for i := range next.Lines {
		if next.Lines[i].CartID == cartID {
			next.Lines[i].Quantity++
			break
		}
	}
	return next
}

// decrease lowers the quantity of the matching line; a line at quantity 1 is
// removed outright since quantity 0 is not a valid line state.
func decrease(s State, cartID string) State {
	for _, line := range s.Lines {
		if line.CartID == cartID {
			if line.Quantity > 1 {
				next := cloneState(s)
				for i := range next.Lines {
					if next.Lines[i].CartID == cartID {
						next.Lines[i].Quantity--
					}
				}
				return next
			}
			return remove(s, cartID)
		}
	}
	return cloneState(s)
}

// clear drops every line but preserves the visibility flag.
func clear(s State) State {
	return State{Lines: []Line{}, Open: s.Open}
}

// TotalItems sums quantities across all lines, not the line count.
func (s State) TotalItems() int {
	total := 0
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity. A zero-valued price contributes
// nothing; it never propagates as an error.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Find returns the line with the given composite key, if present.
func (s State) Find(cartID string) (Line, bool) {
	for _, line := range s.Lines {
		if line.CartID == cartID {
			return line, true
		}
	}
	return Line{}, false
}

func cloneState(s State) State {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return State{Lines: lines, Open: s.Open}
}
