package workflow

import (
	"fmt"

	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
)

// Eligible returns the chefs allowed to produce item: chefs of the item's
// department, or every chef when the department is unknown. A lone chef is
// always eligible.
func Eligible(chefs []orders.Chef, item orders.OrderItem) []orders.Chef {
	if len(chefs) == 1 {
		return chefs
	}
	dept := item.Department.ID
	if dept == "" {
		return chefs
	}
	var out []orders.Chef
	for _, c := range chefs {
		if c.Department.ID == dept {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) chefFor(item orders.OrderItem, chefID string) (orders.Chef, error) {
	eligible := Eligible(s.Reference().Chefs, item)

	if chefID == "" {
		if len(eligible) == 1 {
			return eligible[0], nil
		}
		return orders.Chef{}, fmt.Errorf("%w: no default chef for item %s", ErrChefNotEligible, item.ItemID)
	}

	for _, c := range eligible {
		if c.ID == chefID || c.UserID == chefID {
			return c, nil
		}
	}
	return orders.Chef{}, fmt.Errorf("%w: chef %s for item %s", ErrChefNotEligible, chefID, item.ItemID)
}

func (s *Service) checkChefForProduct(chefID, productID string) error {
	ref := s.Reference()
	item := orders.OrderItem{ItemID: productID}
	for _, p := range ref.Products {
		if p.ID == productID {
			item.Department = p.Department
			break
		}
	}
	_, err := s.chefFor(item, chefID)
	return err
}
