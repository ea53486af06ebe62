package store

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/foodhub/internal/model"
)

var validate = validator.New()

// Issue describes a loaded row that was excluded from the working snapshot.
type Issue struct {
	Table  string
	Key    string
	Reason string
}

// Quarantine returns a copy of s without rows that break the dataset
// invariants: field constraints, dangling references, and duplicate keys.
// Rows are checked parents first, so children of a dropped row go too.
func Quarantine(s *model.Snapshot) (*model.Snapshot, []Issue) {
	var issues []Issue
	reject := func(table, key, reason string) {
		issues = append(issues, Issue{Table: table, Key: key, Reason: reason})
	}

	clean := &model.Snapshot{}

	providers := map[string]bool{}
	for _, p := range s.Providers {
		if err := validate.Struct(p); err != nil {
			reject("providers", p.ID, describe(err))
			continue
		}
		if providers[p.ID] {
			reject("providers", p.ID, "duplicate id")
			continue
		}
		providers[p.ID] = true
		clean.Providers = append(clean.Providers, p)
	}

	foods := map[string]bool{}
	for _, f := range s.FoodItems {
		if err := validate.Struct(f); err != nil {
			reject("food_items", f.ID, describe(err))
			continue
		}
		if foods[f.ID] {
			reject("food_items", f.ID, "duplicate id")
			continue
		}
		foods[f.ID] = true
		clean.FoodItems = append(clean.FoodItems, f)
	}

	type stockKey struct{ provider, food string }
	rows := map[stockKey]bool{}
	for _, r := range s.Inventory {
		key := r.ProviderID + "/" + r.FoodID
		if err := validate.Struct(r); err != nil {
			reject("inventory", key, describe(err))
			continue
		}
		if !providers[r.ProviderID] || !foods[r.FoodID] {
			reject("inventory", key, "unknown provider or food")
			continue
		}
		k := stockKey{r.ProviderID, r.FoodID}
		if rows[k] {
			reject("inventory", key, "duplicate provider/food pair")
			continue
		}
		rows[k] = true
		clean.Inventory = append(clean.Inventory, r)
	}

	orders := map[string]bool{}
	for _, o := range s.Orders {
		if err := validate.Struct(o); err != nil {
			reject("orders", o.ID, describe(err))
			continue
		}
		if !providers[o.ProviderID] {
			reject("orders", o.ID, "unknown provider "+strconv.Quote(o.ProviderID))
			continue
		}
		if orders[o.ID] {
			reject("orders", o.ID, "duplicate id")
			continue
		}
		orders[o.ID] = true
		clean.Orders = append(clean.Orders, o)
	}

	for _, it := range s.OrderItems {
		key := it.OrderID + "/" + it.FoodID
		if err := validate.Struct(it); err != nil {
			reject("order_items", key, describe(err))
			continue
		}
		if !orders[it.OrderID] || !foods[it.FoodID] {
			reject("order_items", key, "unknown order or food")
			continue
		}
		clean.OrderItems = append(clean.OrderItems, it)
	}

	return clean, issues
}

func describe(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}
