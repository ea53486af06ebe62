package model

// Snapshot is the whole dataset, loaded and saved as one unit.
type Snapshot struct {
	Providers  []Provider     `json:"providers"`
	FoodItems  []FoodItem     `json:"food_items"`
	Inventory  []InventoryRow `json:"provider_inventory"`
	Orders     []Order        `json:"orders"`
	OrderItems []OrderItem    `json:"order_items"`
}

// Empty reports whether the snapshot holds no catalog data yet.
func (s *Snapshot) Empty() bool {
	return len(s.Providers) == 0 && len(s.FoodItems) == 0
}

// Clone returns a deep copy, so a failed mutation never leaks into the caller's copy.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		Providers:  append([]Provider(nil), s.Providers...),
		FoodItems:  append([]FoodItem(nil), s.FoodItems...),
		Inventory:  append([]InventoryRow(nil), s.Inventory...),
		Orders:     make([]Order, len(s.Orders)),
		OrderItems: append([]OrderItem(nil), s.OrderItems...),
	}
	for i, o := range s.Orders {
		if o.PickedAt != nil {
			t := *o.PickedAt
			o.PickedAt = &t
		}
		o.Items = append([]OrderLine(nil), o.Items...)
		c.Orders[i] = o
	}
	return c
}

// Provider returns the hub with the given ID.
func (s *Snapshot) Provider(id string) (*Provider, bool) {
	for i := range s.Providers {
		if s.Providers[i].ID == id {
			return &s.Providers[i], true
		}
	}
	return nil, false
}

// Food returns the food item with the given ID.
func (s *Snapshot) Food(id string) (*FoodItem, bool) {
	for i := range s.FoodItems {
		if s.FoodItems[i].ID == id {
			return &s.FoodItems[i], true
		}
	}
	return nil, false
}

// Order returns the order with the given ID.
func (s *Snapshot) Order(id string) (*Order, bool) {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i], true
		}
	}
	return nil, false
}

// ItemsOf returns the items of an order in insertion order.
func (s *Snapshot) ItemsOf(orderID string) []OrderItem {
	var items []OrderItem
	for _, it := range s.OrderItems {
		if it.OrderID == orderID {
			items = append(items, it)
		}
	}
	return items
}
