package models

// Snapshot is every source collection the engine reads, fetched in one go.
type Snapshot struct {
	Orders   []Order          `json:"orders"`
	Vendors  []Vendor         `json:"vendors"`
	Buyers   []Buyer          `json:"buyers"`
	Expenses []Expense        `json:"expenses"`
	Products []LegacyPurchase `json:"products"`
	Settings *CompanySettings `json:"settings,omitempty"`
}

// DropDeleted removes soft-deleted orders in place and returns how many were dropped.
func (s *Snapshot) DropDeleted() int {
	live := s.Orders[:0]
	for _, o := range s.Orders {
		if !o.IsDeleted() {
			live = append(live, o)
		}
	}
	dropped := len(s.Orders) - len(live)
	s.Orders = live
	return dropped
}

// EffectiveSettings returns the stored settings, or the defaults when none were saved.
func (s *Snapshot) EffectiveSettings() CompanySettings {
	if s == nil || s.Settings == nil {
		return DefaultSettings()
	}
	return *s.Settings
}
