package party

import "strings"

// RoleClassifier infers a party role from a free-text commission label.
type RoleClassifier interface {
	Classify(label string) string
}

// LabelClassifier matches role keywords in the label, most specific first:
// "Vendor Agent", "Designer", "Stitching", "Buyer Agent", any other "Agent", else vendor.
// Matching is case-sensitive.
type LabelClassifier struct{}

func (LabelClassifier) Classify(label string) string {
	switch {
	case strings.Contains(label, "Vendor Agent"):
		return RoleVendorAgent
	case strings.Contains(label, "Designer"):
		return RoleDesigner
	case strings.Contains(label, "Stitching"):
		return RoleStitchingMaster
	case strings.Contains(label, "Buyer Agent"):
		return RoleBuyerAgent
	case strings.Contains(label, "Agent"):
		return RoleVendorAgent
	default:
		return RoleVendor
	}
}

// DisplayName strips a trailing parenthetical role suffix, so "Ramesh (Vendor Agent)"
// becomes "Ramesh". A label that is only a parenthetical is returned trimmed.
func DisplayName(label string) string {
	label = strings.TrimSpace(label)
	if !strings.HasSuffix(label, ")") {
		return label
	}
	open := strings.LastIndex(label, "(")
	if open <= 0 {
		return label
	}
	if name := strings.TrimSpace(label[:open]); name != "" {
		return name
	}
	return label
}
