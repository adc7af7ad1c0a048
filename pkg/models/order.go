package models

import "strings"

// InternalInventoryBuyerID is the buyer id carried by orders that restock our own inventory.
const InternalInventoryBuyerID = "INTERNAL_INVENTORY"

// Order types
const (
	OrderTypeSale     = "sale"
	OrderTypePurchase = "purchase"
)

// Order statuses that matter to the engine. Any other value is a live order.
const (
	OrderStatusCancelled = "cancelled"
	OrderStatusDeleted   = "deleted"
)

// Payment statuses
const (
	PaymentPaid      = "paid"
	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentDelivered = "delivered"
)

// Order is a sales or stock purchase order as stored by the back-office.
type Order struct {
	ID            string `json:"id"`
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
	Date          Date   `json:"date"`
	Type          string `json:"type,omitempty"`
	Status        string `json:"status,omitempty"`

	// Parties
	BuyerID      string `json:"buyerId,omitempty"`
	BuyerName    string `json:"buyerName,omitempty"`
	BuyerGSTIN   string `json:"buyerGstin,omitempty"`
	BuyerAddress string `json:"buyerAddress,omitempty"`
	VendorID     string `json:"vendorId,omitempty"`
	VendorName   string `json:"vendorName,omitempty"`

	Items    []LineItem `json:"items"`
	Subtotal Number     `json:"subtotal"`

	PaymentStatus string `json:"paymentStatus,omitempty"`
	PaymentMethod string `json:"paymentMethod,omitempty"`

	CommissionDistribution []CommissionLine `json:"commissionDistribution,omitempty"`

	// Optional tax overrides
	TaxRate       Number `json:"taxRate"`
	DiscountRate  Number `json:"discountRate"`
	PlaceOfSupply string `json:"placeOfSupply,omitempty"`
}

// IsSale reports whether the order sells to a buyer rather than restocking inventory.
func (o *Order) IsSale() bool {
	return strings.TrimSpace(o.BuyerID) != InternalInventoryBuyerID && o.Type != OrderTypePurchase
}

// IsCancelled reports whether the order was cancelled.
func (o *Order) IsCancelled() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), OrderStatusCancelled)
}

// IsDeleted reports whether the order was soft-deleted.
func (o *Order) IsDeleted() bool {
	return strings.EqualFold(strings.TrimSpace(o.Status), OrderStatusDeleted)
}

// InvoiceRef returns the invoice number, falling back to the order id.
func (o *Order) InvoiceRef() string {
	if ref := strings.TrimSpace(o.InvoiceNumber); ref != "" {
		return ref
	}
	return o.ID
}

// LineItem is one product line of an order.
type LineItem struct {
	Name         string `json:"name"`
	Category     string `json:"category,omitempty"`
	HSN          string `json:"hsn,omitempty"`
	Quantity     Number `json:"quantity"`
	CostPrice    Number `json:"costPrice"`
	SellingPrice Number `json:"sellingPrice"`
}

// CommissionLine assigns part of an order's commission to a labelled party,
// e.g. {"party": "Ramesh (Vendor Agent)", "amount": 500}.
type CommissionLine struct {
	Party  string `json:"party"`
	Amount Number `json:"amount"`
}

// LegacyPurchase is a stock row from the legacy inventory that carries its own cost.
// Rows with an OrderID pointing at a live purchase order are already covered by it.
type LegacyPurchase struct {
	ID         string `json:"id"`
	Date       Date   `json:"date"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Quantity   Number `json:"quantity"`
	CostPrice  Number `json:"costPrice"`
	VendorName string `json:"vendorName,omitempty"`
	OrderID    string `json:"orderId,omitempty"`
}

// Expense is an operational expense recorded outside of orders.
type Expense struct {
	ID            string `json:"id"`
	Date          Date   `json:"date"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	Amount        Number `json:"amount"`
	Payee         string `json:"payee"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// Vendor is a supplier directory entry.
type Vendor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Buyer is a customer directory entry.
type Buyer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
