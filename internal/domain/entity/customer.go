package entity

import "time"

// Customer representa un cliente de facturación.
type Customer struct {
	ID              int64
	Name            string
	Phone           string
	Email           string
	GSTIN           string // identificación tributaria
	CompanyName     string
	BillingAddress  string
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone devuelve una copia independiente del cliente.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
