package billing

import (
	"github.com/jhoicas/Facturador-api/internal/application/dto"
	"github.com/jhoicas/Facturador-api/internal/application/inventory"
	domainbilling "github.com/jhoicas/Facturador-api/internal/domain/billing"
	"github.com/jhoicas/Facturador-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toItemResponses(items []entity.SaleItem) []dto.SaleItemResponse {
	out := make([]dto.SaleItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.SaleItemResponse{
			ProductID:    it.ProductID,
			Name:         it.Name,
			HSN:          it.HSN,
			Category:     it.Category,
			SellingPrice: it.SellingPrice,
			TaxRate:      it.TaxRate,
			Quantity:     it.Quantity,
			Taxable:      domainbilling.LineBase(it),
			Tax:          domainbilling.LineTax(it),
			Amount:       domainbilling.LineAmount(it),
		})
	}
	return out
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	var itemCount int64
	for _, it := range s.Items {
		itemCount += it.Quantity
	}
	resp := &dto.SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		Customer: dto.SaleCustomerDTO{
			ID:              s.Customer.ID,
			Name:            s.Customer.Name,
			Phone:           s.Customer.Phone,
			Email:           s.Customer.Email,
			GSTIN:           s.Customer.GSTIN,
			CompanyName:     s.Customer.CompanyName,
			BillingAddress:  s.Customer.BillingAddress,
			ShippingAddress: s.Customer.ShippingAddress,
		},
		InvoiceDate: s.InvoiceDate.Format(dateLayout),
		Items:       toItemResponses(s.Items),
		Reference:   s.Reference,
		Notes:       s.Notes,
		BankDetails: dto.BankDetailsDTO{
			BankName:      s.BankDetails.BankName,
			IFSC:          s.BankDetails.IFSC,
			AccountNumber: s.BankDetails.AccountNumber,
			Branch:        s.BankDetails.Branch,
		},
		ItemCount: itemCount,
		Subtotal:  s.Subtotal,
		TaxTotal:  s.TaxTotal,
		RoundOff:  s.RoundOff,
		Total:     s.Total,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if !s.DueDate.IsZero() {
		resp.DueDate = s.DueDate.Format(dateLayout)
	}
	return resp
}

func toStockSummary(res *inventory.Result) *dto.StockSummaryDTO {
	if res == nil {
		return nil
	}
	out := &dto.StockSummaryDTO{
		TransactionID: res.TransactionID,
		Changes:       make([]dto.StockChangeDTO, 0, len(res.Applied)),
		Skipped:       res.Skipped,
	}
	for _, ch := range res.Applied {
		out.Changes = append(out.Changes, dto.StockChangeDTO{
			ProductID: ch.ProductID,
			Kind:      ch.Kind,
			Before:    ch.Before,
			After:     ch.After,
		})
	}
	return out
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:              c.ID,
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		GSTIN:           c.GSTIN,
		CompanyName:     c.CompanyName,
		BillingAddress:  c.BillingAddress,
		ShippingAddress: c.ShippingAddress,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
