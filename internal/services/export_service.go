package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"storefront/internal/repositories"

	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportService renders catalog and order data as xlsx workbooks.
type ExportService struct {
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewExportService creates a new ExportService.
func NewExportService(productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) *ExportService {
	return &ExportService{productRepo: productRepo, orderRepo: orderRepo}
}

// ExportProducts returns a workbook with one row per product.
func (s *ExportService) ExportProducts() ([]byte, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load products for export: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("failed to create products sheet: %w", err)
	}
	addHeader(sheet, "ID", "Name", "Category", "Brand", "Price", "Discount", "DiscountedPrice", "Stock", "Images", "CreatedAt")

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetFloat(p.Discount)
		row.AddCell().SetFloat(p.DiscountedPrice)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(strings.Join(p.Images, ","))
		row.AddCell().SetString(p.CreatedAt.Format(exportTimeLayout))
	}
	return write(file)
}

// ExportOrders returns a workbook with an order sheet and a line item sheet.
func (s *ExportService) ExportOrders() ([]byte, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for export: %w", err)
	}

	file := xlsx.NewFile()
	orderSheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("failed to create orders sheet: %w", err)
	}
	itemSheet, err := file.AddSheet("OrderItems")
	if err != nil {
		return nil, fmt.Errorf("failed to create order items sheet: %w", err)
	}
	addHeader(orderSheet, "ID", "User", "Status", "ItemsPrice", "ShippingPrice", "TotalPrice", "PaymentID", "City", "CreatedAt", "DeliveredAt")
	addHeader(itemSheet, "OrderID", "Product", "Name", "Quantity", "Price")

	for _, o := range orders {
		row := orderSheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.UserID)
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetFloat(o.ItemsPrice)
		row.AddCell().SetFloat(o.ShippingPrice)
		row.AddCell().SetFloat(o.TotalPrice)
		row.AddCell().SetString(o.PaymentInfo.PaymentID)
		row.AddCell().SetString(o.ShippingAddress.City)
		row.AddCell().SetString(o.CreatedAt.Format(exportTimeLayout))
		row.AddCell().SetString(formatOptionalTime(o.DeliveredAt))

		for _, item := range o.Items {
			itemRow := itemSheet.AddRow()
			itemRow.AddCell().SetString(o.ID)
			itemRow.AddCell().SetString(item.ProductID)
			itemRow.AddCell().SetString(item.Name)
			itemRow.AddCell().SetInt(item.Quantity)
			itemRow.AddCell().SetFloat(item.Price)
		}
	}
	return write(file)
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, title := range titles {
		row.AddCell().SetString(title)
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportTimeLayout)
}

func write(file *xlsx.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
