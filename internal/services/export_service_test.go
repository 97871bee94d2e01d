package services_test

import (
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func TestExportService_ExportProducts(t *testing.T) {
	products := new(MockProductRepository)
	service := services.NewExportService(products, new(MockOrderRepository))
	products.On("GetAll").Return([]models.Product{
		{ID: "p1", Name: "Lamp", Category: "Home & Kitchen", Price: 200, Discount: 10, DiscountedPrice: 180, Stock: 4, Images: []string{"a.jpg", "b.jpg"}},
	}, nil).Once()

	data, err := service.ExportProducts()
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	sheet := file.Sheet["Products"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "ID", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Lamp", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "a.jpg,b.jpg", sheet.Rows[1].Cells[8].Value)
}

func TestExportService_ExportOrders(t *testing.T) {
	orders := new(MockOrderRepository)
	service := services.NewExportService(new(MockProductRepository), orders)
	delivered := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	orders.On("GetAll").Return([]models.Order{
		{
			ID: "o1", UserID: "u1", Status: models.StatusDelivered, ItemsPrice: 600, TotalPrice: 600, DeliveredAt: &delivered,
			Items: []models.OrderItem{{ProductID: "p1", Name: "Lamp", Quantity: 3, Price: 200}},
		},
		{ID: "o2", UserID: "u2", Status: models.StatusPending},
	}, nil).Once()

	data, err := service.ExportOrders()
	require.NoError(t, err)

	file, err := xlsx.OpenBinary(data)
	require.NoError(t, err)
	require.Len(t, file.Sheet["Orders"].Rows, 3)
	require.Len(t, file.Sheet["OrderItems"].Rows, 2)
	assert.Equal(t, "Delivered", file.Sheet["Orders"].Rows[1].Cells[2].Value)
	assert.Equal(t, "2026-02-01 10:00:00", file.Sheet["Orders"].Rows[1].Cells[9].Value)
	assert.Equal(t, "o1", file.Sheet["OrderItems"].Rows[1].Cells[0].Value)
}
