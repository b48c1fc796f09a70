package services

import (
	"testing"

	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Currency{},
		&models.PaymentMethod{},
		&models.OrderState{},
		&models.Salesperson{},
		&models.Client{},
		&models.Supplier{},
		&models.ProductType{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Item{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedClient(t *testing.T, db *gorm.DB, cliCod string) models.Client {
	t.Helper()
	name := "Cliente " + cliCod
	dir := "Av. Siempre Viva 123"
	ruc := "211234560011"
	client := models.Client{CliCod: cliCod, CliNom: &name, CliDir: &dir, CliRuc: &ruc}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func TestCreateOrderComputesNextKeysAndLines(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	input := OrderInput{
		CliCod: strPtr("CLI001"),
		OrdFec: strPtr("2024-03-15"),
		OrderProduct: []OrderLineInput{
			{
				ProdCod:    "P1",
				OrdProdCan: 2,
				ProdCost:   floatPtr(100),
				ProdVent:   floatPtr(150),
			},
		},
	}

	result, err := svc.CreateOrder(input)
	require.NoError(t, err)

	assert.Equal(t, 1, result.OrdCod)
	require.Len(t, result.Products, 1)
	line := result.Products[0]
	assert.Equal(t, 1, line.OrdProdCod)
	assert.Equal(t, "P1", line.ProdCod)
	assert.Equal(t, 2, line.OrdProdCan)
	assert.Equal(t, 100.0, *line.ProdCost)
	assert.Equal(t, 150.0, *line.ProdVent)
	assert.Empty(t, result.Items)

	// Unknown product code got a placeholder catalog row
	var product models.Product
	require.NoError(t, db.First(&product, "prodcod = ?", "P1").Error)
	assert.Equal(t, models.PlaceholderProductName, *product.ProdNom)

	detail, err := svc.GetOrder(result.OrdCod)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.ProductCant)
	require.Len(t, detail.Products, 1)
	assert.Equal(t, "2024-03-15", *detail.OrdFec)
}

func TestCreateOrderSequentialLineKeys(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	result, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrderProduct: []OrderLineInput{
			{ProdCod: "P1", OrdProdCan: 1},
			{ProdCod: "P2", OrdProdCan: 3},
			{ProdCod: "P3", OrdProdCan: 5},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Products, 3)
	assert.Equal(t, 1, result.Products[0].OrdProdCod)
	assert.Equal(t, 2, result.Products[1].OrdProdCod)
	assert.Equal(t, 3, result.Products[2].OrdProdCod)

	// A second order continues numbering from the previous max
	second, err := svc.CreateOrder(OrderInput{
		CliCod:       strPtr("CLI001"),
		OrderProduct: []OrderLineInput{{ProdCod: "P1", OrdProdCan: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.OrdCod)
	assert.Equal(t, 4, second.Products[0].OrdProdCod)
}

func TestCreateOrderUnknownClient(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.CreateOrder(OrderInput{CliCod: strPtr("NOPE")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrderItemsLinkedToLines(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	result, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrderProduct: []OrderLineInput{
			{
				ProdCod:    "P1",
				OrdProdCan: 2,
				Items: []ItemInput{
					{NumSerie: strPtr("SN-1"), ItemGar: strPtr("2025-06-30")},
					{NumSerie: strPtr("SN-2")},
				},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	for _, item := range result.Items {
		require.NotNil(t, item.OrdProdCod)
		assert.Equal(t, result.Products[0].OrdProdCod, *item.OrdProdCod)
		assert.Equal(t, "P1", item.ProdCod)
	}

	detail, err := svc.GetOrder(result.OrdCod)
	require.NoError(t, err)
	require.Len(t, detail.Products, 1)
	require.Len(t, detail.Products[0].Items, 2)
	assert.Equal(t, "2025-06-30", *detail.Products[0].Items[0].ItemGar)
}

func TestGetOrderWithoutLinesReturnsEmptyProducts(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	created, err := svc.CreateOrder(OrderInput{CliCod: strPtr("CLI001")})
	require.NoError(t, err)

	detail, err := svc.GetOrder(created.OrdCod)
	require.NoError(t, err)
	assert.NotNil(t, detail)
	assert.Empty(t, detail.Products)
	assert.Equal(t, 0, detail.ProductCant)
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.GetOrder(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOrderResolvesReferenceNames(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	require.NoError(t, db.Create(&models.OrderState{EstCod: 1, EstNom: strPtr("Pendiente")}).Error)
	require.NoError(t, db.Create(&models.Currency{MonCod: 2, MonNom: strPtr("Dolares")}).Error)
	require.NoError(t, db.Create(&models.PaymentMethod{PagoCod: 3, PagoNom: strPtr("Contado")}).Error)
	require.NoError(t, db.Create(&models.Salesperson{VendCod: "V1", VendNom: strPtr("Gonzalo")}).Error)

	created, err := svc.CreateOrder(OrderInput{
		CliCod:  strPtr("CLI001"),
		VendCod: strPtr("V1"),
		EstCod:  intPtr(1),
		MonCod:  intPtr(2),
		PagoCod: intPtr(3),
	})
	require.NoError(t, err)

	detail, err := svc.GetOrder(created.OrdCod)
	require.NoError(t, err)
	assert.Equal(t, "Pendiente", detail.EstNom)
	assert.Equal(t, "Dolares", *detail.MonNom)
	assert.Equal(t, "Contado", *detail.PagoNom)
	assert.Equal(t, "Gonzalo", detail.VendNom)
	assert.Equal(t, "Cliente CLI001", detail.CliNom)
}

func TestUpdateOrderReplacesLineSet(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	created, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrderProduct: []OrderLineInput{
			{ProdCod: "P1", OrdProdCan: 1, Items: []ItemInput{{NumSerie: strPtr("SN-OLD")}}},
			{ProdCod: "P2", OrdProdCan: 2},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(created.OrdCod, OrderInput{
		CliCod: strPtr("CLI001"),
		OrdMon: floatPtr(500),
		OrderProduct: []OrderLineInput{
			{ProdCod: "P3", OrdProdCan: 7},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Products, 1)
	assert.Equal(t, "P3", updated.Products[0].ProdCod)
	assert.Equal(t, 500.0, *updated.OrdMon)

	// Old lines are gone; the new key is recomputed from what remains in
	// the table, not carried over from the replaced set
	var lines []models.OrderLine
	require.NoError(t, db.Where("ordcod = ?", created.OrdCod).Find(&lines).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].OrdProdCod)

	// Items attached to the replaced lines were deleted too
	var count int64
	require.NoError(t, db.Model(&models.Item{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateOrderNotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.UpdateOrder(42, OrderInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrdersRemovesLinesAndItems(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	created, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrderProduct: []OrderLineInput{
			{ProdCod: "P1", OrdProdCan: 1, Items: []ItemInput{{NumSerie: strPtr("SN-1")}}},
			{ProdCod: "P2", OrdProdCan: 1},
		},
	})
	require.NoError(t, err)

	deletedOrders, deletedLines, err := svc.DeleteOrders([]int{created.OrdCod})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deletedOrders)
	assert.Equal(t, int64(2), deletedLines)

	var itemCount int64
	require.NoError(t, db.Model(&models.Item{}).Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	_, err = svc.GetOrder(created.OrdCod)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrdersNotFound(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)

	_, _, err := svc.DeleteOrders([]int{77})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateOrderIsIndependent(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	created, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrdMon: floatPtr(300),
		OrderProduct: []OrderLineInput{
			{ProdCod: "P1", OrdProdCan: 2, Items: []ItemInput{{NumSerie: strPtr("SN-1")}}},
		},
	})
	require.NoError(t, err)

	cloneCod, err := svc.DuplicateOrder(created.OrdCod)
	require.NoError(t, err)
	assert.NotEqual(t, created.OrdCod, cloneCod)

	cloneDetail, err := svc.GetOrder(cloneCod)
	require.NoError(t, err)
	require.Len(t, cloneDetail.Products, 1)
	assert.Equal(t, "P1", cloneDetail.Products[0].ProdCod)
	require.Len(t, cloneDetail.Products[0].Items, 1)

	// Deleting the clone leaves the source untouched
	_, _, err = svc.DeleteOrders([]int{cloneCod})
	require.NoError(t, err)

	sourceDetail, err := svc.GetOrder(created.OrdCod)
	require.NoError(t, err)
	require.Len(t, sourceDetail.Products, 1)
	require.Len(t, sourceDetail.Products[0].Items, 1)
}

func TestListOrdersExcludesCancelled(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	active, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrdMon: floatPtr(150),
		OrdCos: floatPtr(100),
		OrdCom: floatPtr(5),
	})
	require.NoError(t, err)

	cancelled, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		EstCod: intPtr(models.EstCodCancelled),
	})
	require.NoError(t, err)

	summaries, err := svc.ListOrders()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, active.OrdCod, summaries[0].OrdCod)
	require.NotNil(t, summaries[0].ProfitPercentage)
	assert.InDelta(t, 50.0, *summaries[0].ProfitPercentage, 0.001)

	// A cancelled order is still readable by key
	detail, err := svc.GetOrder(cancelled.OrdCod)
	require.NoError(t, err)
	assert.Equal(t, models.EstCodCancelled, *detail.EstCod)
}

func TestListOrdersProfitOmittedWhenCostMissing(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := NewOrderService(db)
	seedClient(t, db, "CLI001")

	_, err := svc.CreateOrder(OrderInput{
		CliCod: strPtr("CLI001"),
		OrdMon: floatPtr(150),
	})
	require.NoError(t, err)

	summaries, err := svc.ListOrders()
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].ProfitPercentage)
	assert.Equal(t, notAvailable, summaries[0].Ruc)
}
