package services

import (
	"fmt"

	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderService owns the order aggregate: the header, its line items and the
// serialized items attached to each line. All mutations run inside a single
// transaction so a failed step leaves no partial order behind.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an OrderService backed by the given database
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ItemInput is an incoming serialized item nested in an order line
type ItemInput struct {
	NumSerie *string  `json:"numserie"`
	ItemCom  *string  `json:"itemcom"`
	ItemEst  *bool    `json:"itemest"`
	ItemGas  *float64 `json:"itemgas"`
	ItemVen  *float64 `json:"itemven"`
	ItemGar  *string  `json:"itemgar"` // YYYY-MM-DD
}

// OrderLineInput is an incoming order line with its optional serialized items
type OrderLineInput struct {
	ProdCod    string      `json:"prodcod" binding:"required"`
	ProvCod    *string     `json:"provcod"`
	OrdProdCan int         `json:"ordprodcan"`
	ProdCost   *float64    `json:"prodcost"`
	ProdVent   *float64    `json:"prodvent"`
	ProdGast   *float64    `json:"prodgast"`
	Items      []ItemInput `json:"items"`
}

// OrderInput carries the order header fields plus the full line set.
// Dates come in as YYYY-MM-DD strings.
type OrderInput struct {
	OrdFec       *string          `json:"ordfec"`
	OrdFecPro    *string          `json:"ordfecpro"`
	OrdNumFac    *string          `json:"ordnumfac"`
	VendCod      *string          `json:"vendcod"`
	CliCod       *string          `json:"clicod"`
	CliDir       *string          `json:"clidir"`
	OrdCom       *float64         `json:"ordcom"`
	OrdMon       *float64         `json:"ordmon"`
	OrdCos       *float64         `json:"ordcos"`
	OrdNuev      *bool            `json:"ordnuev"`
	PagoCod      *int             `json:"pagocod"`
	EstCod       *int             `json:"estcod"`
	MonCod       *int             `json:"moncod"`
	OrdObs       *string          `json:"ordobs"`
	OrdMar       *string          `json:"ordmar"`
	OrdIns       bool             `json:"ordins"`
	OrdEnt       bool             `json:"ordent"`
	OrdAce       bool             `json:"ordace"`
	OrdRetCli    bool             `json:"ordretcli"`
	OrdRetDec    bool             `json:"ordretdec"`
	OrdEntVen    bool             `json:"ordentven"`
	OrdInsTec    bool             `json:"ordinstec"`
	OrdRev       bool             `json:"ordrev"`
	OrderProduct []OrderLineInput `json:"orderProduct" binding:"dive"`
}

// OrderMutationResult is returned by CreateOrder and UpdateOrder: the stored
// header plus the lines and items as they were written.
type OrderMutationResult struct {
	models.Order
	Products []models.OrderLine `json:"products"`
	Items    []models.Item      `json:"items"`
}

// OrderSummary is one row of the order listing
type OrderSummary struct {
	OrdCod           int      `json:"ordcod"`
	OrdNumFac        *string  `json:"ordnumfac"`
	Vendedor         string   `json:"vendedor"`
	CliNom           string   `json:"clinom"`
	Ruc              string   `json:"ruc"`
	CliRazSoc        string   `json:"clirazsoc"`
	OrdMon           float64  `json:"ordmon"`
	OrdCos           float64  `json:"ordcos"`
	OrdCom           float64  `json:"ordcom"`
	Proposal         *string  `json:"proposal"`
	ProfitPercentage *float64 `json:"profitPercentage"`
}

// ItemResponse is a serialized item with its dates formatted for the API
type ItemResponse struct {
	ItemCod  int      `json:"itemcod"`
	NumSerie *string  `json:"numserie"`
	ItemCom  *string  `json:"itemcom"`
	ItemEst  *bool    `json:"itemest"`
	ItemFec  *string  `json:"itemfec"`
	ItemGar  *string  `json:"itemgar"`
	ItemGas  *float64 `json:"itemgas"`
	ItemVen  *float64 `json:"itemven"`
}

// OrderDetailProduct is one line of the order detail, merged with the
// product catalog data and the line's serialized items
type OrderDetailProduct struct {
	OrdProdCod      int            `json:"ordprodcod"`
	ProdCod         string         `json:"prodcod"`
	ProdNom         *string        `json:"prodnom"`
	TipProdCod      *string        `json:"tipprodcod"`
	TipProdNom      string         `json:"tipprodnom"`
	ParentProductID *string        `json:"parentproductid"`
	ProdVent        float64        `json:"prodvent"`
	ProdCost        float64        `json:"prodcost"`
	ProdGast        float64        `json:"prodgast"`
	OrdProdCan      int            `json:"ordprodcan"`
	ProvCod         *string        `json:"provcod"`
	ProvNom         string         `json:"provnom"`
	Items           []ItemResponse `json:"items"`
}

// OrderDetail is the denormalized response of GetOrder. An order with no
// lines still comes back as an object with an empty products array.
type OrderDetail struct {
	OrdCod      int                  `json:"ordcod"`
	OrdFec      *string              `json:"ordfec"`
	PagoCod     *int                 `json:"pagocod"`
	PagoNom     *string              `json:"pagonom"`
	MonCod      *int                 `json:"moncod"`
	MonNom      *string              `json:"monnom"`
	EstCod      *int                 `json:"estcod"`
	EstNom      string               `json:"estnom"`
	OrdNumFac   *string              `json:"ordnumfac"`
	OrdObs      string               `json:"ordobs"`
	VendCod     string               `json:"vendcod"`
	VendNom     string               `json:"vendnom"`
	CliCod      string               `json:"clicod"`
	CliNom      string               `json:"clinom"`
	CliRuc      string               `json:"cliruc"`
	CliRazSoc   string               `json:"clirazsoc"`
	CliDir      string               `json:"clidir"`
	OrdCom      float64              `json:"ordcom"`
	OrdFecPro   *string              `json:"ordfecpro"`
	OrdMon      float64              `json:"ordmon"`
	OrdCos      float64              `json:"ordcos"`
	OrdNuev     *bool                `json:"ordnuev"`
	Products    []OrderDetailProduct `json:"products"`
	ProductCant int                  `json:"productCant"`
}

const notAvailable = "N/A"

// ListOrders returns the order listing with resolved salesperson and client
// display fields and the per-order profit percentage. Cancelled orders are
// excluded.
func (s *OrderService) ListOrders() ([]OrderSummary, error) {
	var orders []models.Order
	if err := s.db.
		Where("estcod IS NULL OR estcod <> ?", models.EstCodCancelled).
		Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	var salespeople []models.Salesperson
	if err := s.db.Find(&salespeople).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	var clients []models.Client
	if err := s.db.Find(&clients).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, order := range orders {
		summary := OrderSummary{
			OrdCod:    order.OrdCod,
			OrdNumFac: order.OrdNumFac,
			Vendedor:  notAvailable,
			CliNom:    notAvailable,
			Ruc:       notAvailable,
			CliRazSoc: notAvailable,
			OrdMon:    deref(order.OrdMon),
			OrdCos:    deref(order.OrdCos),
			OrdCom:    deref(order.OrdCom),
			Proposal:  utils.FormatDate(order.OrdFecPro),
		}

		if order.VendCod != nil {
			for _, v := range salespeople {
				if v.VendCod == *order.VendCod {
					summary.Vendedor = derefStr(v.VendNom)
					break
				}
			}
		}
		if order.CliCod != nil {
			for _, c := range clients {
				if c.CliCod == *order.CliCod {
					summary.CliNom = derefStr(c.CliNom)
					summary.Ruc = derefStr(c.CliRuc)
					summary.CliRazSoc = derefStr(c.CliRazSoc)
					break
				}
			}
		}

		// Profit percentage is only computable when all three money
		// fields are present and the cost is non-zero.
		if order.OrdMon != nil && order.OrdCos != nil && order.OrdCom != nil && *order.OrdCos != 0 {
			pct := (*order.OrdMon - *order.OrdCos) / *order.OrdCos * 100
			summary.ProfitPercentage = &pct
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetOrder assembles the full denormalized detail of one order
func (s *OrderService) GetOrder(ordcod int) (*OrderDetail, error) {
	var order models.Order
	if err := s.db.First(&order, "ordcod = ?", ordcod).Error; err != nil {
		return nil, fmt.Errorf("order %d: %w", ordcod, TranslateDBError(err))
	}

	detail := &OrderDetail{
		OrdCod:    order.OrdCod,
		OrdFec:    utils.FormatDate(order.OrdFec),
		OrdFecPro: utils.FormatDate(order.OrdFecPro),
		PagoCod:   order.PagoCod,
		MonCod:    order.MonCod,
		EstCod:    order.EstCod,
		EstNom:    notAvailable,
		OrdNumFac: order.OrdNumFac,
		OrdObs:    derefStr(order.OrdObs),
		VendCod:   derefStr(order.VendCod),
		VendNom:   notAvailable,
		CliCod:    derefStr(order.CliCod),
		CliNom:    notAvailable,
		CliRuc:    notAvailable,
		CliRazSoc: notAvailable,
		CliDir:    notAvailable,
		OrdCom:    deref(order.OrdCom),
		OrdMon:    deref(order.OrdMon),
		OrdCos:    deref(order.OrdCos),
		OrdNuev:   order.OrdNuev,
		Products:  []OrderDetailProduct{},
	}
	if detail.OrdObs == "" {
		detail.OrdObs = notAvailable
	}
	if detail.VendCod == "" {
		detail.VendCod = notAvailable
	}
	if detail.CliCod == "" {
		detail.CliCod = notAvailable
	}

	// Resolve display names, each from its own lookup
	if order.EstCod != nil {
		var state models.OrderState
		if err := s.db.First(&state, "estcod = ?", *order.EstCod).Error; err == nil {
			detail.EstNom = derefStr(state.EstNom)
		}
	}
	if order.PagoCod != nil {
		var payment models.PaymentMethod
		if err := s.db.First(&payment, "pagocod = ?", *order.PagoCod).Error; err == nil {
			detail.PagoNom = payment.PagoNom
		}
	}
	if order.MonCod != nil {
		var currency models.Currency
		if err := s.db.First(&currency, "moncod = ?", *order.MonCod).Error; err == nil {
			detail.MonNom = currency.MonNom
		}
	}
	if order.VendCod != nil {
		var vendor models.Salesperson
		if err := s.db.First(&vendor, "vendcod = ?", *order.VendCod).Error; err == nil {
			detail.VendNom = derefStr(vendor.VendNom)
		}
	}
	if order.CliCod != nil {
		var client models.Client
		if err := s.db.First(&client, "clicod = ?", *order.CliCod).Error; err == nil {
			detail.CliNom = derefStr(client.CliNom)
			detail.CliRuc = derefStr(client.CliRuc)
			detail.CliRazSoc = derefStr(client.CliRazSoc)
			detail.CliDir = derefStr(client.CliDir)
		}
	}

	var lines []models.OrderLine
	if err := s.db.Where("ordcod = ?", ordcod).Order("ordprodcod").Find(&lines).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(lines) == 0 {
		return detail, nil
	}

	prodCods := make([]string, 0, len(lines))
	lineCods := make([]int, 0, len(lines))
	seen := map[string]bool{}
	for _, line := range lines {
		lineCods = append(lineCods, line.OrdProdCod)
		if !seen[line.ProdCod] {
			seen[line.ProdCod] = true
			prodCods = append(prodCods, line.ProdCod)
		}
	}

	var products []models.Product
	if err := s.db.Where("prodcod IN ?", prodCods).Find(&products).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	productMap := make(map[string]models.Product, len(products))
	for _, p := range products {
		productMap[p.ProdCod] = p
	}

	var items []models.Item
	if err := s.db.Where("ordprodcod IN ?", lineCods).Order("itemcod").Find(&items).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	itemsByLine := make(map[int][]ItemResponse)
	for _, item := range items {
		if item.OrdProdCod == nil {
			continue
		}
		itemsByLine[*item.OrdProdCod] = append(itemsByLine[*item.OrdProdCod], toItemResponse(item))
	}

	var productTypes []models.ProductType
	if err := s.db.Find(&productTypes).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	var suppliers []models.Supplier
	if err := s.db.Find(&suppliers).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	for _, line := range lines {
		product := productMap[line.ProdCod]
		entry := OrderDetailProduct{
			OrdProdCod:      line.OrdProdCod,
			ProdCod:         line.ProdCod,
			ProdNom:         product.ProdNom,
			TipProdCod:      product.TipProdCod,
			TipProdNom:      notAvailable,
			ParentProductID: product.ParentProductID,
			ProdVent:        deref(line.ProdVent),
			ProdCost:        deref(line.ProdCost),
			ProdGast:        deref(line.ProdGast),
			OrdProdCan:      line.OrdProdCan,
			ProvCod:         line.ProvCod,
			ProvNom:         notAvailable,
			Items:           []ItemResponse{},
		}
		if product.TipProdCod != nil {
			for _, pt := range productTypes {
				if pt.TipProdCod == *product.TipProdCod {
					entry.TipProdNom = derefStr(pt.TipProdNom)
					break
				}
			}
		}
		if line.ProvCod != nil {
			for _, sup := range suppliers {
				if sup.ProvCod == *line.ProvCod {
					entry.ProvNom = derefStr(sup.ProvNom)
					break
				}
			}
		}
		if lineItems, ok := itemsByLine[line.OrdProdCod]; ok {
			entry.Items = lineItems
		}
		detail.Products = append(detail.Products, entry)
	}

	detail.ProductCant = len(prodCods)
	return detail, nil
}

// CreateOrder creates the full order aggregate. The referenced client must
// exist; unknown product codes in the lines get placeholder catalog rows.
// The order key and the line keys are computed inside the transaction.
func (s *OrderService) CreateOrder(input OrderInput) (*OrderMutationResult, error) {
	var client models.Client
	cliCod := derefStr(input.CliCod)
	if err := s.db.First(&client, "clicod = ?", cliCod).Error; err != nil {
		return nil, fmt.Errorf("client %q: %w", cliCod, TranslateDBError(err))
	}

	ordFec, err := utils.ParseDate(derefStr(input.OrdFec))
	if err != nil {
		return nil, fmt.Errorf("%w: ordfec: %v", ErrInvalidInput, err)
	}
	ordFecPro, err := utils.ParseDate(derefStr(input.OrdFecPro))
	if err != nil {
		return nil, fmt.Errorf("%w: ordfecpro: %v", ErrInvalidInput, err)
	}

	result := &OrderMutationResult{Products: []models.OrderLine{}, Items: []models.Item{}}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		nextOrdCod, err := nextKey(tx, &models.Order{}, "ordcod")
		if err != nil {
			return err
		}

		order := models.Order{
			OrdCod:    nextOrdCod,
			OrdFec:    ordFec,
			OrdFecPro: ordFecPro,
			OrdNumFac: input.OrdNumFac,
			VendCod:   input.VendCod,
			CliCod:    input.CliCod,
			CliDir:    derefStr(client.CliDir),
			MonCod:    input.MonCod,
			PagoCod:   input.PagoCod,
			EstCod:    input.EstCod,
			OrdCom:    input.OrdCom,
			OrdMon:    input.OrdMon,
			OrdCos:    input.OrdCos,
			OrdObs:    input.OrdObs,
			OrdMar:    input.OrdMar,
			OrdNuev:   input.OrdNuev,
			OrdIns:    input.OrdIns,
			OrdEnt:    input.OrdEnt,
			OrdAce:    input.OrdAce,
			OrdRetCli: input.OrdRetCli,
			OrdRetDec: input.OrdRetDec,
			OrdEntVen: input.OrdEntVen,
			OrdInsTec: input.OrdInsTec,
			OrdRev:    input.OrdRev,
		}
		if err := tx.Create(&order).Error; err != nil {
			return TranslateDBError(err)
		}

		lines, items, err := buildLines(tx, nextOrdCod, input.OrderProduct)
		if err != nil {
			return err
		}
		if err := insertLines(tx, lines, items); err != nil {
			return err
		}

		result.Order = order
		result.Products = lines
		result.Items = items
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

// UpdateOrder fully replaces the order header and its line-item set. Lines
// and items omitted from the payload are deleted; callers cannot patch a
// single line in place.
func (s *OrderService) UpdateOrder(ordcod int, input OrderInput) (*OrderMutationResult, error) {
	var existing models.Order
	if err := s.db.First(&existing, "ordcod = ?", ordcod).Error; err != nil {
		return nil, fmt.Errorf("order %d: %w", ordcod, TranslateDBError(err))
	}

	ordFec, err := utils.ParseDate(derefStr(input.OrdFec))
	if err != nil {
		return nil, fmt.Errorf("%w: ordfec: %v", ErrInvalidInput, err)
	}
	ordFecPro, err := utils.ParseDate(derefStr(input.OrdFecPro))
	if err != nil {
		return nil, fmt.Errorf("%w: ordfecpro: %v", ErrInvalidInput, err)
	}

	result := &OrderMutationResult{Products: []models.OrderLine{}, Items: []models.Item{}}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"ordfec":    ordFec,
			"ordfecpro": ordFecPro,
			"ordnumfac": input.OrdNumFac,
			"vendcod":   input.VendCod,
			"clicod":    input.CliCod,
			"ordcom":    input.OrdCom,
			"ordmon":    input.OrdMon,
			"ordcos":    input.OrdCos,
			"ordnuev":   input.OrdNuev,
			"pagocod":   input.PagoCod,
			"estcod":    input.EstCod,
			"moncod":    input.MonCod,
			"ordobs":    input.OrdObs,
			"ordmar":    input.OrdMar,
			"ordins":    input.OrdIns,
			"ordent":    input.OrdEnt,
			"ordace":    input.OrdAce,
			"ordretcli": input.OrdRetCli,
			"ordretdec": input.OrdRetDec,
			"ordentven": input.OrdEntVen,
			"ordinstec": input.OrdInsTec,
			"ordrev":    input.OrdRev,
		}
		if input.CliDir != nil {
			updates["clidir"] = *input.CliDir
		}
		if err := tx.Model(&models.Order{}).Where("ordcod = ?", ordcod).Updates(updates).Error; err != nil {
			return TranslateDBError(err)
		}

		// Remove the previous line set and every item attached to it
		var oldLineCods []int
		if err := tx.Model(&models.OrderLine{}).Where("ordcod = ?", ordcod).
			Pluck("ordprodcod", &oldLineCods).Error; err != nil {
			return TranslateDBError(err)
		}
		if len(oldLineCods) > 0 {
			if err := tx.Where("ordprodcod IN ?", oldLineCods).Delete(&models.Item{}).Error; err != nil {
				return TranslateDBError(err)
			}
		}
		if err := tx.Where("ordcod = ?", ordcod).Delete(&models.OrderLine{}).Error; err != nil {
			return TranslateDBError(err)
		}

		lines, items, err := buildLines(tx, ordcod, input.OrderProduct)
		if err != nil {
			return err
		}
		if err := insertLines(tx, lines, items); err != nil {
			return err
		}

		var updated models.Order
		if err := tx.First(&updated, "ordcod = ?", ordcod).Error; err != nil {
			return TranslateDBError(err)
		}
		result.Order = updated
		result.Products = lines
		result.Items = items
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

// DeleteOrders hard-deletes the given orders with their lines and the items
// attached to those lines, all in one transaction
func (s *OrderService) DeleteOrders(codes []int) (deletedOrders int64, deletedLines int64, err error) {
	if len(codes) == 0 {
		return 0, 0, fmt.Errorf("%w: empty code list", ErrInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var lineCods []int
		if err := tx.Model(&models.OrderLine{}).Where("ordcod IN ?", codes).
			Pluck("ordprodcod", &lineCods).Error; err != nil {
			return TranslateDBError(err)
		}
		if len(lineCods) > 0 {
			if err := tx.Where("ordprodcod IN ?", lineCods).Delete(&models.Item{}).Error; err != nil {
				return TranslateDBError(err)
			}
		}

		linesRes := tx.Where("ordcod IN ?", codes).Delete(&models.OrderLine{})
		if linesRes.Error != nil {
			return TranslateDBError(linesRes.Error)
		}
		deletedLines = linesRes.RowsAffected

		ordersRes := tx.Where("ordcod IN ?", codes).Delete(&models.Order{})
		if ordersRes.Error != nil {
			return TranslateDBError(ordersRes.Error)
		}
		deletedOrders = ordersRes.RowsAffected

		if deletedOrders == 0 {
			return fmt.Errorf("orders %v: %w", codes, ErrNotFound)
		}
		return nil
	})
	if txErr != nil {
		return 0, 0, txErr
	}
	return deletedOrders, deletedLines, nil
}

// DuplicateOrder clones an order with its lines and items under freshly
// minted keys and returns the new order key. The clone is fully independent
// of the source.
func (s *OrderService) DuplicateOrder(ordcod int) (int, error) {
	var source models.Order
	if err := s.db.First(&source, "ordcod = ?", ordcod).Error; err != nil {
		return 0, fmt.Errorf("order %d: %w", ordcod, TranslateDBError(err))
	}

	var newOrdCod int
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		newOrdCod, err = nextKey(tx, &models.Order{}, "ordcod")
		if err != nil {
			return err
		}

		clone := source
		clone.OrdCod = newOrdCod
		if err := tx.Create(&clone).Error; err != nil {
			return TranslateDBError(err)
		}

		var lines []models.OrderLine
		if err := tx.Where("ordcod = ?", ordcod).Order("ordprodcod").Find(&lines).Error; err != nil {
			return TranslateDBError(err)
		}
		if len(lines) == 0 {
			return nil
		}

		nextLineCod, err := nextKey(tx, &models.OrderLine{}, "ordprodcod")
		if err != nil {
			return err
		}

		lineCodMap := make(map[int]int, len(lines))
		newLines := make([]models.OrderLine, 0, len(lines))
		for i, line := range lines {
			newLine := line
			newLine.OrdCod = newOrdCod
			newLine.OrdProdCod = nextLineCod + i
			lineCodMap[line.OrdProdCod] = newLine.OrdProdCod
			newLines = append(newLines, newLine)
		}
		if err := tx.Create(&newLines).Error; err != nil {
			return TranslateDBError(err)
		}

		oldLineCods := make([]int, 0, len(lines))
		for _, line := range lines {
			oldLineCods = append(oldLineCods, line.OrdProdCod)
		}
		var items []models.Item
		if err := tx.Where("ordprodcod IN ?", oldLineCods).Find(&items).Error; err != nil {
			return TranslateDBError(err)
		}
		if len(items) == 0 {
			return nil
		}

		newItems := make([]models.Item, 0, len(items))
		for _, item := range items {
			newItem := item
			newItem.ItemCod = 0 // fresh identity
			newCod := lineCodMap[*item.OrdProdCod]
			newItem.OrdProdCod = &newCod
			newItems = append(newItems, newItem)
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&newItems).Error; err != nil {
			return TranslateDBError(err)
		}
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return newOrdCod, nil
}

// buildLines assigns sequential line keys (max+1 onward), ensures every
// referenced product exists as at least a placeholder row, and materializes
// the line and item rows for the given order
func buildLines(tx *gorm.DB, ordcod int, inputs []OrderLineInput) ([]models.OrderLine, []models.Item, error) {
	lines := make([]models.OrderLine, 0, len(inputs))
	items := make([]models.Item, 0)
	if len(inputs) == 0 {
		return lines, items, nil
	}

	nextLineCod, err := nextKey(tx, &models.OrderLine{}, "ordprodcod")
	if err != nil {
		return nil, nil, err
	}

	placeholders := make([]models.Product, 0, len(inputs))
	seen := map[string]bool{}
	for _, in := range inputs {
		if seen[in.ProdCod] {
			continue
		}
		seen[in.ProdCod] = true
		name := models.PlaceholderProductName
		placeholders = append(placeholders, models.Product{ProdCod: in.ProdCod, ProdNom: &name})
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&placeholders).Error; err != nil {
		return nil, nil, TranslateDBError(err)
	}

	for i, in := range inputs {
		lineCod := nextLineCod + i
		lines = append(lines, models.OrderLine{
			OrdProdCod: lineCod,
			OrdCod:     ordcod,
			ProdCod:    in.ProdCod,
			ProvCod:    in.ProvCod,
			OrdProdCan: in.OrdProdCan,
			ProdCost:   in.ProdCost,
			ProdVent:   in.ProdVent,
			ProdGast:   in.ProdGast,
		})

		for _, itemIn := range in.Items {
			itemGar, err := utils.ParseDate(derefStr(itemIn.ItemGar))
			if err != nil {
				return nil, nil, fmt.Errorf("%w: itemgar: %v", ErrInvalidInput, err)
			}
			cod := lineCod
			items = append(items, models.Item{
				NumSerie:   itemIn.NumSerie,
				ItemCom:    itemIn.ItemCom,
				ItemEst:    itemIn.ItemEst,
				ItemGas:    itemIn.ItemGas,
				ItemVen:    itemIn.ItemVen,
				ItemGar:    itemGar,
				ProdCod:    in.ProdCod,
				OrdProdCod: &cod,
			})
		}
	}
	return lines, items, nil
}

// insertLines writes the prepared line and item rows, skipping item rows
// that would violate uniqueness
func insertLines(tx *gorm.DB, lines []models.OrderLine, items []models.Item) error {
	if len(lines) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&lines).Error; err != nil {
			return TranslateDBError(err)
		}
	}
	if len(items) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error; err != nil {
			return TranslateDBError(err)
		}
	}
	return nil
}

// nextKey computes the next surrogate key for a table inside the current
// transaction. Concurrent writers computing the same key fail the whole
// transaction with a Conflict rather than corrupting the aggregate.
func nextKey(tx *gorm.DB, model interface{}, column string) (int, error) {
	var max int
	if err := tx.Model(model).Select("COALESCE(MAX(" + column + "), 0)").Scan(&max).Error; err != nil {
		return 0, TranslateDBError(err)
	}
	return max + 1, nil
}

func toItemResponse(item models.Item) ItemResponse {
	return ItemResponse{
		ItemCod:  item.ItemCod,
		NumSerie: item.NumSerie,
		ItemCom:  item.ItemCom,
		ItemEst:  item.ItemEst,
		ItemFec:  utils.FormatDate(item.ItemFec),
		ItemGar:  utils.FormatDate(item.ItemGar),
		ItemGas:  item.ItemGas,
		ItemVen:  item.ItemVen,
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
