package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/utils"
	"gorm.io/gorm"
)

// commissionRate is the flat salesperson commission applied to the profit
// of every reported order
const commissionRate = 0.10

// ReportService produces the read-only sales and profitability projections.
// Reference data is joined in memory (findAll then linear search), never
// through SQL joins.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a ReportService
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ReportQuery is the date range common to every report
type ReportQuery struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// ClientReportQuery filters the report to one client
type ClientReportQuery struct {
	ReportQuery
	CliCod string `json:"clicod" binding:"required"`
}

// SupplierReportQuery filters the report to one supplier
type SupplierReportQuery struct {
	ReportQuery
	ProvCod string `json:"provcod" binding:"required"`
}

// BrandReportQuery selects every order carrying the given brand. The brand
// report has no date range.
type BrandReportQuery struct {
	OrdMar string `json:"ordmar" binding:"required"`
}

// ReportOrderRow is one order projected for a report, with reference names
// resolved and the profit figures computed
type ReportOrderRow struct {
	OrdCod           int      `json:"ordcod"`
	CliCod           *string  `json:"clicod"`
	OrdFec           *string  `json:"ordfec"`
	OrdFecPro        *string  `json:"ordfecpro"`
	OrdNumFac        *string  `json:"ordnumfac"`
	EstCod           *int     `json:"estcod"`
	EstNom           string   `json:"estnom"`
	PagoCod          *int     `json:"pagocod"`
	PagoNom          string   `json:"pagonom"`
	MonCod           *int     `json:"moncod"`
	MonNom           string   `json:"monnom"`
	OrdCos           float64  `json:"ordcos"`
	OrdMon           float64  `json:"ordmon"`
	Profit           float64  `json:"profit"`
	ProfitPercentage *float64 `json:"profitPercentage"`
	Commission       float64  `json:"commission"`
}

// ReportLineRow is one order line nested in a report row
type ReportLineRow struct {
	ProdCod    string   `json:"prodcod"`
	ProvCod    *string  `json:"provcod"`
	OrdProdCan int      `json:"ordprodcan"`
	ProdCost   *float64 `json:"prodcost"`
	ProdVent   *float64 `json:"prodvent"`
}

// ClientReportResponse is the client report: the client's vendor
// correlation code plus its orders in the range
type ClientReportResponse struct {
	CliCod    string           `json:"clicod"`
	CliCodBit *string          `json:"clicodbit"`
	Orders    []ReportOrderRow `json:"orders"`
}

// DatesReportRow is one order of the date-range report with its lines
type DatesReportRow struct {
	ReportOrderRow
	Productos []ReportLineRow `json:"productos"`
}

// SupplierReportRow is one order of the supplier report
type SupplierReportRow struct {
	ReportOrderRow
	ProvCod *string `json:"provcod"`
}

// BrandReportRow is one order of the brand report: the header subset plus
// its lines. No reference resolution or profit figures here.
type BrandReportRow struct {
	OrdCod    int             `json:"ordcod"`
	OrdFec    *string         `json:"ordfec"`
	OrdFecPro *string         `json:"ordfecpro"`
	OrdNumFac *string         `json:"ordnumfac"`
	EstCod    *int            `json:"estcod"`
	Productos []ReportLineRow `json:"productos"`
}

// BestSellingProduct is one row of the best-sellers ranking
type BestSellingProduct struct {
	ProdCod   string  `json:"prodcod"`
	ProdNom   *string `json:"prodnom"`
	TotalSold int     `json:"totalSold"`
}

// refData holds the small reference tables loaded once per report
type refData struct {
	states     []models.OrderState
	currencies []models.Currency
	payments   []models.PaymentMethod
}

// ClientReport returns the given client's orders within the date range
func (s *ReportService) ClientReport(query ClientReportQuery) (*ClientReportResponse, error) {
	start, end, err := parseRange(query.ReportQuery)
	if err != nil {
		return nil, err
	}

	var client models.Client
	if err := s.db.First(&client, "clicod = ?", query.CliCod).Error; err != nil {
		return nil, fmt.Errorf("client %q: %w", query.CliCod, TranslateDBError(err))
	}

	var orders []models.Order
	if err := s.db.
		Where("clicod = ? AND ordfec >= ? AND ordfec <= ?", query.CliCod, start, end).
		Order("ordcod").Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	refs, err := s.loadRefData()
	if err != nil {
		return nil, err
	}

	response := &ClientReportResponse{
		CliCod:    client.CliCod,
		CliCodBit: client.CliCodBit,
		Orders:    make([]ReportOrderRow, 0, len(orders)),
	}
	for _, order := range orders {
		response.Orders = append(response.Orders, projectOrder(order, refs))
	}
	return response, nil
}

// SupplierReport returns the orders in the range that carry at least one
// line from the given supplier
func (s *ReportService) SupplierReport(query SupplierReportQuery) ([]SupplierReportRow, error) {
	start, end, err := parseRange(query.ReportQuery)
	if err != nil {
		return nil, err
	}

	var lines []models.OrderLine
	if err := s.db.Where("provcod = ?", query.ProvCod).Find(&lines).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(lines) == 0 {
		return []SupplierReportRow{}, nil
	}

	ordCods := make([]int, 0, len(lines))
	seen := map[int]bool{}
	for _, line := range lines {
		if !seen[line.OrdCod] {
			seen[line.OrdCod] = true
			ordCods = append(ordCods, line.OrdCod)
		}
	}

	var orders []models.Order
	if err := s.db.
		Where("ordcod IN ? AND ordfec >= ? AND ordfec <= ?", ordCods, start, end).
		Order("ordcod").Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	refs, err := s.loadRefData()
	if err != nil {
		return nil, err
	}

	report := make([]SupplierReportRow, 0, len(orders))
	for _, order := range orders {
		report = append(report, SupplierReportRow{
			ReportOrderRow: projectOrder(order, refs),
			ProvCod:        &query.ProvCod,
		})
	}
	return report, nil
}

// DatesReport returns every order in the range with its lines nested
func (s *ReportService) DatesReport(query ReportQuery) ([]DatesReportRow, error) {
	start, end, err := parseRange(query)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.db.
		Where("ordfec >= ? AND ordfec <= ?", start, end).
		Order("ordcod").Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(orders) == 0 {
		return []DatesReportRow{}, nil
	}

	ordCods := make([]int, 0, len(orders))
	for _, order := range orders {
		ordCods = append(ordCods, order.OrdCod)
	}

	var lines []models.OrderLine
	if err := s.db.Where("ordcod IN ?", ordCods).Find(&lines).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	refs, err := s.loadRefData()
	if err != nil {
		return nil, err
	}

	report := make([]DatesReportRow, 0, len(orders))
	for _, order := range orders {
		row := DatesReportRow{
			ReportOrderRow: projectOrder(order, refs),
			Productos:      []ReportLineRow{},
		}
		for _, line := range lines {
			if line.OrdCod != order.OrdCod {
				continue
			}
			row.Productos = append(row.Productos, ReportLineRow{
				ProdCod:    line.ProdCod,
				ProvCod:    line.ProvCod,
				OrdProdCan: line.OrdProdCan,
				ProdCost:   line.ProdCost,
				ProdVent:   line.ProdVent,
			})
		}
		report = append(report, row)
	}
	return report, nil
}

// BrandReport returns every order whose brand matches, with its lines
// nested
func (s *ReportService) BrandReport(query BrandReportQuery) ([]BrandReportRow, error) {
	if query.OrdMar == "" {
		return nil, fmt.Errorf("%w: ordmar", ErrInvalidInput)
	}

	var orders []models.Order
	if err := s.db.
		Where("ordmar = ?", query.OrdMar).
		Order("ordcod").Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(orders) == 0 {
		return []BrandReportRow{}, nil
	}

	ordCods := make([]int, 0, len(orders))
	for _, order := range orders {
		ordCods = append(ordCods, order.OrdCod)
	}

	var lines []models.OrderLine
	if err := s.db.Where("ordcod IN ?", ordCods).Find(&lines).Error; err != nil {
		return nil, TranslateDBError(err)
	}

	report := make([]BrandReportRow, 0, len(orders))
	for _, order := range orders {
		row := BrandReportRow{
			OrdCod:    order.OrdCod,
			OrdFec:    utils.FormatDate(order.OrdFec),
			OrdFecPro: utils.FormatDate(order.OrdFecPro),
			OrdNumFac: order.OrdNumFac,
			EstCod:    order.EstCod,
			Productos: []ReportLineRow{},
		}
		for _, line := range lines {
			if line.OrdCod != order.OrdCod {
				continue
			}
			row.Productos = append(row.Productos, ReportLineRow{
				ProdCod:    line.ProdCod,
				ProvCod:    line.ProvCod,
				OrdProdCan: line.OrdProdCan,
				ProdCost:   line.ProdCost,
				ProdVent:   line.ProdVent,
			})
		}
		report = append(report, row)
	}
	return report, nil
}

// BestSellingProducts aggregates the quantities sold per product within the
// range and ranks them in descending order
func (s *ReportService) BestSellingProducts(query ReportQuery) ([]BestSellingProduct, error) {
	start, end, err := parseRange(query)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := s.db.
		Where("ordfec >= ? AND ordfec <= ?", start, end).
		Find(&orders).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(orders) == 0 {
		return []BestSellingProduct{}, nil
	}

	ordCods := make([]int, 0, len(orders))
	for _, order := range orders {
		ordCods = append(ordCods, order.OrdCod)
	}

	var lines []models.OrderLine
	if err := s.db.Where("ordcod IN ?", ordCods).Find(&lines).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if len(lines) == 0 {
		return []BestSellingProduct{}, nil
	}

	totals := map[string]int{}
	for _, line := range lines {
		totals[line.ProdCod] += line.OrdProdCan
	}

	prodCods := make([]string, 0, len(totals))
	for cod := range totals {
		prodCods = append(prodCods, cod)
	}
	var products []models.Product
	if err := s.db.Where("prodcod IN ?", prodCods).Find(&products).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	names := make(map[string]*string, len(products))
	for _, p := range products {
		names[p.ProdCod] = p.ProdNom
	}

	ranking := make([]BestSellingProduct, 0, len(totals))
	for cod, total := range totals {
		ranking = append(ranking, BestSellingProduct{
			ProdCod:   cod,
			ProdNom:   names[cod],
			TotalSold: total,
		})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].TotalSold != ranking[j].TotalSold {
			return ranking[i].TotalSold > ranking[j].TotalSold
		}
		return ranking[i].ProdCod < ranking[j].ProdCod
	})
	return ranking, nil
}

func (s *ReportService) loadRefData() (*refData, error) {
	refs := &refData{}
	if err := s.db.Find(&refs.states).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if err := s.db.Find(&refs.currencies).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	if err := s.db.Find(&refs.payments).Error; err != nil {
		return nil, TranslateDBError(err)
	}
	return refs, nil
}

// projectOrder maps an order row onto its report projection, resolving
// reference names and applying the profit formula
// profit = sale - cost, percentage = profit / cost * 100,
// commission = profit * 0.10
func projectOrder(order models.Order, refs *refData) ReportOrderRow {
	row := ReportOrderRow{
		OrdCod:    order.OrdCod,
		CliCod:    order.CliCod,
		OrdFec:    utils.FormatDate(order.OrdFec),
		OrdFecPro: utils.FormatDate(order.OrdFecPro),
		OrdNumFac: order.OrdNumFac,
		EstCod:    order.EstCod,
		EstNom:    notAvailable,
		PagoCod:   order.PagoCod,
		PagoNom:   notAvailable,
		MonCod:    order.MonCod,
		MonNom:    notAvailable,
		OrdCos:    deref(order.OrdCos),
		OrdMon:    deref(order.OrdMon),
	}

	if order.EstCod != nil {
		for _, state := range refs.states {
			if state.EstCod == *order.EstCod {
				row.EstNom = derefStr(state.EstNom)
				break
			}
		}
	}
	if order.MonCod != nil {
		for _, currency := range refs.currencies {
			if currency.MonCod == *order.MonCod {
				row.MonNom = derefStr(currency.MonNom)
				break
			}
		}
	}
	if order.PagoCod != nil {
		for _, payment := range refs.payments {
			if payment.PagoCod == *order.PagoCod {
				row.PagoNom = derefStr(payment.PagoNom)
				break
			}
		}
	}

	row.Profit = row.OrdMon - row.OrdCos
	row.Commission = row.Profit * commissionRate
	if order.OrdMon != nil && order.OrdCos != nil && *order.OrdCos != 0 {
		pct := row.Profit / row.OrdCos * 100
		row.ProfitPercentage = &pct
	}
	return row
}

func parseRange(query ReportQuery) (time.Time, time.Time, error) {
	start, err := utils.ParseDate(query.StartDate)
	if err != nil || start == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate", ErrInvalidInput)
	}
	end, err := utils.ParseDate(query.EndDate)
	if err != nil || end == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate", ErrInvalidInput)
	}
	return *start, *end, nil
}
