package services

import (
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/gonzalofarias/distribuidora-api/models"
	"gorm.io/gorm"
)

// ZetaFetcher is the slice of the vendor API the sync service needs
type ZetaFetcher interface {
	FetchContacts() ([]ZetaContact, error)
	FetchArticles() ([]ZetaArticle, error)
}

// SyncService reconciles clients, suppliers and products from the vendor
// ERP into the local tables. Reconciliation is upsert-by-natural-key: a
// record failing to persist is logged and skipped, while a failed page
// fetch aborts that entity's whole sync.
type SyncService struct {
	db   *gorm.DB
	zeta ZetaFetcher
}

// NewSyncService creates a SyncService
func NewSyncService(db *gorm.DB, zeta ZetaFetcher) *SyncService {
	return &SyncService{db: db, zeta: zeta}
}

// SyncOutcome is the per-entity result of a sync run
type SyncOutcome struct {
	Success bool   `json:"success"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// SyncReport aggregates the three independent sync outcomes
type SyncReport struct {
	Clients   SyncOutcome `json:"clients"`
	Suppliers SyncOutcome `json:"suppliers"`
	Products  SyncOutcome `json:"products"`
}

// SyncClients pulls every contact flagged as a client and upserts it by its
// natural key. Returns the number of records reconciled.
func (s *SyncService) SyncClients() (int, error) {
	contacts, err := s.zeta.FetchContacts()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, contact := range contacts {
		if contact.EsCliente != "S" {
			continue
		}

		code := cleanASCII(contact.Codigo)
		name := cleanASCII(strings.TrimSpace(contact.Nombre))
		address := cleanASCII(contact.DireccionCompleta)
		companyName := cleanASCII(contact.RazonSocial)
		active := true

		client := models.Client{
			CliCod:    code,
			CliCodBit: &code,
			CliNom:    &name,
			CliDir:    &address,
			CliRazSoc: &companyName,
			CliRuc:    contact.RUT,
			CliEst:    &active,
		}

		if err := s.upsertClient(client); err != nil {
			log.Printf("Skipping client %q: %v", code, err)
			continue
		}
		count++
	}
	log.Printf("Reconciled %d clients from vendor API", count)
	return count, nil
}

// SyncSuppliers pulls every contact flagged as a supplier and upserts it
func (s *SyncService) SyncSuppliers() (int, error) {
	contacts, err := s.zeta.FetchContacts()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, contact := range contacts {
		if contact.EsProveedor != "S" {
			continue
		}

		code := cleanASCII(contact.Codigo)
		name := cleanASCII(strings.TrimSpace(contact.Nombre))

		if err := s.upsertSupplier(code, &name); err != nil {
			log.Printf("Skipping supplier %q: %v", code, err)
			continue
		}
		count++
	}
	log.Printf("Reconciled %d suppliers from vendor API", count)
	return count, nil
}

// SyncProducts pulls every article and upserts it, creating the article's
// family and supplier first so the product row never dangles
func (s *SyncService) SyncProducts() (int, error) {
	articles, err := s.zeta.FetchArticles()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, article := range articles {
		code := cleanASCII(article.Codigo)
		name := cleanASCII(strings.TrimSpace(article.Nombre))
		familyCode := cleanASCII(article.FamiliaCodigo)
		familyName := cleanASCII(article.FamiliaNombre)
		supplierCode := cleanASCII(article.ProveedorCodigo)
		supplierName := cleanASCII(article.ProveedorNombre)

		if familyCode != "" {
			if err := s.upsertProductType(familyCode, &familyName); err != nil {
				log.Printf("Skipping family %q for article %q: %v", familyCode, code, err)
			}
		}
		if supplierCode != "" {
			if err := s.upsertSupplier(supplierCode, &supplierName); err != nil {
				log.Printf("Skipping supplier %q for article %q: %v", supplierCode, code, err)
			}
		}

		if err := s.upsertProduct(code, &name, familyCode); err != nil {
			log.Printf("Skipping article %q: %v", code, err)
			continue
		}
		count++
	}
	log.Printf("Reconciled %d products from vendor API", count)
	return count, nil
}

// SyncAll runs the three syncs concurrently. The outcomes are independent:
// one entity failing does not block the others.
func (s *SyncService) SyncAll() SyncReport {
	var report SyncReport
	var wg sync.WaitGroup

	run := func(outcome *SyncOutcome, name string, sync func() (int, error)) {
		defer wg.Done()
		count, err := sync()
		if err != nil {
			log.Printf("%s sync failed: %v", name, err)
			outcome.Error = err.Error()
			return
		}
		outcome.Success = true
		outcome.Count = count
	}

	wg.Add(3)
	go run(&report.Clients, "Clients", s.SyncClients)
	go run(&report.Suppliers, "Suppliers", s.SyncSuppliers)
	go run(&report.Products, "Products", s.SyncProducts)
	wg.Wait()

	return report
}

func (s *SyncService) upsertClient(client models.Client) error {
	var existing models.Client
	err := s.db.First(&existing, "clicod = ?", client.CliCod).Error
	switch {
	case err == nil:
		return TranslateDBError(s.db.Model(&models.Client{}).
			Where("clicod = ?", client.CliCod).
			Updates(map[string]interface{}{
				"clicodbit": client.CliCodBit,
				"clinom":    client.CliNom,
				"clidir":    client.CliDir,
				"clirazsoc": client.CliRazSoc,
				"cliruc":    client.CliRuc,
				"cliest":    client.CliEst,
			}).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return TranslateDBError(s.db.Create(&client).Error)
	default:
		return TranslateDBError(err)
	}
}

func (s *SyncService) upsertSupplier(code string, name *string) error {
	var existing models.Supplier
	err := s.db.First(&existing, "provcod = ?", code).Error
	switch {
	case err == nil:
		return TranslateDBError(s.db.Model(&models.Supplier{}).
			Where("provcod = ?", code).
			Update("provnom", name).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return TranslateDBError(s.db.Create(&models.Supplier{ProvCod: code, ProvNom: name}).Error)
	default:
		return TranslateDBError(err)
	}
}

func (s *SyncService) upsertProductType(code string, name *string) error {
	var existing models.ProductType
	err := s.db.First(&existing, "tipprodcod = ?", code).Error
	switch {
	case err == nil:
		return TranslateDBError(s.db.Model(&models.ProductType{}).
			Where("tipprodcod = ?", code).
			Update("tipprodnom", name).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return TranslateDBError(s.db.Create(&models.ProductType{TipProdCod: code, TipProdNom: name}).Error)
	default:
		return TranslateDBError(err)
	}
}

func (s *SyncService) upsertProduct(code string, name *string, familyCode string) error {
	var existing models.Product
	err := s.db.First(&existing, "prodcod = ?", code).Error
	switch {
	case err == nil:
		return TranslateDBError(s.db.Model(&models.Product{}).
			Where("prodcod = ?", code).
			Update("prodnom", name).Error)
	case errors.Is(err, gorm.ErrRecordNotFound):
		product := models.Product{ProdCod: code, ProdNom: name}
		if familyCode != "" {
			product.TipProdCod = &familyCode
		}
		return TranslateDBError(s.db.Create(&product).Error)
	default:
		return TranslateDBError(err)
	}
}
