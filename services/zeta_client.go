package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gonzalofarias/distribuidora-api/config"
	"golang.org/x/text/encoding/charmap"
)

const (
	zetaContactsResource = "RESTContactosV1Query"
	zetaArticlesResource = "RESTArticulosV2Query"
)

// ZetaContact is one contact record as returned by the vendor ERP
type ZetaContact struct {
	Codigo             string  `json:"Codigo"`
	Nombre             string  `json:"Nombre"`
	RazonSocial        string  `json:"RazonSocial"`
	DireccionCompleta  string  `json:"DireccionCompleta"`
	RUT                *string `json:"RUT"`
	DepartamentoNombre string  `json:"DepartamentoNombre"`
	FechaAlta          string  `json:"FechaAlta"`
	ContactoActivo     string  `json:"ContactoActivo"`
	EsCliente          string  `json:"EsCliente"`
	EsProveedor        string  `json:"EsProveedor"`
}

// ZetaArticle is one article record as returned by the vendor ERP
type ZetaArticle struct {
	Codigo          string      `json:"Codigo"`
	Nombre          string      `json:"Nombre"`
	CodigoBarras    string      `json:"CodigoBarras"`
	FamiliaCodigo   string      `json:"FamiliaCodigo"`
	FamiliaNombre   string      `json:"FamiliaNombre"`
	Costo           json.Number `json:"Costo"`
	MonedaCodigo    json.Number `json:"MonedaCodigo"`
	ProveedorCodigo string      `json:"ProveedorCodigo"`
	ProveedorNombre string      `json:"ProveedorNombre"`
	MarcaCodigo     string      `json:"MarcaCodigo"`
	MarcaNombre     string      `json:"MarcaNombre"`
}

type zetaConnection struct {
	DesarrolladorCodigo string `json:"DesarrolladorCodigo"`
	DesarrolladorClave  string `json:"DesarrolladorClave"`
	EmpresaCodigo       string `json:"EmpresaCodigo"`
	EmpresaClave        string `json:"EmpresaClave"`
	UsuarioCodigo       string `json:"UsuarioCodigo"`
	UsuarioClave        string `json:"UsuarioClave"`
	RolCodigo           string `json:"RolCodigo"`
}

type zetaRequest struct {
	QueryIn struct {
		Connection zetaConnection `json:"Connection"`
		Data       struct {
			Page string `json:"Page"`
		} `json:"Data"`
	} `json:"QueryIn"`
}

type zetaEnvelope struct {
	QueryOut struct {
		Response   json.RawMessage `json:"Response"`
		IsLastPage bool            `json:"IsLastPage"`
	} `json:"QueryOut"`
}

var zetaFetcherInstance ZetaFetcher

// GetZetaFetcher returns the active vendor ERP fetcher, creating the real
// client from config on first use
func GetZetaFetcher() ZetaFetcher {
	if zetaFetcherInstance == nil {
		zetaFetcherInstance = NewZetaClient(config.GetConfig())
	}
	return zetaFetcherInstance
}

// SetZetaFetcher sets the vendor ERP fetcher (primarily for testing)
func SetZetaFetcher(fetcher ZetaFetcher) {
	zetaFetcherInstance = fetcher
}

// ZetaClient pulls paginated data from the Zetasoftware vendor ERP. Pages
// are requested sequentially until the server flags the last one; there is
// no retry, so a failed page aborts the whole pull.
type ZetaClient struct {
	baseURL    string
	httpClient *http.Client
	conn       zetaConnection
}

// NewZetaClient builds a client from the application configuration
func NewZetaClient(cfg *config.Config) *ZetaClient {
	return &ZetaClient{
		baseURL:    strings.TrimRight(cfg.ZetaBaseURL, "/"),
		httpClient: &http.Client{},
		conn: zetaConnection{
			DesarrolladorCodigo: cfg.ZetaDeveloperCode,
			DesarrolladorClave:  cfg.ZetaDeveloperKey,
			EmpresaCodigo:       cfg.ZetaCompanyCode,
			EmpresaClave:        cfg.ZetaCompanyKey,
			UsuarioCodigo:       cfg.ZetaUserCode,
			UsuarioClave:        cfg.ZetaUserKey,
			RolCodigo:           cfg.ZetaRoleCode,
		},
	}
}

// FetchContacts pulls every contact page from the vendor ERP
func (c *ZetaClient) FetchContacts() ([]ZetaContact, error) {
	var contacts []ZetaContact
	for page, lastPage := 1, false; !lastPage; page++ {
		log.Printf("Requesting contacts page %d from vendor API", page)
		raw, isLast, err := c.postPage(zetaContactsResource, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch contacts on page %d: %w", page, err)
		}
		var pageContacts []ZetaContact
		if err := json.Unmarshal(raw, &pageContacts); err != nil {
			return nil, fmt.Errorf("failed to parse contacts on page %d: %w", page, err)
		}
		contacts = append(contacts, pageContacts...)
		lastPage = isLast
	}
	log.Printf("Fetched %d contacts from vendor API", len(contacts))
	return contacts, nil
}

// FetchArticles pulls every article page from the vendor ERP
func (c *ZetaClient) FetchArticles() ([]ZetaArticle, error) {
	var articles []ZetaArticle
	for page, lastPage := 1, false; !lastPage; page++ {
		log.Printf("Requesting articles page %d from vendor API", page)
		raw, isLast, err := c.postPage(zetaArticlesResource, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch articles on page %d: %w", page, err)
		}
		var pageArticles []ZetaArticle
		if err := json.Unmarshal(raw, &pageArticles); err != nil {
			return nil, fmt.Errorf("failed to parse articles on page %d: %w", page, err)
		}
		articles = append(articles, pageArticles...)
		lastPage = isLast
	}
	log.Printf("Fetched %d articles from vendor API", len(articles))
	return articles, nil
}

// postPage sends one page request and returns the raw Response array plus
// the last-page flag. Bodies declared as ISO-8859-1 are transcoded to UTF-8
// before JSON parsing; the transcode is applied per call, never through a
// shared interceptor.
func (c *ZetaClient) postPage(resource string, page int) (json.RawMessage, bool, error) {
	reqBody := zetaRequest{}
	reqBody.QueryIn.Connection = c.conn
	reqBody.QueryIn.Data.Page = fmt.Sprintf("%d", page)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Post(c.baseURL+"/"+resource, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("vendor API returned status %d", resp.StatusCode)
	}

	if strings.Contains(strings.ToUpper(resp.Header.Get("Content-Type")), "ISO-8859-1") {
		body, err = charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to transcode response body: %w", err)
		}
	}

	var envelope zetaEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, false, fmt.Errorf("failed to parse response body: %w", err)
	}
	return envelope.QueryOut.Response, envelope.QueryOut.IsLastPage, nil
}

// cleanASCII strips every non-ASCII byte from a text field. The vendor feed
// mixes encodings badly enough that this lossy normalization is deliberate.
func cleanASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return -1
		}
		return r
	}, s)
}
