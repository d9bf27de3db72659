package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"admin_console/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const productsPath = "/api/products"

// Caller is the HTTP adapter as seen by the facades.
type Caller interface {
	Call(ctx context.Context, req Request) (json.RawMessage, error)
	BaseURL() string
}

// productDTO is the product payload exactly as the remote API sends it.
type productDTO struct {
	ID          string   `json:"_id"         validate:"required"`
	Name        string   `json:"nombre"      validate:"required"`
	Description string   `json:"descripcion" validate:"required"`
	Price       *float64 `json:"precio"      validate:"required,gte=0"`
	ImageRef    string   `json:"imagen"      validate:"required"`
	CreatedAt   string   `json:"createdAt"   validate:"required"`
}

var validate = validator.New()

// ProductClient implements domain.ProductRepository against the remote API.
// It reads the bearer token from the injected session at call time.
type ProductClient struct {
	api   Caller
	creds domain.Credentials
	log   *logrus.Logger
}

func NewProductClient(api Caller, creds domain.Credentials, logger *logrus.Logger) *ProductClient {
	if creds == nil {
		creds = domain.Anonymous{}
	}
	return &ProductClient{
		api:   api,
		creds: creds,
		log:   logger,
	}
}

func (c *ProductClient) List(ctx context.Context) ([]domain.Product, error) {
	c.log.Debugf("ProductClient: Listing products")
	raw, err := c.api.Call(ctx, Request{Method: http.MethodGet, Path: productsPath})
	if err != nil {
		return nil, c.classify("list products", err)
	}

	var dtos []productDTO
	if err := json.Unmarshal(unwrap(raw, "products", "data", "Data"), &dtos); err != nil {
		c.log.Errorf("ProductClient: Failed to decode product list: %v", err)
		return nil, fmt.Errorf("list products: %w: %w", domain.ErrParse, err)
	}

	products := make([]domain.Product, 0, len(dtos))
	for i := range dtos {
		p, err := dtos[i].toDomain()
		if err != nil {
			c.log.Errorf("ProductClient: Invalid product at position %d in list: %v", i, err)
			return nil, fmt.Errorf("list products: %w", err)
		}
		products = append(products, p)
	}
	c.log.Debugf("ProductClient: Listed %d products", len(products))
	return products, nil
}

func (c *ProductClient) Get(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("get product: %w", domain.ErrNotFound)
	}
	c.log.Debugf("ProductClient: Requesting product %s", id)
	raw, err := c.api.Call(ctx, Request{Method: http.MethodGet, Path: productPath(id)})
	if err != nil {
		return nil, c.classify("get product "+id, err)
	}
	p, err := decodeProduct(raw)
	if err != nil {
		c.log.Errorf("ProductClient: Invalid product payload for %s: %v", id, err)
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

func (c *ProductClient) Create(ctx context.Context, draft domain.Draft) (*domain.Product, error) {
	price, err := draft.Validate(true)
	if err != nil {
		c.log.Warnf("ProductClient: Refusing to create invalid draft: %v", err)
		return nil, err
	}

	body, contentType, err := encodeDraft(draft, price)
	if err != nil {
		return nil, fmt.Errorf("create product: encoding multipart body: %w", err)
	}

	c.log.Infof("ProductClient: Creating product '%s'", draft.Name)
	raw, err := c.api.Call(ctx, Request{
		Method:       http.MethodPost,
		Path:         productsPath,
		Body:         body,
		ContentType:  contentType,
		AuthRequired: true,
		Credentials:  c.creds,
	})
	if err != nil {
		return nil, c.classify("create product", err)
	}

	p, err := decodeProduct(raw)
	if err != nil {
		c.log.Errorf("ProductClient: Invalid payload for created product '%s': %v", draft.Name, err)
		return nil, fmt.Errorf("create product: %w", err)
	}
	c.log.Infof("ProductClient: Product '%s' created with ID %s", p.Name, p.ID)
	return p, nil
}

// Update sends every field; the image part is omitted when the draft has
// no pending image so the server keeps the current one. A success body
// that is not a product yields (nil, nil).
func (c *ProductClient) Update(ctx context.Context, id string, draft domain.Draft) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("update product: %w", domain.ErrNotFound)
	}
	price, err := draft.Validate(false)
	if err != nil {
		c.log.Warnf("ProductClient: Refusing to update product %s with invalid draft: %v", id, err)
		return nil, err
	}

	body, contentType, err := encodeDraft(draft, price)
	if err != nil {
		return nil, fmt.Errorf("update product %s: encoding multipart body: %w", id, err)
	}

	c.log.Infof("ProductClient: Updating product %s (new image: %t)", id, draft.Image != nil)
	raw, err := c.api.Call(ctx, Request{
		Method:       http.MethodPut,
		Path:         productPath(id),
		Body:         body,
		ContentType:  contentType,
		AuthRequired: true,
		Credentials:  c.creds,
	})
	if err != nil {
		return nil, c.classify("update product "+id, err)
	}
	if raw == nil {
		return nil, nil
	}
	p, err := decodeProduct(raw)
	if err != nil {
		c.log.Debugf("ProductClient: Update of %s answered without a product payload: %v", id, err)
		return nil, nil
	}
	return p, nil
}

func (c *ProductClient) Remove(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("remove product: %w", domain.ErrNotFound)
	}
	c.log.Infof("ProductClient: Deleting product %s", id)
	_, err := c.api.Call(ctx, Request{
		Method:       http.MethodDelete,
		Path:         productPath(id),
		AuthRequired: true,
		Credentials:  c.creds,
	})
	if err != nil {
		return c.classify("remove product "+id, err)
	}
	return nil
}

// ImageURL resolves a server-relative image path against the API origin.
func (c *ProductClient) ImageURL(ref string) string {
	return ResolveImageURL(c.api.BaseURL(), ref)
}

func ResolveImageURL(base, ref string) string {
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:") {
		return ref
	}
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}
	return strings.TrimRight(base, "/") + ref
}

func (c *ProductClient) classify(op string, err error) error {
	var statusErr *domain.HTTPStatusError
	if errors.As(err, &statusErr) {
		kind := domain.Classify(statusErr.StatusCode)
		c.log.Warnf("ProductClient: %s failed with status %d (%v)", op, statusErr.StatusCode, kind)
		return fmt.Errorf("%s: %w: %w", op, kind, statusErr)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func productPath(id string) string {
	return productsPath + "/" + url.PathEscape(id)
}

func (d productDTO) toDomain() (domain.Product, error) {
	if err := validate.Struct(d); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%w: createdAt: %w", domain.ErrParse, err)
	}
	return domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       *d.Price,
		ImageRef:    d.ImageRef,
		CreatedAt:   createdAt,
	}, nil
}

func decodeProduct(raw json.RawMessage) (*domain.Product, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty body", domain.ErrParse)
	}
	var dto productDTO
	if err := json.Unmarshal(unwrap(raw, "product", "data", "Data"), &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	p, err := dto.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// unwrap returns the value under the first envelope key present in a JSON
// object, or raw itself when raw is not such an envelope.
func unwrap(raw json.RawMessage, keys ...string) json.RawMessage {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return raw
	}
	if _, ok := envelope["_id"]; ok {
		return raw
	}
	for _, k := range keys {
		if v, ok := envelope[k]; ok {
			return v
		}
	}
	return raw
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeDraft writes the multipart payload: nombre, descripcion, precio and,
// when present, imagen as a file part carrying the image content type.
func encodeDraft(draft domain.Draft, price float64) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := []struct {
		name  domain.Field
		value string
	}{
		{domain.FieldName, strings.TrimSpace(draft.Name)},
		{domain.FieldDescription, strings.TrimSpace(draft.Description)},
		{domain.FieldPrice, strconv.FormatFloat(price, 'f', -1, 64)},
	}
	for _, f := range fields {
		if err := w.WriteField(string(f.name), f.value); err != nil {
			return nil, "", err
		}
	}

	if draft.Image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			domain.FieldImage, quoteEscaper.Replace(draft.Image.FileName)))
		h.Set("Content-Type", draft.Image.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(draft.Image.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
