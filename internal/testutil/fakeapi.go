// Package testutil provides an in-process stand-in for the remote product API.
package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WireProduct is a product as the remote API stores and serves it.
type WireProduct struct {
	ID          string  `json:"_id"`
	Name        string  `json:"nombre"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio"`
	ImageRef    string  `json:"imagen"`
	CreatedAt   string  `json:"createdAt"`
}

// RecordedRequest is what the fake saw for one call.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Fields        map[string]string
	FileName      string
	FileType      string
	FileData      []byte
}

type forcedResponse struct {
	status int
	body   string
}

// FakeAPI serves /api/products and /api/auth/login from memory.
// Newest products are listed first.
type FakeAPI struct {
	Server *httptest.Server
	Token  string

	mu       sync.Mutex
	products []WireProduct
	requests []RecordedRequest
	forced   map[string]forcedResponse
	users    map[string]string
	nextID   int
	now      time.Time
}

func NewFakeAPI(token string) *FakeAPI {
	gin.SetMode(gin.TestMode)
	f := &FakeAPI{
		Token:  token,
		forced: map[string]forcedResponse{},
		users:  map[string]string{},
		now:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	r := gin.New()
	r.Use(f.record, f.forcedStatus)
	api := r.Group("/api")
	{
		api.POST("/auth/login", f.login)
		api.GET("/products", f.list)
		api.GET("/products/:id", f.get)
		api.POST("/products", f.requireToken, f.create)
		api.PUT("/products/:id", f.requireToken, f.update)
		api.DELETE("/products/:id", f.requireToken, f.remove)
	}
	f.Server = httptest.NewServer(r)
	return f
}

func (f *FakeAPI) URL() string { return f.Server.URL }

func (f *FakeAPI) Close() { f.Server.Close() }

// Seed adds a product as if it had been created earlier. It returns the product.
func (f *FakeAPI) Seed(p WireProduct) WireProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		f.nextID++
		p.ID = "p" + strconv.Itoa(f.nextID)
	}
	if p.CreatedAt == "" {
		p.CreatedAt = f.tick()
	}
	f.products = append([]WireProduct{p}, f.products...)
	return p
}

// AddUser registers login credentials.
func (f *FakeAPI) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// Fail forces the next call matching method and path to answer status.
func (f *FakeAPI) Fail(method, path string, status int) {
	f.FailWith(method, path, status, fmt.Sprintf(`{"error":"forced status %d"}`, status))
}

// FailWith forces the next call matching method and path to answer status with body.
func (f *FakeAPI) FailWith(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forced[method+" "+path] = forcedResponse{status: status, body: body}
}

func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo counts recorded calls for method (any path when path is "").
func (f *FakeAPI) RequestsTo(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && (path == "" || r.Path == path) {
			n++
		}
	}
	return n
}

func (f *FakeAPI) Products() []WireProduct {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WireProduct, len(f.products))
	copy(out, f.products)
	return out
}

func (f *FakeAPI) tick() string {
	ts := f.now.Format(time.RFC3339)
	f.now = f.now.Add(time.Minute)
	return ts
}

func (f *FakeAPI) record(c *gin.Context) {
	rec := RecordedRequest{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.ContentType(),
		Fields:        map[string]string{},
	}
	if rec.ContentType == "multipart/form-data" {
		if form, err := c.MultipartForm(); err == nil {
			for k, v := range form.Value {
				if len(v) > 0 {
					rec.Fields[k] = v[0]
				}
			}
			if files := form.File["imagen"]; len(files) > 0 {
				rec.FileName = files[0].Filename
				rec.FileType = files[0].Header.Get("Content-Type")
				if fh, err := files[0].Open(); err == nil {
					rec.FileData, _ = io.ReadAll(fh)
					fh.Close()
				}
			}
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	c.Next()
}

func (f *FakeAPI) forcedStatus(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path
	f.mu.Lock()
	resp, ok := f.forced[key]
	delete(f.forced, key)
	f.mu.Unlock()
	if ok {
		c.Data(resp.status, "application/json", []byte(resp.body))
		c.Abort()
		return
	}
	c.Next()
}

func (f *FakeAPI) requireToken(c *gin.Context) {
	if f.Token != "" && c.GetHeader("Authorization") != "Bearer "+f.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No autorizado"})
		return
	}
	c.Next()
}

func (f *FakeAPI) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f.mu.Lock()
	password, ok := f.users[req.Email]
	f.mu.Unlock()
	if !ok || password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciales inválidas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": f.Token, "user": gin.H{"email": req.Email}})
}

func (f *FakeAPI) list(c *gin.Context) {
	c.JSON(http.StatusOK, f.Products())
}

func (f *FakeAPI) get(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	c.JSON(http.StatusOK, f.products[i])
}

func (f *FakeAPI) create(c *gin.Context) {
	p, ok := f.bindProduct(c, true)
	if !ok {
		return
	}
	f.mu.Lock()
	f.nextID++
	p.ID = "p" + strconv.Itoa(f.nextID)
	p.CreatedAt = f.tick()
	f.products = append([]WireProduct{p}, f.products...)
	f.mu.Unlock()
	c.JSON(http.StatusCreated, p)
}

func (f *FakeAPI) update(c *gin.Context) {
	p, ok := f.bindProduct(c, false)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	cur := &f.products[i]
	cur.Name, cur.Description, cur.Price = p.Name, p.Description, p.Price
	if p.ImageRef != "" {
		cur.ImageRef = p.ImageRef
	}
	c.JSON(http.StatusOK, *cur)
}

func (f *FakeAPI) remove(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Producto no encontrado"})
		return
	}
	f.products = append(f.products[:i], f.products[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}

func (f *FakeAPI) bindProduct(c *gin.Context, imageRequired bool) (WireProduct, bool) {
	name, desc, priceStr := c.PostForm("nombre"), c.PostForm("descripcion"), c.PostForm("precio")
	price, err := strconv.ParseFloat(priceStr, 64)
	if name == "" || desc == "" || err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos de producto inválidos"})
		return WireProduct{}, false
	}
	p := WireProduct{Name: name, Description: desc, Price: price}
	if fh, err := c.FormFile("imagen"); err == nil {
		p.ImageRef = "/uploads/" + fh.Filename
	} else if imageRequired {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La imagen es obligatoria"})
		return WireProduct{}, false
	}
	return p, true
}

func (f *FakeAPI) indexOf(id string) int {
	for i, p := range f.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// QuietLogger returns a logrus logger that discards output.
func QuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
