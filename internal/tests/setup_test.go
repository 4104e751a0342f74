// internal/tests/setup_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/javajoker/agrimarket-backend/internal/config"
	"github.com/javajoker/agrimarket-backend/internal/database"
	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/router"
	"github.com/javajoker/agrimarket-backend/internal/services"
)

// identities maps fake federated tokens to the identity they stand for.
type identities map[string]*services.Identity

func (m identities) Verify(_ context.Context, token string) (*services.Identity, error) {
	if id, ok := m[token]; ok {
		return id, nil
	}
	return nil, errors.New("unknown token")
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{PublicBaseURL: "http://127.0.0.1:5000"},
		Database:    config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(dir, "instance", "database.db")},
		Session:     config.SessionConfig{Backend: config.SessionBackendMemory, CookieName: "session"},
		Storage: config.StorageConfig{
			Backend:         config.StorageBackendLocal,
			UploadDir:       filepath.Join(dir, "uploads"),
			MaxUploadSizeMB: 1,
		},
		Requests: config.RequestsConfig{StatusPolicy: config.StatusPolicyLenient},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://127.0.0.1:5500"}},
		I18n:     config.I18nConfig{DefaultLocale: "en"},
	}
}

// AppSuite runs the whole HTTP surface against a throwaway SQLite file.
type AppSuite struct {
	suite.Suite
	cfg    *config.Config
	db     *gorm.DB
	files  services.FileStore
	router *gin.Engine
}

func (s *AppSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	s.Require().NoError(i18n.Initialize("en"))
}

func (s *AppSuite) SetupTest() {
	s.cfg = testConfig(s.T().TempDir())

	db, err := database.Initialize(s.cfg.Database)
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(db))
	s.db = db

	files, err := services.NewFileStore(s.cfg)
	s.Require().NoError(err)
	s.files = files

	sessions, err := services.NewSessionStore(s.cfg, db)
	s.Require().NoError(err)
	policy, err := services.NewStatusPolicy(s.cfg.Requests.StatusPolicy)
	s.Require().NoError(err)

	deps := router.Dependencies{
		DB:       db,
		Sessions: sessions,
		Files:    files,
		Verifier: identities{"google-carol": {Email: "carol@example.com", Name: "Carol"}},
		Policy:   policy,
	}
	s.router = router.Initialize(s.cfg, deps, router.NewServices(deps))
}

func (s *AppSuite) TearDownTest() {
	database.Close(s.db)
}

// client carries a session cookie between requests, like a browser would.
type client struct {
	s      *AppSuite
	cookie *http.Cookie
}

func (s *AppSuite) newClient() *client {
	return &client{s: s}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.s.router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name != c.s.cfg.Session.CookieName {
			continue
		}
		if cookie.MaxAge < 0 || cookie.Value == "" {
			c.cookie = nil
		} else {
			c.cookie = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
		}
	}
	return w
}

func (c *client) json(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		c.s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

type upload struct {
	field    string
	filename string
	content  []byte
}

func (c *client) multipart(path string, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		c.s.Require().NoError(mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		c.s.Require().NoError(err)
		_, err = part.Write(f.content)
		c.s.Require().NoError(err)
	}
	c.s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (s *AppSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *AppSuite) message(w *httptest.ResponseRecorder) string {
	var body struct {
		Message string `json:"message"`
	}
	s.decode(w, &body)
	return body.Message
}

// register creates an account through the API and returns its row.
func (s *AppSuite) register(name, email, password string) *models.User {
	w := s.newClient().json(http.MethodPost, "/api/register", map[string]string{
		"full_name":    name,
		"email":        email,
		"password":     password,
		"phone_number": "0911222333",
		"address":      "7 Market Street",
		"gender":       "female",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var user models.User
	s.Require().NoError(s.db.Where("email = ?", email).First(&user).Error)
	return &user
}

// loggedIn registers (optionally promoting to seller) and logs in.
func (s *AppSuite) loggedIn(name, email string, seller bool) (*client, *models.User) {
	user := s.register(name, email, "pw123")
	if seller {
		s.Require().NoError(s.db.Model(user).Update("is_seller", true).Error)
		user.IsSeller = true
	}

	c := s.newClient()
	w := c.json(http.MethodPost, "/api/login", map[string]string{"email": email, "password": "pw123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Require().NotNil(c.cookie)
	return c, user
}

func (s *AppSuite) addProduct(c *client, name, filename string) *httptest.ResponseRecorder {
	return c.multipart("/api/products/add",
		map[string]string{"name": name, "price": "12.50", "quantity": "20 kg"},
		upload{field: "image", filename: filename, content: []byte("fake image bytes")},
	)
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

func newDelete(path string) *http.Request {
	return newRequest(http.MethodDelete, path, nil)
}
