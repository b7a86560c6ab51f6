package app_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/pkg/app"
	"github.com/AkaOko/react-trpo/pkg/auth"
	"github.com/AkaOko/react-trpo/pkg/cache"
	"github.com/AkaOko/react-trpo/pkg/event"
	"github.com/AkaOko/react-trpo/pkg/storage"
	"github.com/AkaOko/react-trpo/pkg/testkit"
	"github.com/AkaOko/react-trpo/pkg/ws"
)

type order struct {
	ID       uuid.UUID       `json:"id"`
	UserID   uuid.UUID       `json:"userId"`
	Status   string          `json:"status"`
	Total    decimal.Decimal `json:"total"`
	Products []struct {
		ProductID uuid.UUID `json:"productId"`
		Quantity  int       `json:"quantity"`
	} `json:"products"`
}

type KernelSuite struct {
	suite.Suite
	app     *app.App
	handler http.Handler
	stop    context.CancelFunc
	db      *gorm.DB

	client, admin, worker       *models.User
	clientTok, adminTok, workTok string
	ring                         *models.Product
}

func TestKernelSuite(t *testing.T) {
	suite.Run(t, new(KernelSuite))
}

func (s *KernelSuite) SetupTest() {
	t := s.T()
	s.db = testkit.DB(t)

	signer, err := auth.NewSigner("kernel-test-secret-0123456789abcdef", time.Hour)
	s.Require().NoError(err)
	disks := storage.NewManager("local")
	disks.Register("local", storage.NewLocalDisk(t.TempDir(), "/uploads"))

	a := &app.App{
		DB:      s.db,
		Cache:   cache.NewMemoryStore(),
		Storage: disks,
		Signer:  signer,
		Events:  event.New(),
		Hub:     ws.NewHub(nil),
	}
	a.Services = app.NewServices(s.db, a.Cache, disks.Default(), signer, a.Events)
	s.Require().NoError(a.Services.Orders.Init(context.Background()))
	a.Events.Listen("order.created", func(_ context.Context, p any) { _ = a.Hub.BroadcastJSON(p) })
	a.Events.Listen("order.status_changed", func(_ context.Context, p any) { _ = a.Hub.BroadcastJSON(p) })

	ctx, cancel := context.WithCancel(context.Background())
	s.stop = cancel
	go a.Hub.Run(ctx)

	s.handler, err = a.Handler(ctx.Done())
	s.Require().NoError(err)
	s.app = a

	s.client, s.clientTok = s.account(models.RoleClient)
	s.admin, s.adminTok = s.account(models.RoleAdmin)
	s.worker, s.workTok = s.account(models.RoleWorker)

	gold := models.Material{Name: "gold"}
	s.Require().NoError(s.db.Create(&gold).Error)
	s.ring = &models.Product{Name: "Solitaire", Type: models.ProductRing, Price: decimal.NewFromInt(1000), MaterialID: gold.ID}
	s.Require().NoError(s.db.Create(s.ring).Error)
}

func (s *KernelSuite) TearDownTest() {
	s.stop()
	s.app.Events.Wait()
}

func (s *KernelSuite) account(role models.Role) (*models.User, string) {
	hash, err := auth.HashPassword("password1")
	s.Require().NoError(err)
	id := uuid.New()
	u := models.User{Base: models.Base{ID: id}, Name: string(role), Email: id.String()[:8] + "@shop.test", Password: hash, Role: role}
	s.Require().NoError(s.db.Create(&u).Error)
	tok, err := s.app.Signer.GenerateToken(u.ID, string(u.Role))
	s.Require().NoError(err)
	return &u, tok
}

func (s *KernelSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	return testkit.Do(s.T(), s.handler, testkit.Call{Method: method, Path: path, Token: token, Body: body})
}

func (s *KernelSuite) totalOf(id uuid.UUID) decimal.Decimal {
	var u models.User
	s.Require().NoError(s.db.First(&u, "id = ?", id).Error)
	return u.TotalOrdersAmount
}

func (s *KernelSuite) TestPublicEndpoints() {
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodGet, "/", "", nil))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodGet, "/health", "", nil))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodGet, "/products", "", nil))

	metrics := s.do(http.MethodGet, "/metrics", "", nil)
	testkit.AssertStatus(s.T(), http.StatusOK, metrics)
	s.Contains(metrics.Body.String(), "jewelry_")

	missing := s.do(http.MethodGet, "/nowhere", "", nil)
	testkit.AssertStatus(s.T(), http.StatusNotFound, missing)
	s.Equal(http.StatusNotFound, testkit.Decode(s.T(), missing, nil).Status)

	testkit.AssertStatus(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/orders", "", nil))
	testkit.AssertStatus(s.T(), http.StatusUnauthorized, s.do(http.MethodGet, "/orders", "garbage", nil))
}

func (s *KernelSuite) TestRegisterAndLogin() {
	rec := s.do(http.MethodPost, "/register", "", map[string]string{"name": "Ann", "email": "ann@shop.test", "password": "secret-pw"})
	testkit.AssertStatus(s.T(), http.StatusCreated, rec)

	rec = s.do(http.MethodPost, "/register", "", map[string]string{"name": "Ann", "email": "ann@shop.test", "password": "secret-pw"})
	testkit.AssertStatus(s.T(), http.StatusConflict, rec)

	rec = s.do(http.MethodPost, "/register", "", map[string]string{"name": "W", "email": "w@shop.test", "password": "secret-pw", "role": "WORKER"})
	testkit.AssertStatus(s.T(), http.StatusForbidden, rec)
	rec = s.do(http.MethodPost, "/register", s.adminTok, map[string]string{"name": "W", "email": "w@shop.test", "password": "secret-pw", "role": "WORKER"})
	testkit.AssertStatus(s.T(), http.StatusCreated, rec)

	rec = s.do(http.MethodPost, "/register", "", map[string]string{"name": "", "email": "not-an-email"})
	testkit.AssertStatus(s.T(), http.StatusUnprocessableEntity, rec)

	rec = s.do(http.MethodPost, "/login", "", map[string]string{"email": "ann@shop.test", "password": "wrong"})
	testkit.AssertStatus(s.T(), http.StatusUnauthorized, rec)

	rec = s.do(http.MethodPost, "/login", "", map[string]string{"email": "ann@shop.test", "password": "secret-pw"})
	testkit.AssertStatus(s.T(), http.StatusOK, rec)
	var login struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	testkit.Decode(s.T(), rec, &login)
	s.NotEmpty(login.Token)
	s.Equal("CLIENT", login.User.Role)

	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodGet, "/profile", login.Token, nil))
}

func (s *KernelSuite) TestOrderLifecycle() {
	rec := s.do(http.MethodPost, "/orders", s.clientTok, map[string]any{
		"productIds": []uuid.UUID{s.ring.ID},
		"quantities": []any{"2"},
		"message":    "gift wrap",
	})
	testkit.AssertStatus(s.T(), http.StatusCreated, rec)
	var created order
	testkit.Decode(s.T(), rec, &created)
	s.Equal("NEW", created.Status)
	s.True(decimal.NewFromInt(2000).Equal(created.Total), created.Total.String())
	s.Require().Len(created.Products, 1)
	s.Equal(2, created.Products[0].Quantity)

	path := "/orders/" + created.ID.String()
	deliver := map[string]any{"status": "DELIVERED"}

	testkit.AssertStatus(s.T(), http.StatusForbidden, s.do(http.MethodPut, path, s.clientTok, deliver))
	testkit.AssertStatus(s.T(), http.StatusForbidden, s.do(http.MethodPut, path, s.workTok, deliver))
	s.True(s.totalOf(s.client.ID).IsZero())

	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodPut, path, s.adminTok, deliver))
	s.True(decimal.NewFromInt(2000).Equal(s.totalOf(s.client.ID)))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodPut, path, s.adminTok, deliver))
	s.True(decimal.NewFromInt(2000).Equal(s.totalOf(s.client.ID)))

	testkit.AssertStatus(s.T(), http.StatusUnprocessableEntity, s.do(http.MethodPut, path, s.adminTok, map[string]any{"status": "NEW"}))
	testkit.AssertStatus(s.T(), http.StatusUnprocessableEntity, s.do(http.MethodPut, path, s.adminTok, map[string]any{"products": []any{}}))
	testkit.AssertStatus(s.T(), http.StatusNotFound, s.do(http.MethodPut, "/orders/"+uuid.NewString(), s.adminTok, deliver))
	testkit.AssertStatus(s.T(), http.StatusBadRequest, s.do(http.MethodPut, path, s.adminTok, "{not json"))
}

func (s *KernelSuite) TestWorkerPath() {
	rec := s.do(http.MethodPost, "/orders", s.clientTok, map[string]any{"productIds": []uuid.UUID{s.ring.ID}})
	var created order
	testkit.Decode(s.T(), rec, &created)
	path := "/orders/worker/" + created.ID.String()

	testkit.AssertStatus(s.T(), http.StatusForbidden, s.do(http.MethodPut, path, s.adminTok, map[string]string{"status": "SHIPPED"}))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodPut, path, s.workTok, map[string]string{"status": "SHIPPED"}))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodPut, path, s.workTok, map[string]string{"status": "Доставлен"}))
	s.True(decimal.NewFromInt(1000).Equal(s.totalOf(s.client.ID)))
	testkit.AssertStatus(s.T(), http.StatusUnprocessableEntity, s.do(http.MethodPut, path, s.workTok, map[string]string{"status": "bogus"}))
}

func (s *KernelSuite) TestListings() {
	other, otherTok := s.account(models.RoleClient)
	place := func(tok string) order {
		rec := s.do(http.MethodPost, "/orders", tok, map[string]any{"productIds": []uuid.UUID{s.ring.ID}})
		testkit.AssertStatus(s.T(), http.StatusCreated, rec)
		var o order
		testkit.Decode(s.T(), rec, &o)
		time.Sleep(5 * time.Millisecond)
		return o
	}
	first := place(s.clientTok)
	place(otherTok)
	second := place(s.clientTok)

	var all []order
	rec := s.do(http.MethodGet, "/orders/worker", s.workTok, nil)
	testkit.AssertStatus(s.T(), http.StatusOK, rec)
	testkit.Decode(s.T(), rec, &all)
	s.Len(all, 3)

	testkit.AssertStatus(s.T(), http.StatusForbidden, s.do(http.MethodGet, "/orders/worker", s.clientTok, nil))

	var mine []order
	testkit.Decode(s.T(), s.do(http.MethodGet, "/profile/orders", s.clientTok, nil), &mine)
	s.Require().Len(mine, 2)
	s.Equal(second.ID, mine[0].ID)
	s.Equal(first.ID, mine[1].ID)

	var theirs []order
	testkit.Decode(s.T(), s.do(http.MethodGet, "/orders", otherTok, nil), &theirs)
	s.Require().Len(theirs, 1)
	s.Equal(other.ID, theirs[0].UserID)

	testkit.AssertStatus(s.T(), http.StatusForbidden, s.do(http.MethodGet, "/orders/"+first.ID.String(), otherTok, nil))
	testkit.AssertStatus(s.T(), http.StatusOK, s.do(http.MethodGet, "/orders/"+first.ID.String(), s.workTok, nil))
}

func (s *KernelSuite) TestGraphQL() {
	rec := s.do(http.MethodPost, "/graphql", "", map[string]any{"query": "{ products { name type } productTypes }"})
	testkit.AssertStatus(s.T(), http.StatusOK, rec)
	s.JSONEq(`{"data":{"products":[{"name":"Solitaire","type":"RING"}],"productTypes":["RING"]}}`, rec.Body.String())
}

func (s *KernelSuite) TestUpload() {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("image", "ring.png")
	s.Require().NoError(err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	send := func(tok string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(body.Bytes()))
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	testkit.AssertStatus(s.T(), http.StatusForbidden, send(s.clientTok))

	rec := send(s.adminTok)
	testkit.AssertStatus(s.T(), http.StatusCreated, rec)
	var out struct {
		URL string `json:"url"`
	}
	testkit.Decode(s.T(), rec, &out)
	s.True(strings.HasPrefix(out.URL, "/uploads/products/ring-"), out.URL)

	served := s.do(http.MethodGet, out.URL, "", nil)
	testkit.AssertStatus(s.T(), http.StatusOK, served)
}

func (s *KernelSuite) TestLiveFeed() {
	srv := httptest.NewServer(s.handler)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"

	_, resp, err := websocket.DefaultDialer.Dial(url+"?token="+s.clientTok, nil)
	s.Require().Error(err)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+s.workTok, nil)
	s.Require().NoError(err)
	defer conn.Close()
	s.Require().Eventually(func() bool { return s.app.Hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	testkit.AssertStatus(s.T(), http.StatusCreated,
		s.do(http.MethodPost, "/orders", s.clientTok, map[string]any{"productIds": []uuid.UUID{s.ring.ID}}))

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, msg, err := conn.ReadMessage()
	s.Require().NoError(err)
	s.Contains(string(msg), `"type":"order.created"`)
}

func TestJobs_RegistersDriftCheck(t *testing.T) {
	a := &app.App{}
	assert.Equal(t, 1, a.Jobs(time.Hour).Len())
	assert.Equal(t, 0, a.Jobs(0).Len())
	require.NotNil(t, a.Jobs(time.Minute))
}
