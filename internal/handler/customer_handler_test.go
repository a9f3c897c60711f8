package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-service/internal/db"
	"github.com/unclebandit/customer-service/internal/handler"
	"github.com/unclebandit/customer-service/internal/model"
	"github.com/unclebandit/customer-service/internal/repository"
	"github.com/unclebandit/customer-service/internal/service"
)

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("down") }

func setup(t *testing.T) (http.Handler, *sql.DB, []model.Customer) {
	t.Helper()

	ctx := context.Background()
	conn, err := db.Open(ctx, db.Config{Driver: db.SQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(ctx, conn, db.SQLite))

	repo := repository.NewCustomerRepository(conn, db.SQLite)
	seeded, err := service.NewSeeder(repo).Seed(ctx)
	require.NoError(t, err)

	h := handler.NewCustomerHandler(service.NewCustomerService(repo, nil), conn)
	return h.Router(), conn, seeded
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCreateCustomerHandler(t *testing.T) {
	h, _, _ := setup(t)

	w := do(t, h, http.MethodPost, "/customers", map[string]string{
		"first_name": "Kone",
		"last_name":  "Awa",
		"email":      "awa@gmail.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var c model.Customer
	require.NoError(t, json.NewDecoder(w.Body).Decode(&c))
	assert.NotZero(t, c.ID)
	assert.Equal(t, "awa@gmail.com", c.Email)
}

func TestCreateCustomerHandlerErrors(t *testing.T) {
	h, _, _ := setup(t)

	t.Run("duplicate email", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/customers", map[string]string{
			"first_name": "X", "last_name": "Y", "email": "tata@gmail.com",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/customers", map[string]string{
			"first_name": "X", "last_name": "Y", "email": "nope",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var res map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
		assert.Contains(t, res["error"], "invalid request body")
	})
}

func TestGetCustomerHandler(t *testing.T) {
	h, _, seeded := setup(t)

	w := do(t, h, http.MethodGet, "/customers/"+strconv.FormatInt(seeded[1].ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var c model.Customer
	require.NoError(t, json.NewDecoder(w.Body).Decode(&c))
	assert.Equal(t, seeded[1], c)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/customers/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/customers/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/customers/0", nil).Code)
}

func TestListCustomersHandler(t *testing.T) {
	h, _, seeded := setup(t)

	t.Run("by email", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/customers?email=jobdebakary@gmail.com", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var c model.Customer
		require.NoError(t, json.NewDecoder(w.Body).Decode(&c))
		assert.Equal(t, "Bakary", c.LastName)
	})

	t.Run("by unknown email", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/customers?email=nonexistent@x.com", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("by first name", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/customers?first_name=ouat", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cs []model.Customer
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cs))
		assert.ElementsMatch(t, seeded, cs)
	})

	t.Run("no first name match is an empty array", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/customers?first_name=zz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("all", func(t *testing.T) {
		w := do(t, h, http.MethodGet, "/customers", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cs []model.Customer
		require.NoError(t, json.NewDecoder(w.Body).Decode(&cs))
		assert.Equal(t, seeded, cs)
	})
}

func TestStorageUnavailableHandler(t *testing.T) {
	h, conn, _ := setup(t)
	require.NoError(t, conn.Close())

	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/customers", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/customers/1", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, h, http.MethodGet, "/healthz", nil).Code)
}

func TestHealth(t *testing.T) {
	h, _, _ := setup(t)
	w := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	down := handler.NewCustomerHandler(nil, failingPinger{}).Router()
	assert.Equal(t, http.StatusServiceUnavailable, do(t, down, http.MethodGet, "/healthz", nil).Code)
}
