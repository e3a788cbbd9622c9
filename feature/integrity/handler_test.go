package integrity

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lootdex/core/corpus"
	"lootdex/core/storage/mocks"
	"lootdex/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(client *mocks.Client) *fiber.App {
	app := fiber.New()
	NewHandler(newTestService(client)).RegisterRoutes(app)
	return app
}

func TestHandleCorpusCheck(t *testing.T) {
	cfg := corpus.Config{Prefix: "data"}
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	for _, object := range checks.RequiredCorpusObjects(cfg) {
		if object == cfg.FlatTablesObject() {
			client.On("ListObjects", mock.Anything, "test-bucket", listOpts(object)).
				Return(objectChan())
			continue
		}
		client.On("ListObjects", mock.Anything, "test-bucket", listOpts(object)).
			Return(objectChan(object))
	}

	req := httptest.NewRequest(http.MethodGet, "/integrity/corpus", nil)
	resp, err := newTestApp(client).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Status  string   `json:"status"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "checked", payload.Status)
	assert.Equal(t, []string{cfg.FlatTablesObject()}, payload.Missing)
}

func TestHandleCorpusCheckFailure(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, errors.New("connection refused"))

	req := httptest.NewRequest(http.MethodGet, "/integrity/corpus", nil)
	resp, err := newTestApp(client).Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
