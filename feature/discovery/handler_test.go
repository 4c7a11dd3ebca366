package discovery

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"offer-reconciler/core/database"
	"offer-reconciler/core/models"
	"offer-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testConfig = Config{StateCacheMinutes: 60, MaxCasinos: 3}

func setupStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return database.NewStore(db)
}

func setupTestApp(t *testing.T) (*fiber.App, *database.Store) {
	t.Helper()
	store := setupStore(t)
	app := fiber.New()
	NewHandler(NewService(store, nil, testConfig, zap.NewNop())).RegisterRoutes(app)
	return app, store
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleDiscover(t *testing.T) {
	t.Run("Saves And Skips Duplicates", func(t *testing.T) {
		app, store := setupTestApp(t)
		ctx := context.Background()

		require.NoError(t, store.InsertState(ctx, &models.State{ID: "state-nj", Name: "New Jersey", Abbreviation: "NJ", CreationTime: time.Now()}))
		require.NoError(t, store.InsertCasino(ctx, &models.Casino{ID: "c1", Name: "BetMGM Casino", StateID: "state-nj", CreationTime: time.Now()}))

		status, body := post(t, app, "/discovery/nj", `{"casinos":[
			{"name":"BetMGM","website":"https://casino.betmgm.com"},
			{"name":"Golden Nugget","license_status":"active"}
		]}`)
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["success"])
		assert.EqualValues(t, 1, body["saved_count"])
		assert.EqualValues(t, 1, body["skipped_count"])

		duplicates := body["duplicates"].([]any)
		require.Len(t, duplicates, 1)
		assert.Equal(t, "contains", duplicates[0].(map[string]any)["reason"])

		casinos, err := store.CasinosByState(ctx, "state-nj")
		require.NoError(t, err)
		require.Len(t, casinos, 2)
		assert.Equal(t, "Golden Nugget", casinos[1].Name)
		assert.False(t, casinos[1].IsTracked)
	})

	t.Run("Creates Unknown State", func(t *testing.T) {
		app, store := setupTestApp(t)

		status, body := post(t, app, "/discovery/PA", `[{"name":"Rivers Casino"}]`)
		assert.Equal(t, 200, status)
		assert.EqualValues(t, 1, body["saved_count"])

		state, err := store.FindStateByAbbreviation(context.Background(), "PA")
		require.NoError(t, err)
		assert.Equal(t, "Pennsylvania", state.Name)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		app, _ := setupTestApp(t)

		status, body := post(t, app, "/discovery/NJ", `{"casinos":[{"name":""}]}`)
		assert.Equal(t, 400, status)
		assert.Equal(t, "validation failed", body["error"])
		assert.Equal(t, "required", body["fields"].(map[string]any)["name"])
	})

	t.Run("Too Many Casinos", func(t *testing.T) {
		app, _ := setupTestApp(t)

		status, body := post(t, app, "/discovery/NJ", `[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"}]`)
		assert.Equal(t, 400, status)
		assert.Contains(t, body["error"], "at most 3")
	})

	t.Run("Malformed Body", func(t *testing.T) {
		app, _ := setupTestApp(t)

		status, _ := post(t, app, "/discovery/NJ", `{"casinos":`)
		assert.Equal(t, 400, status)
	})
}

func TestHandleListCasinos(t *testing.T) {
	app, store := setupTestApp(t)
	ctx := context.Background()

	resp, err := app.Test(httptest.NewRequest("GET", "/discovery/NJ/casinos", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	require.NoError(t, store.InsertState(ctx, &models.State{ID: "state-nj", Name: "New Jersey", Abbreviation: "NJ", CreationTime: time.Now()}))
	require.NoError(t, store.InsertCasino(ctx, &models.Casino{ID: "c1", Name: "Borgata", StateID: "state-nj", CreationTime: time.Now()}))

	resp, err = app.Test(httptest.NewRequest("GET", "/discovery/nj/casinos", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var casinos []models.Casino
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&casinos))
	require.Len(t, casinos, 1)
	assert.Equal(t, "Borgata", casinos[0].Name)
}

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest(strings.NewReader(` [{"name":"Borgata"}]`))
	require.NoError(t, err)
	require.Len(t, req.Casinos, 1)

	req, err = DecodeRequest(strings.NewReader(`{"casinos":[{"name":"Borgata"},{"name":"Ocean"}]}`))
	require.NoError(t, err)
	assert.Len(t, req.Casinos, 2)

	_, err = DecodeRequest(strings.NewReader(`nope`))
	assert.ErrorIs(t, err, reconcile.ErrInvalidInput)
}

func TestLoader(t *testing.T) {
	feature := NewFeature(setupStore(t), nil, testConfig, zap.NewNop())

	assert.Equal(t, "discovery", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())
	assert.NoError(t, feature.Load(fiber.New()))
}
