package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage/memory"
)

func setupApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.New()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	New(
		service.NewExpenseService(store),
		service.NewUserService(store),
		service.NewGroupService(store, store),
	).Register(app)
	return app, store
}

// request performs a JSON request against the app and decodes the response
// body into a generic map.
func request(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func createUser(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	code, body := request(t, app, http.MethodPost, "/users", fiber.Map{
		"name":  name,
		"email": email,
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)
	id, _ := body["userId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCreateUserEndpoint(t *testing.T) {
	app, _ := setupApp(t)

	createUser(t, app, "John Doe", "john@example.com")

	// Duplicate email.
	code, body := request(t, app, http.MethodPost, "/users", fiber.Map{
		"name":  "Someone Else",
		"email": "john@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "already exists")

	// Missing fields.
	code, _ = request(t, app, http.MethodPost, "/users", fiber.Map{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGroupEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	alice := createUser(t, app, "Alice", "alice@example.com")
	bob := createUser(t, app, "Bob", "bob@example.com")
	carol := createUser(t, app, "Carol", "carol@example.com")

	code, body := request(t, app, http.MethodPost, "/groups/create", fiber.Map{
		"groupId":   "flat",
		"groupName": "Flatmates",
		"members":   []string{alice, bob},
	})
	require.Equal(t, http.StatusCreated, code, "body: %v", body)

	// Duplicate group ID.
	code, _ = request(t, app, http.MethodPost, "/groups/create", fiber.Map{
		"groupId":   "flat",
		"groupName": "Other",
		"members":   []string{alice},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Unknown member.
	code, _ = request(t, app, http.MethodPost, "/groups/create", fiber.Map{
		"groupId":   "other",
		"groupName": "Other",
		"members":   []string{"ghost"},
	})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = request(t, app, http.MethodPost, "/groups/flat/members/add", fiber.Map{
		"members": []string{carol},
	})
	assert.Equal(t, http.StatusOK, code)

	code, body = request(t, app, http.MethodGet, "/groups/flat", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["members"], 3)

	code, _ = request(t, app, http.MethodPost, "/groups/flat/members/remove", fiber.Map{
		"members": []string{bob},
	})
	assert.Equal(t, http.StatusOK, code)

	code, body = request(t, app, http.MethodGet, "/groups/flat", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["members"], 2)

	code, _ = request(t, app, http.MethodGet, "/groups/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestExpenseAndLiabilityEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	alice := createUser(t, app, "Alice", "alice@example.com")
	bob := createUser(t, app, "Bob", "bob@example.com")

	code, _ := request(t, app, http.MethodPost, "/groups/create", fiber.Map{
		"groupId":   "flat",
		"groupName": "Flatmates",
		"members":   []string{alice, bob},
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := request(t, app, http.MethodPost, "/expenses/add", fiber.Map{
		"groupId": "flat",
		"expense": fiber.Map{
			"description": "rent",
			"amount":      100,
			"paidBy":      alice,
			"splitBetween": []fiber.Map{
				{"user": alice, "percentage": 50},
				{"user": bob, "percentage": 50},
			},
		},
	})
	require.Equal(t, http.StatusOK, code, "body: %v", body)
	deltas, ok := body["appliedDeltas"].([]any)
	require.True(t, ok, "body: %v", body)
	require.Len(t, deltas, 1)

	code, body = request(t, app, http.MethodGet, "/users/"+bob+"/liability", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "50", body["totalOwed"])
	assert.Equal(t, "0", body["totalTake"])
	balances, ok := body["balances"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "-50", balances[alice])

	// Liability for a user with no ledger history.
	code, _ = request(t, app, http.MethodGet, "/users/ghost/liability", nil)
	assert.Equal(t, http.StatusNotFound, code)

	// Percentages not summing to 100.
	code, body = request(t, app, http.MethodPost, "/expenses/add", fiber.Map{
		"groupId": "flat",
		"expense": fiber.Map{
			"amount": 100,
			"paidBy": alice,
			"splitBetween": []fiber.Map{
				{"user": bob, "percentage": 99},
			},
		},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "invalid split")

	// Unknown group.
	code, _ = request(t, app, http.MethodPost, "/expenses/add", fiber.Map{
		"groupId": "nope",
		"expense": fiber.Map{
			"amount": 10,
			"paidBy": alice,
			"splitBetween": []fiber.Map{
				{"user": bob, "percentage": 100},
			},
		},
	})
	assert.Equal(t, http.StatusNotFound, code)

	// Group expense history.
	code, _ = request(t, app, http.MethodGet, "/expenses/flat", nil)
	assert.Equal(t, http.StatusOK, code)
}
