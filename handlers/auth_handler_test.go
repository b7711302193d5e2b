package handlers

import (
	"net/http"
	"testing"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
)

func TestSignupAndLogin(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	resp := doRequest(t, app, "POST", "/signup", "", map[string]interface{}{
		"username":  "alice",
		"pass_word": "secret123",
		"email":     "alice@example.com",
		"full_name": "Alice Baker",
		"user_role": "customer",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d", resp.StatusCode)
	}

	// Login with the same credentials must succeed and yield a token
	// decoding to the created user's id.
	resp = doRequest(t, app, "POST", "/login", "", map[string]interface{}{
		"username":  "alice",
		"pass_word": "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	tokenString, ok := body["token"].(string)
	if !ok || tokenString == "" {
		t.Fatal("login response missing token")
	}

	userID, role, err := utils.ParseToken(tokenString)
	if err != nil {
		t.Fatalf("token did not parse: %v", err)
	}
	if role != "customer" {
		t.Errorf("expected role customer in token, got %q", role)
	}

	user := body["user"].(map[string]interface{})
	if float64(userID) != user["id"].(float64) {
		t.Errorf("token user id %d does not match login payload %v", userID, user["id"])
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)
	createUser(t, db, "bob", "customer")

	resp := doRequest(t, app, "POST", "/signup", "", map[string]interface{}{
		"username":  "bob",
		"pass_word": "secret123",
		"email":     "other@example.com",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate username, got %d", resp.StatusCode)
	}
}

func TestSignupInvalidRole(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	resp := doRequest(t, app, "POST", "/signup", "", map[string]interface{}{
		"username":  "carol",
		"pass_word": "secret123",
		"email":     "carol@example.com",
		"user_role": "superuser",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid role, got %d", resp.StatusCode)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)
	createUser(t, db, "dave", "customer")

	resp := doRequest(t, app, "POST", "/login", "", map[string]interface{}{
		"username":  "dave",
		"pass_word": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.StatusCode)
	}
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	resp := doRequest(t, app, "GET", "/cart", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "GET", "/cart", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", resp.StatusCode)
	}
}

func TestProfileListsOrders(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	user := createUser(t, db, "erin", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Carrot Cake", 10, 5, 0, category.ID)
	token := tokenFor(t, user)

	doRequest(t, app, "POST", "/cart/add", token, map[string]interface{}{
		"product_id": product.ID, "quantity": 1,
	})
	doRequest(t, app, "POST", "/checkout", token, map[string]interface{}{})

	resp := doRequest(t, app, "GET", "/profile", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	orders := body["orders"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("expected 1 order in profile, got %d", len(orders))
	}
	profile := body["user_profile"].(map[string]interface{})
	if profile["number_of_orders"].(float64) != 1 {
		t.Errorf("expected number_of_orders 1, got %v", profile["number_of_orders"])
	}
}
