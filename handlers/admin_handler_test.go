package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
	"gorm.io/gorm"
)

func TestAdminRoutesForbiddenForCustomers(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	customer := createUser(t, db, "plain", "customer")
	token := tokenFor(t, customer)

	routes := []struct {
		method, target string
	}{
		{"GET", "/admin/"},
		{"GET", "/admin/dashboard"},
		{"GET", "/admin/products"},
		{"POST", "/admin/product/add"},
		{"GET", "/admin/orders"},
		{"GET", "/admin/users"},
		{"PUT", "/admin/user/change-password/1"},
		{"DELETE", "/admin/user/delete/1"},
		{"GET", "/admin/reviews"},
	}

	for _, r := range routes {
		resp := doRequest(t, app, r.method, r.target, token, map[string]interface{}{})
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s: expected 403 for customer, got %d", r.method, r.target, resp.StatusCode)
		}
	}
}

func TestAdminAddProduct(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	category := createCategory(t, db, "Cakes")
	token := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", "/admin/product/add", token, map[string]interface{}{
		"product_name": "Black Forest",
		"description":  "Cherries and cream.",
		"price":        22.50,
		"stock":        12,
		"category_id":  category.ID,
		"discount":     5,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add product: expected 201, got %d", resp.StatusCode)
	}

	var product models.Product
	if err := db.Where("name = ?", "Black Forest").First(&product).Error; err != nil {
		t.Fatalf("product not persisted: %v", err)
	}
	if !product.IsActive {
		t.Error("expected new product to be active")
	}

	// Missing price fails form validation.
	resp = doRequest(t, app, "POST", "/admin/product/add", token, map[string]interface{}{
		"product_name": "No Price",
		"category_id":  category.ID,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for missing price, got %d", resp.StatusCode)
	}

	// Unknown category is rejected.
	resp = doRequest(t, app, "POST", "/admin/product/add", token, map[string]interface{}{
		"product_name": "Orphan",
		"price":        3.00,
		"category_id":  9999,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown category, got %d", resp.StatusCode)
	}
}

func TestAdminUpdatePriceAndDiscount(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Linzer", 10.00, 5, 0, category.ID)
	token := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/admin/product/update-price/%d", product.ID), token, map[string]interface{}{
		"new_price": 12.50,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update price: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "POST", fmt.Sprintf("/admin/product/update-discount/%d", product.ID), token, map[string]interface{}{
		"new_discount": 15,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update discount: expected 200, got %d", resp.StatusCode)
	}

	var refreshed models.Product
	db.First(&refreshed, product.ID)
	if refreshed.Price != 12.50 || refreshed.Discount != 15 {
		t.Errorf("expected price 12.50/discount 15, got %.2f/%.0f", refreshed.Price, refreshed.Discount)
	}

	// Out-of-range values are rejected by validation.
	resp = doRequest(t, app, "POST", fmt.Sprintf("/admin/product/update-price/%d", product.ID), token, map[string]interface{}{
		"new_price": -4,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative price, got %d", resp.StatusCode)
	}
	resp = doRequest(t, app, "POST", fmt.Sprintf("/admin/product/update-discount/%d", product.ID), token, map[string]interface{}{
		"new_discount": 150,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for discount over 100, got %d", resp.StatusCode)
	}
}

func TestAdminToggleProductHidesFromCatalog(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Stollen", 8.00, 5, 0, category.ID)
	token := tokenFor(t, admin)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/admin/product/toggle/%d", product.ID), token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "GET", "/products", "", nil)
	body := decodeBody(t, resp)
	if products := body["products"].([]interface{}); len(products) != 0 {
		t.Errorf("expected hidden product out of catalog, got %d products", len(products))
	}
}

func TestAdminDeleteProductClearsCartsAndReviews(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "shopper", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Panettone", 14.00, 10, 0, category.ID)

	db.Create(&models.CartItem{UserID: customer.ID, ProductID: product.ID, Quantity: 1})
	db.Create(&models.Review{ProductID: product.ID, UserID: customer.ID, Rating: 5})

	resp := doRequest(t, app, "DELETE", fmt.Sprintf("/admin/product/delete/%d", product.ID), tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete product: expected 200, got %d", resp.StatusCode)
	}

	var cartCount, reviewCount int64
	db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&cartCount)
	db.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&reviewCount)
	if cartCount != 0 || reviewCount != 0 {
		t.Errorf("expected cart items and reviews removed, got %d/%d", cartCount, reviewCount)
	}

	var deleted models.Product
	if err := db.First(&deleted, product.ID).Error; err != gorm.ErrRecordNotFound {
		t.Errorf("expected product gone from default scope, got err %v", err)
	}
}

func TestAdminUpdateOrderStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "shopper", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Galette", 6.00, 10, 0, category.ID)

	customerToken := tokenFor(t, customer)
	doRequest(t, app, "POST", "/cart/add", customerToken, map[string]interface{}{
		"product_id": product.ID, "quantity": 1,
	})
	resp := doRequest(t, app, "POST", "/checkout", customerToken, map[string]interface{}{})
	orderID := int(decodeBody(t, resp)["order_id"].(float64))
	target := fmt.Sprintf("/admin/order/update-status/%d", orderID)
	adminToken := tokenFor(t, admin)

	// Pending cannot jump straight to Shipped.
	resp = doRequest(t, app, "POST", target, adminToken, map[string]interface{}{"status": models.OrderStatusShipped})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for Pending->Shipped, got %d", resp.StatusCode)
	}

	for _, status := range []string{models.OrderStatusProcessing, models.OrderStatusShipped} {
		resp = doRequest(t, app, "POST", target, adminToken, map[string]interface{}{"status": status})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("transition to %s: expected 200, got %d", status, resp.StatusCode)
		}
	}

	// Shipped is terminal.
	resp = doRequest(t, app, "POST", target, adminToken, map[string]interface{}{"status": models.OrderStatusCancelled})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 transitioning out of Shipped, got %d", resp.StatusCode)
	}
}

func TestAdminChangeUserPassword(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "forgetful", "customer")

	resp := doRequest(t, app, "PUT", fmt.Sprintf("/admin/user/change-password/%d", customer.ID), tokenFor(t, admin), map[string]interface{}{
		"new_password": "brand-new-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("change password: expected 200, got %d", resp.StatusCode)
	}

	var refreshed models.User
	db.First(&refreshed, customer.ID)
	if !utils.CheckPasswordHash("brand-new-pass", refreshed.Password) {
		t.Error("new password does not verify against stored hash")
	}

	// Too-short passwords fail validation.
	resp = doRequest(t, app, "PUT", fmt.Sprintf("/admin/user/change-password/%d", customer.ID), tokenFor(t, admin), map[string]interface{}{
		"new_password": "abc",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for short password, got %d", resp.StatusCode)
	}
}

func TestAdminDeleteUserCascades(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "leaver", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Financier", 3.50, 10, 0, category.ID)

	customerToken := tokenFor(t, customer)
	doRequest(t, app, "POST", "/cart/add", customerToken, map[string]interface{}{
		"product_id": product.ID, "quantity": 2,
	})
	resp := doRequest(t, app, "POST", "/checkout", customerToken, map[string]interface{}{})
	orderID := int(decodeBody(t, resp)["order_id"].(float64))
	doRequest(t, app, "POST", fmt.Sprintf("/payment/create/%d", orderID), customerToken, map[string]interface{}{})
	doRequest(t, app, "POST", "/cart/add", customerToken, map[string]interface{}{
		"product_id": product.ID, "quantity": 1,
	})
	doRequest(t, app, "POST", "/product/Financier/review", customerToken, map[string]interface{}{"rating": 4})

	adminToken := tokenFor(t, admin)
	resp = doRequest(t, app, "DELETE", fmt.Sprintf("/admin/user/delete/%d", customer.ID), adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d", resp.StatusCode)
	}

	var carts, reviews, orders, details, payments int64
	db.Model(&models.CartItem{}).Where("user_id = ?", customer.ID).Count(&carts)
	db.Model(&models.Review{}).Where("user_id = ?", customer.ID).Count(&reviews)
	db.Model(&models.Order{}).Where("user_id = ?", customer.ID).Count(&orders)
	db.Model(&models.OrderDetail{}).Where("order_id = ?", orderID).Count(&details)
	db.Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&payments)
	if carts+reviews+orders+details+payments != 0 {
		t.Errorf("expected all user data removed, got carts=%d reviews=%d orders=%d details=%d payments=%d",
			carts, reviews, orders, details, payments)
	}

	// The order is gone for everyone, including the admin.
	resp = doRequest(t, app, "GET", fmt.Sprintf("/order/%d", orderID), adminToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for deleted user's order, got %d", resp.StatusCode)
	}

	// The deleted user's token no longer authenticates.
	resp = doRequest(t, app, "GET", "/cart", customerToken, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for deleted user, got %d", resp.StatusCode)
	}
}

func TestAdminDeleteUserSafeguards(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	colleague := createUser(t, db, "deputy", "admin")
	token := tokenFor(t, admin)

	resp := doRequest(t, app, "DELETE", fmt.Sprintf("/admin/user/delete/%d", admin.ID), token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 deleting own account, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "DELETE", fmt.Sprintf("/admin/user/delete/%d", colleague.ID), token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 deleting another admin, got %d", resp.StatusCode)
	}
}

func TestAdminDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "shopper", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Kouign-amann", 7.00, 10, 0, category.ID)

	customerToken := tokenFor(t, customer)
	doRequest(t, app, "POST", "/cart/add", customerToken, map[string]interface{}{
		"product_id": product.ID, "quantity": 2,
	})
	doRequest(t, app, "POST", "/checkout", customerToken, map[string]interface{}{})

	resp := doRequest(t, app, "GET", "/admin/dashboard", tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)

	counts := body["counts"].(map[string]interface{})
	if counts["orders"].(float64) != 1 {
		t.Errorf("expected 1 order, got %v", counts["orders"])
	}
	if counts["users"].(float64) != 2 {
		t.Errorf("expected 2 users, got %v", counts["users"])
	}
	if body["revenue"].(float64) != 14.00 {
		t.Errorf("expected revenue 14.00, got %v", body["revenue"])
	}
	if orders := body["recent_orders"].([]interface{}); len(orders) != 1 {
		t.Errorf("expected 1 recent order, got %d", len(orders))
	}
}

func TestAdminDeleteReviewByKey(t *testing.T) {
	db := setupTestDB(t)
	app := newTestApp(t, db)

	admin := createUser(t, db, "boss", "admin")
	customer := createUser(t, db, "shopper", "customer")
	category := createCategory(t, db, "Cakes")
	product := createProduct(t, db, "Savarin", 5.50, 10, 0, category.ID)

	db.Create(&models.Review{ProductID: product.ID, UserID: customer.ID, Rating: 1, ReviewText: "Stale."})

	target := fmt.Sprintf("/admin/review/delete/%d/%d", product.ID, customer.ID)
	resp := doRequest(t, app, "DELETE", target, tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete review: expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "DELETE", target, tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 deleting a missing review, got %d", resp.StatusCode)
	}
}
