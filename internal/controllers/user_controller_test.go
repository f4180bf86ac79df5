package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type userPayload struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func TestListUsersAdminOnly(t *testing.T) {
	r := setupAPI(t)
	userToken, _ := registerUser(t, r, "Alice", "alice@example.com", "user")
	techToken, _ := registerUser(t, r, "Tina", "tina@example.com", "technician")
	adminToken, _ := registerUser(t, r, "Root", "root@example.com", "admin")

	require.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodGet, "/api/users", userToken, nil).Code)
	require.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodGet, "/api/users", techToken, nil).Code)

	w := doRequest(t, r, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []userPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &users))
	require.Len(t, users, 3)
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	r := setupAPI(t)
	aliceToken, aliceID := registerUser(t, r, "Alice", "alice@example.com", "user")
	bobToken, bobID := registerUser(t, r, "Bob", "bob@example.com", "user")
	adminToken, _ := registerUser(t, r, "Root", "root@example.com", "admin")

	alicePath := fmt.Sprintf("/api/users/%d", aliceID)

	// self
	w := doRequest(t, r, http.MethodGet, alicePath, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched userPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &fetched))
	require.Equal(t, aliceID, fetched.ID)

	// another user
	require.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodGet, alicePath, bobToken, nil).Code)

	// admin fetches anyone
	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", bobID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserSelfOrAdmin(t *testing.T) {
	r := setupAPI(t)
	aliceToken, aliceID := registerUser(t, r, "Alice", "alice@example.com", "user")
	bobToken, _ := registerUser(t, r, "Bob", "bob@example.com", "user")
	adminToken, _ := registerUser(t, r, "Root", "root@example.com", "admin")

	alicePath := fmt.Sprintf("/api/users/%d", aliceID)

	// self update, sparse
	w := doRequest(t, r, http.MethodPut, alicePath, aliceToken, gin.H{"name": "Alice Renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var updated userPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	require.Equal(t, "Alice Renamed", updated.Name)
	require.Equal(t, "alice@example.com", updated.Email)

	// another user may not touch the account
	require.Equal(t, http.StatusForbidden,
		doRequest(t, r, http.MethodPut, alicePath, bobToken, gin.H{"name": "Hacked"}).Code)

	// role changes are admin-only, even on your own account
	require.Equal(t, http.StatusForbidden,
		doRequest(t, r, http.MethodPut, alicePath, aliceToken, gin.H{"role": "admin"}).Code)

	w = doRequest(t, r, http.MethodPut, alicePath, adminToken, gin.H{"role": "technician"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &updated))
	require.Equal(t, "technician", updated.Role)
}

func TestCreateUserAdminOnly(t *testing.T) {
	r := setupAPI(t)
	userToken, _ := registerUser(t, r, "Alice", "alice@example.com", "user")
	adminToken, _ := registerUser(t, r, "Root", "root@example.com", "admin")

	payload := gin.H{
		"name":     "Tina",
		"email":    "tina@example.com",
		"password": "secret123",
		"role":     "technician",
	}

	require.Equal(t, http.StatusForbidden,
		doRequest(t, r, http.MethodPost, "/api/users", userToken, payload).Code)

	w := doRequest(t, r, http.MethodPost, "/api/users", adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created userPayload
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &created))
	require.Equal(t, "technician", created.Role)

	// duplicate email conflicts
	require.Equal(t, http.StatusConflict,
		doRequest(t, r, http.MethodPost, "/api/users", adminToken, payload).Code)
}

func TestDeleteUserAdminOnly(t *testing.T) {
	r := setupAPI(t)
	aliceToken, aliceID := registerUser(t, r, "Alice", "alice@example.com", "user")
	bobToken, _ := registerUser(t, r, "Bob", "bob@example.com", "user")
	adminToken, _ := registerUser(t, r, "Root", "root@example.com", "admin")

	alicePath := fmt.Sprintf("/api/users/%d", aliceID)

	require.Equal(t, http.StatusForbidden, doRequest(t, r, http.MethodDelete, alicePath, bobToken, nil).Code)

	require.Equal(t, http.StatusOK, doRequest(t, r, http.MethodDelete, alicePath, adminToken, nil).Code)

	// the deleted user's outstanding token no longer authenticates
	require.Equal(t, http.StatusUnauthorized,
		doRequest(t, r, http.MethodGet, "/api/auth/me", aliceToken, nil).Code)
}
