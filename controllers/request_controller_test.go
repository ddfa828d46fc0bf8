package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agroconnect/agroconnect_backend/middleware"
	"github.com/agroconnect/agroconnect_backend/models"
)

func newAuthedContext(t *testing.T, method, path string, userID primitive.ObjectID, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", &jwt.Token{Claims: &middleware.JwtCustomClaims{
		UserID: userID.Hex(),
		Role:   role,
	}})
	c.Set("userId", userID.Hex())
	c.Set("role", role)
	return c, rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// Providers can never delete requests. The role guard answers before the
// request is loaded, so the outcome is the same whether the request is
// unassigned, assigned to the caller, or already completed.
func TestDeleteRequestProviderAlwaysForbidden(t *testing.T) {
	rc := &RequestController{}

	for _, name := range []string{"unassigned", "assigned to caller", "completed"} {
		t.Run(name, func(t *testing.T) {
			providerID := primitive.NewObjectID()
			requestID := primitive.NewObjectID()

			c, rec := newAuthedContext(t, http.MethodDelete, "/api/requests/"+requestID.Hex(), providerID, models.RoleProvider)
			c.SetParamNames("id")
			c.SetParamValues(requestID.Hex())

			if err := rc.DeleteRequest(c); err != nil {
				t.Fatalf("DeleteRequest: %v", err)
			}
			if rec.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
			}
			resp := decodeResponse(t, rec)
			if resp.Status != http.StatusForbidden {
				t.Errorf("envelope status = %d, want %d", resp.Status, http.StatusForbidden)
			}
		})
	}
}

func TestDeleteRequestInvalidID(t *testing.T) {
	rc := &RequestController{}

	c, rec := newAuthedContext(t, http.MethodDelete, "/api/requests/not-an-id", primitive.NewObjectID(), models.RoleFarmer)
	c.SetParamNames("id")
	c.SetParamValues("not-an-id")

	if err := rc.DeleteRequest(c); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestDeleteRequestUnauthenticated(t *testing.T) {
	rc := &RequestController{}
	requestID := primitive.NewObjectID()

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/requests/"+requestID.Hex(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(requestID.Hex())

	if err := rc.DeleteRequest(c); err != nil {
		t.Fatalf("DeleteRequest: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
