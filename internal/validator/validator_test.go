package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/trivia-backend/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func jsonContext(body string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindReportsJSONFieldNames(t *testing.T) {
	var req model.SignUpRequest
	fields := Bind(jsonContext(`{"email":"nope","password":"123","username":"ab"}`), &req)

	for _, f := range []string{"email", "password", "username"} {
		if fields[f] == "" {
			t.Errorf("missing error for %s: %v", f, fields)
		}
	}
	if !strings.Contains(fields["password"], "6") {
		t.Errorf("password message = %q", fields["password"])
	}
}

func TestBindAcceptsValidPayload(t *testing.T) {
	var req model.SignUpRequest
	if fields := Bind(jsonContext(`{"email":"a@b.co","password":"secret1","username":"alice"}`), &req); fields != nil {
		t.Fatalf("fields = %v", fields)
	}
	if req.Username != "alice" {
		t.Fatalf("req = %+v", req)
	}
}

func TestBindSyntaxError(t *testing.T) {
	var req model.LoginRequest
	fields := Bind(jsonContext(`{"email":`), &req)
	if fields["detail"] == "" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestBindQueryUsesFormNames(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&per_page=500", nil)

	var q model.ListResultsQuery
	fields := BindQuery(c, &q)
	if fields["per_page"] == "" {
		t.Fatalf("fields = %v", fields)
	}
}
