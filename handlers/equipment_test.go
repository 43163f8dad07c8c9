package handlers

import (
	"backend/models"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c.ShouldBindJSON(out)
}

func TestChangeTemplateRequestBindsWithoutRef(t *testing.T) {
	var req models.ChangeTemplateRequest
	err := bindJSON(t, `{"Template": "LV Motor", "Description": "Transfer Pump A"}`, &req)

	// The Ref comes from the URL path. A body naming only the new template
	// must bind cleanly rather than fail a required check on a field the
	// endpoint ignores.
	assert.NoError(t, err)
	assert.Equal(t, "LV Motor", req.Template)
	assert.Equal(t, "Transfer Pump A", req.Description)
}

func TestChangeTemplateRequestRequiresTemplate(t *testing.T) {
	var req models.ChangeTemplateRequest
	err := bindJSON(t, `{"Description": "Transfer Pump A"}`, &req)

	assert.Error(t, err)
}
