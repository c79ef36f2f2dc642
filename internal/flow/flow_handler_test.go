package flow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupFlowRouter(stores *fakeStores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlowHandler(NewFlowBuilder(stores, stores)).RegisterRoutes(router)
	return router
}

func getFlow(router *gin.Engine, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func TestGetMaterialFlowEndpoint(t *testing.T) {
	router := setupFlowRouter(chainStores())

	recorder := getFlow(router, "/materials/1/flow")
	assert.Equal(t, http.StatusOK, recorder.Code)

	var result FlowResult
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Material.ID)
	assert.Empty(t, result.Ancestors)

	// descendants sorted chain-first: the sawn log before the planks
	ids := make([]int, 0, len(result.Descendants))
	for _, d := range result.Descendants {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int{3, 4, 5}, ids)
}

func TestGetMaterialFlowEndpointNotFound(t *testing.T) {
	router := setupFlowRouter(chainStores())

	recorder := getFlow(router, "/materials/99/flow")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetMaterialFlowEndpointBadID(t *testing.T) {
	router := setupFlowRouter(chainStores())

	recorder := getFlow(router, "/materials/abc/flow")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
