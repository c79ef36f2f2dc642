package materials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"materialmanagement/pkg/auditlog"
	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMaterialStore struct {
	mock.Mock
}

func (m *MockMaterialStore) FindByID(id int) (*models.Material, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialStore) FindByHumanID(humanID string) (*models.Material, error) {
	args := m.Called(humanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Material), args.Error(1)
}

func (m *MockMaterialStore) List(filters ListFilters) ([]models.Material, error) {
	args := m.Called(filters)
	return args.Get(0).([]models.Material), args.Error(1)
}

// Create mirrors the repository contract: the stored material is the one
// passed in, mutated with its new id by the test's Run hook.
func (m *MockMaterialStore) Create(material *models.Material) (*models.Material, error) {
	args := m.Called(material)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return material, args.Error(1)
}

func (m *MockMaterialStore) CreateBulk(template models.Material, count int) ([]models.Material, error) {
	args := m.Called(template, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Material), args.Error(1)
}

func (m *MockMaterialStore) Save(material *models.Material) error {
	args := m.Called(material)
	return args.Error(0)
}

func (m *MockMaterialStore) SoftDelete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockMaterialStore) NextHumanID() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

type MockAuditLogReader struct {
	mock.Mock
}

func (m *MockAuditLogReader) GetResourceLog(id int, resourceType string) ([]models.AuditLog, error) {
	args := m.Called(id, resourceType)
	return args.Get(0).([]models.AuditLog), args.Error(1)
}

type noopLogStore struct{}

func (noopLogStore) PersistLog(models.AuditLog, interface{}) error { return nil }

func setupMaterialRouter(store *MockMaterialStore, logs AuditLogReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewMaterialHandler(store, logs, auditlog.NewAuditLog(noopLogStore{})).RegisterRoutes(router)
	return router
}

func sendJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateMaterialEndpoint(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("NextHumanID").Return("000001", nil).Once()
	store.On("Create", mock.AnythingOfType("*models.Material")).
		Return(&models.Material{}, nil).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Material).ID = 1
		}).Once()

	recorder := sendJSON(router, http.MethodPost, "/materials", models.MaterialRequest{
		Type: models.TypeBSTN, Specie: "FAG", VolumTotal: "1.57",
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var created models.Material
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "000001", created.HumanID)
	store.AssertExpectations(t)
}

func TestCreateMaterialEndpointInvalidType(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	recorder := sendJSON(router, http.MethodPost, "/materials", models.MaterialRequest{
		Type: "SCANDURA", Specie: "FAG",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	store.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateMaterialEndpointDuplicateCode(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("NextHumanID").Return("000001", nil).Once()
	store.On("Create", mock.AnythingOfType("*models.Material")).
		Return(nil, custom_error.WrapDBError("Duplicate human id for material", "23505")).Once()

	recorder := sendJSON(router, http.MethodPost, "/materials", models.MaterialRequest{
		Type: models.TypeBSTN, Specie: "FAG",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

// Bulk creation goes through the repository's transactional CreateBulk as a
// single call; the handler must not fall back to per-item writes that would
// commit outside the transaction.
func TestCreateBulkMaterialsEndpoint(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	template := models.MaterialRequest{Type: models.TypeBSTN, Specie: "FAG", APV: "APV-1"}
	store.On("CreateBulk", template.ToMaterial(), 3).Return([]models.Material{
		{ID: 1, HumanID: "000001", Type: models.TypeBSTN, Specie: "FAG"},
		{ID: 2, HumanID: "000002", Type: models.TypeBSTN, Specie: "FAG"},
		{ID: 3, HumanID: "000003", Type: models.TypeBSTN, Specie: "FAG"},
	}, nil).Once()

	recorder := sendJSON(router, http.MethodPost, "/materials/bulk", models.BulkMaterialRequest{
		Count:    3,
		Material: template,
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)

	var response struct {
		Materials []models.Material `json:"materials"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Materials, 3)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Create", mock.Anything)
	store.AssertNotCalled(t, "NextHumanID")
}

func TestCreateBulkMaterialsEndpointCountBounds(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	for _, count := range []int{-1, 501} {
		recorder := sendJSON(router, http.MethodPost, "/materials/bulk", models.BulkMaterialRequest{
			Count:    count,
			Material: models.MaterialRequest{Type: models.TypeBSTN, Specie: "FAG"},
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	}
	store.AssertNotCalled(t, "CreateBulk", mock.Anything, mock.Anything)
}

// A failed batch surfaces the rollback error and returns nothing created.
func TestCreateBulkMaterialsEndpointFailure(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	wrapped := fmt.Errorf("failed to create material 2 of 3: %w",
		custom_error.WrapDBError("Duplicate human id for material", "23505"))
	store.On("CreateBulk", mock.AnythingOfType("models.Material"), 3).Return(nil, wrapped).Once()

	recorder := sendJSON(router, http.MethodPost, "/materials/bulk", models.BulkMaterialRequest{
		Count:    3,
		Material: models.MaterialRequest{Type: models.TypeBSTN, Specie: "FAG"},
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), `"materials"`)
}

func TestUpdateMaterialEndpoint(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("FindByID", 5).
		Return(&models.Material{ID: 5, HumanID: "000005", Type: models.TypeCHN, Specie: "FAG"}, nil).Once()
	store.On("Save", mock.AnythingOfType("*models.Material")).Return(nil).Once()

	recorder := sendJSON(router, http.MethodPatch, "/materials/5", map[string]string{
		"observatii": "lot pentru uscare",
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var updated models.Material
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &updated))
	assert.Equal(t, "lot pentru uscare", updated.Observatii)
	store.AssertExpectations(t)
}

func TestUpdateMaterialEndpointRejectsIdentityFields(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("FindByID", 5).
		Return(&models.Material{ID: 5, HumanID: "000005", Type: models.TypeCHN, Specie: "FAG"}, nil)

	for _, field := range []string{"human_id", "id", "componente"} {
		recorder := sendJSON(router, http.MethodPatch, "/materials/5", map[string]string{
			field: "ZZZZZZ",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code, field)
	}
	store.AssertNotCalled(t, "Save", mock.Anything)
}

func TestDeleteMaterialEndpoint(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("SoftDelete", 5).Return(nil).Once()

	recorder := sendJSON(router, http.MethodDelete, "/materials/5", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	store.AssertExpectations(t)
}

func TestDeleteMaterialEndpointNotFound(t *testing.T) {
	store := new(MockMaterialStore)
	router := setupMaterialRouter(store, nil)

	store.On("SoftDelete", 99).Return(&custom_error.NotFoundError{Resource: "materialul", ID: 99}).Once()

	recorder := sendJSON(router, http.MethodDelete, "/materials/99", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetMaterialHistoryEndpoint(t *testing.T) {
	store := new(MockMaterialStore)
	logs := new(MockAuditLogReader)
	router := setupMaterialRouter(store, logs)

	store.On("FindByID", 5).
		Return(&models.Material{ID: 5, HumanID: "000005", Type: models.TypeCHN}, nil).Once()
	logs.On("GetResourceLog", 5, "material").Return([]models.AuditLog{
		{ID: 1, ResourceID: 5, ResourceType: "material", Action: "create"},
		{ID: 2, ResourceID: 5, ResourceType: "material", Action: "update"},
	}, nil).Once()

	recorder := sendJSON(router, http.MethodGet, "/materials/5/history", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)

	var trail []models.AuditLog
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &trail))
	assert.Len(t, trail, 2)
	assert.Equal(t, "create", trail[0].Action)

	logs.AssertExpectations(t)
}
