package processing

import (
	"net/http"
	"strconv"

	"materialmanagement/internal/catalog"
	"materialmanagement/pkg/auditlog"
	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"

	"github.com/gin-gonic/gin"
)

// RecordReader is the read-only repository surface the handler needs.
type RecordReader interface {
	FindByID(id int) (*models.ProcessingRecord, error)
	FindAll() ([]models.ProcessingRecord, error)
}

// AuditLogReader reads back the trail written by pkg/auditlog.
type AuditLogReader interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type ProcessingHandler struct {
	service  *ProcessingService
	r        RecordReader
	catalog  *catalog.Catalog
	loader   MaterialStore
	logs     AuditLogReader
	AuditLog *auditlog.Auditlog
}

func NewProcessingHandler(service *ProcessingService, r RecordReader, c *catalog.Catalog, loader MaterialStore, logs AuditLogReader, a *auditlog.Auditlog) *ProcessingHandler {
	return &ProcessingHandler{
		service:  service,
		r:        r,
		catalog:  c,
		loader:   loader,
		logs:     logs,
		AuditLog: a,
	}
}

func (h *ProcessingHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/processing", h.Process)
	router.GET("/processing", h.ListProcessings)
	router.GET("/processing/:id", h.GetProcessing)
	router.GET("/processing/:id/history", h.GetProcessingHistory)
	router.POST("/processing/preview", h.Preview)
	router.GET("/processing-types", h.ListProcessingTypes)
	router.GET("/processing-types/:id", h.GetProcessingType)
}

func (h *ProcessingHandler) Process(c *gin.Context) {
	var req models.ProcessingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	result, err := h.service.ProcessMaterials(req)
	if err != nil {
		status := statusForProcessingError(err)
		c.AbortWithStatusJSON(status, gin.H{"error": "Processing failed", "details": err.Error()})
		return
	}

	go h.AuditLog.Log(
		"process",
		map[string]interface{}{
			"source_ids":         result.ProcessingRecord.SourceIDs,
			"output_ids":         result.ProcessingRecord.OutputIDs,
			"processing_type_id": result.ProcessingRecord.ProcessingTypeID,
			"msg":                "Procesare efectuată",
		},
		&result.ProcessingRecord,
	)

	c.JSON(http.StatusCreated, result)
}

func statusForProcessingError(err error) int {
	switch err.(type) {
	case *custom_error.InvalidRequestError:
		return http.StatusBadRequest
	case *custom_error.SourceNotFoundError:
		return http.StatusNotFound
	case *custom_error.UnknownProcessingTypeError:
		return http.StatusNotFound
	case *custom_error.IncompatibleSourceTypesError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *ProcessingHandler) ListProcessings(c *gin.Context) {
	records, err := h.r.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list processings", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (h *ProcessingHandler) GetProcessing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid processing id"})
		return
	}

	record, err := h.r.FindByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get processing", "details": err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate processing with given id"})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *ProcessingHandler) GetProcessingHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid processing id"})
		return
	}

	record, err := h.r.FindByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get processing", "details": err.Error()})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate processing with given id"})
		return
	}

	logs, err := h.logs.GetResourceLog(id, "processing")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get processing history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// Preview computes the carry-over result without touching anything; the UI
// uses it to pre-fill the processing form.
func (h *ProcessingHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	sources, err := h.loader.FindByIDs(req.SourceIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load source materials", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": h.catalog.ApplyRules(req.ProcessingTypeID, sources)})
}

func (h *ProcessingHandler) ListProcessingTypes(c *gin.Context) {
	sourceType := c.Query("source_type")
	if sourceType == "" {
		c.JSON(http.StatusOK, h.catalog.All())
		return
	}

	c.JSON(http.StatusOK, h.catalog.ValidForSource(sourceType))
}

func (h *ProcessingHandler) GetProcessingType(c *gin.Context) {
	pt, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate processing type with given id"})
		return
	}

	c.JSON(http.StatusOK, pt)
}
