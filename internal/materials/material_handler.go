package materials

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"materialmanagement/pkg/auditlog"
	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"

	"github.com/gin-gonic/gin"
)

// MaterialStore is the repository surface the handler needs.
type MaterialStore interface {
	FindByID(id int) (*models.Material, error)
	FindByHumanID(humanID string) (*models.Material, error)
	List(filters ListFilters) ([]models.Material, error)
	Create(material *models.Material) (*models.Material, error)
	CreateBulk(template models.Material, count int) ([]models.Material, error)
	Save(material *models.Material) error
	SoftDelete(id int) error
	NextHumanID() (string, error)
}

// AuditLogReader reads back the trail written by pkg/auditlog.
type AuditLogReader interface {
	GetResourceLog(id int, resourceType string) ([]models.AuditLog, error)
}

type MaterialHandler struct {
	r        MaterialStore
	logs     AuditLogReader
	AuditLog *auditlog.Auditlog
}

func NewMaterialHandler(r MaterialStore, logs AuditLogReader, a *auditlog.Auditlog) *MaterialHandler {
	return &MaterialHandler{
		r:        r,
		logs:     logs,
		AuditLog: a,
	}
}

func (h *MaterialHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/materials", h.ListMaterials)
	router.GET("/materials/:id", h.GetMaterial)
	router.GET("/materials/human/:humanId", h.GetMaterialByHumanID)
	router.GET("/materials/:id/history", h.GetMaterialHistory)
	router.POST("/materials", h.CreateMaterial)
	router.POST("/materials/bulk", h.CreateBulkMaterials)
	router.PATCH("/materials/:id", h.UpdateMaterial)
	router.DELETE("/materials/:id", h.DeleteMaterial)
}

func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	filters := ListFilters{
		Type:   c.Query("type"),
		Specie: c.Query("specie"),
	}

	materials, err := h.r.List(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list materials", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, materials)
}

func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material id"})
		return
	}

	material, err := h.r.FindByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get material", "details": err.Error()})
		return
	}
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given id"})
		return
	}

	c.JSON(http.StatusOK, material)
}

func (h *MaterialHandler) GetMaterialByHumanID(c *gin.Context) {
	humanID := c.Param("humanId")
	if humanID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to bind human id"})
		return
	}

	material, err := h.r.FindByHumanID(humanID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get material", "details": err.Error()})
		return
	}
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given human id"})
		return
	}

	c.JSON(http.StatusOK, material)
}

func (h *MaterialHandler) GetMaterialHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material id"})
		return
	}

	material, err := h.r.FindByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get material", "details": err.Error()})
		return
	}
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given id"})
		return
	}

	logs, err := h.logs.GetResourceLog(id, "material")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to get material history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req models.MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if !models.IsValidMaterialType(req.Type) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid material type",
			"details": fmt.Sprintf("type must be one of %v", models.MaterialTypes),
		})
		return
	}

	material := req.ToMaterial()

	humanID, err := h.r.NextHumanID()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate material code"})
		return
	}
	material.HumanID = humanID

	created, err := h.r.Create(&material)
	if err != nil {
		switch err.(type) {
		case *custom_error.UniqueViolationError:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Material code already registered"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create material"})
			return
		}
	}

	go h.AuditLog.Log(
		"create",
		map[string]interface{}{
			"human_id": created.HumanID,
			"type":     created.Type,
			"specie":   created.Specie,
			"msg":      "Material înregistrat",
		},
		created,
	)

	c.JSON(http.StatusCreated, created)
}

// CreateBulkMaterials registers several identical raw materials, e.g. one
// truckload of logs. The whole batch commits in a single transaction; any
// failure rolls everything back.
func (h *MaterialHandler) CreateBulkMaterials(c *gin.Context) {
	var req models.BulkMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if req.Count < 1 || req.Count > 500 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Count must be between 1 and 500"})
		return
	}
	if !models.IsValidMaterialType(req.Material.Type) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid material type"})
		return
	}

	createdMaterials, err := h.r.CreateBulk(req.Material.ToMaterial(), req.Count)
	if err != nil {
		var duplicate *custom_error.UniqueViolationError
		if errors.As(err, &duplicate) {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Material code already registered", "details": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create materials", "details": err.Error()})
		return
	}

	for i := range createdMaterials {
		created := createdMaterials[i]
		go h.AuditLog.Log(
			"create",
			map[string]interface{}{
				"human_id": created.HumanID,
				"type":     created.Type,
				"count":    fmt.Sprintf("%d/%d", i+1, req.Count),
				"msg":      "Material înregistrat în lot",
			},
			&created,
		)
	}

	c.JSON(http.StatusCreated, gin.H{"materials": createdMaterials})
}

// UpdateMaterial applies operator edits field by field. Identity and lineage
// fields are rejected because SetField does not know them.
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material id"})
		return
	}

	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	material, err := h.r.FindByID(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Unable to get material", "details": err.Error()})
		return
	}
	if material == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given id"})
		return
	}

	for field, value := range fields {
		if field == "type" && !models.IsValidMaterialType(value) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid material type", "details": value})
			return
		}
		if !material.SetField(field, value) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Field cannot be edited", "details": field})
			return
		}
	}

	if err := h.r.Save(material); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update material"})
		return
	}

	go h.AuditLog.Log(
		"update",
		map[string]interface{}{
			"human_id": material.HumanID,
			"fields":   fields,
			"msg":      "Material actualizat",
		},
		material,
	)

	c.JSON(http.StatusOK, material)
}

// DeleteMaterial soft-deletes: the row stays for lineage integrity but
// disappears from every normal query.
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material id"})
		return
	}

	if err := h.r.SoftDelete(id); err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given id"})
			return
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete material"})
			return
		}
	}

	deleted := models.Material{ID: id}
	go h.AuditLog.Log(
		"delete",
		map[string]interface{}{
			"msg": "Material șters",
		},
		&deleted,
	)

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
