package flow

import (
	"net/http"
	"sort"
	"strconv"

	custom_error "materialmanagement/pkg/errors"
	"materialmanagement/pkg/models"

	"github.com/gin-gonic/gin"
)

type FlowHandler struct {
	builder *FlowBuilder
}

func NewFlowHandler(builder *FlowBuilder) *FlowHandler {
	return &FlowHandler{builder: builder}
}

func (h *FlowHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/materials/:id/flow", h.GetMaterialFlow)
}

func (h *FlowHandler) GetMaterialFlow(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid material id"})
		return
	}

	result, err := h.builder.GetMaterialFlow(id)
	if err != nil {
		switch err.(type) {
		case *custom_error.NotFoundError:
			c.JSON(http.StatusNotFound, gin.H{"error": "Unable to locate material with given id"})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to build material flow", "details": err.Error()})
			return
		}
	}

	// The builder gives no ordering guarantee; the visualization wants the
	// chain order.
	sort.SliceStable(result.Descendants, func(i, j int) bool {
		a, b := result.Descendants[i], result.Descendants[j]
		if models.TypeOrder(a.Type) != models.TypeOrder(b.Type) {
			return models.TypeOrder(a.Type) < models.TypeOrder(b.Type)
		}
		return a.HumanID < b.HumanID
	})

	c.JSON(http.StatusOK, result)
}
