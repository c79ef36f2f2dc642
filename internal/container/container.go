package container

import (
	"database/sql"

	auditLogRepo "materialmanagement/internal/auditlog"
	"materialmanagement/internal/catalog"
	"materialmanagement/internal/flow"
	"materialmanagement/internal/materials"
	"materialmanagement/internal/processing"
	"materialmanagement/internal/repository"
	"materialmanagement/pkg/auditlog"
)

type Container struct {
	Repository        *repository.Repository
	Catalog           *catalog.Catalog
	AuditLog          *auditlog.Auditlog
	MaterialHandler   *materials.MaterialHandler
	ProcessingHandler *processing.ProcessingHandler
	FlowHandler       *flow.FlowHandler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)
	processingCatalog := catalog.Default()

	logStore := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(logStore)

	materialRepo := materials.NewRepository(repo)
	processingRepo := processing.NewRepository(repo)

	processingService := processing.NewProcessingService(materialRepo, processingRepo, processingCatalog)
	flowBuilder := flow.NewFlowBuilder(materialRepo, processingRepo)

	materialHandler := materials.NewMaterialHandler(materialRepo, logStore, auditLog)
	processingHandler := processing.NewProcessingHandler(processingService, processingRepo, processingCatalog, materialRepo, logStore, auditLog)
	flowHandler := flow.NewFlowHandler(flowBuilder)

	return &Container{
		Repository:        repo,
		Catalog:           processingCatalog,
		AuditLog:          auditLog,
		MaterialHandler:   materialHandler,
		ProcessingHandler: processingHandler,
		FlowHandler:       flowHandler,
	}
}
