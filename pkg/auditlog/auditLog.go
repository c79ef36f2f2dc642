package auditlog

import (
	"log"

	"materialmanagement/pkg/models"
)

// LogStore persists audit entries; satisfied by the auditlog repository.
type LogStore interface {
	PersistLog(auditlog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	store LogStore
}

// Auditable is implemented by models that can appear in the audit trail.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records an action against a resource. Failures are logged and dropped:
// the audit trail never blocks the operation it describes.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.store.PersistLog(auditLog, data); err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(store LogStore) *Auditlog {
	return &Auditlog{store: store}
}
