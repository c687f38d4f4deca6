package auditlog

import (
	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"go.uber.org/zap"
)

// LogStore persists audit entries.
type LogStore interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

// Auditable is implemented by models that can appear in the audit trail.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Auditlog records back-office and order lifecycle actions. Writes are
// fire-and-forget: handlers call Log from a goroutine and a failed write
// only produces a log line, never an error to the caller.
type Auditlog struct {
	store LogStore
	log   *zap.Logger
}

func NewAuditLog(store LogStore, log *zap.Logger) *Auditlog {
	return &Auditlog{
		store: store,
		log:   log,
	}
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	if err := a.store.PersistLog(auditLog, data); err != nil {
		a.log.Warn("unable to create audit log entry",
			zap.Int("resource_id", auditLog.ResourceID),
			zap.String("resource_type", auditLog.ResourceType),
			zap.Error(err))
	}
}
