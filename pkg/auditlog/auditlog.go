package auditlog

import (
	"log"

	"github.com/ubbbj/laptop-rental/pkg/models"
)

// LogStore zapisuje wpisy dziennika; implementacja w internal/auditlog.
type LogStore interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	store LogStore
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log dopisuje wpis do dziennika zdarzeń. Błąd zapisu jest tylko logowany,
// nieudany audyt nie może wywrócić operacji domenowej.
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
