package auditlog

import (
	"context"

	"go.uber.org/zap"

	"loanrisk-backend/internal/domain/audit"
)

var _ audit.Sink = Sink{}

// Sink writes audit records to the application log. It is used when no
// document store is configured.
type Sink struct{ log *zap.Logger }

func New(log *zap.Logger) Sink { return Sink{log: log.Named("audit")} }

func (s Sink) Append(_ context.Context, collection string, rec audit.Record) {
	s.log.Info("audit record", zap.String("collection", collection), zap.Any("record", rec))
}
