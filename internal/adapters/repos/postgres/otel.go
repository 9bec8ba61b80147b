package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("accounts/internal/adapters/repos/postgres")
	logger = otelslog.NewLogger("accounts/internal/adapters/repos/postgres")
)
