package service

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

const instrumentationName = "github.com/vetcare/staff-auth/internal/core/service"

// newTracer returns a tracer from tp, or from the global provider when tp is nil.
func newTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

// endSpan closes span, marking it failed when err is set. Domain errors also
// carry their kind so rejected logins can be told apart from outages.
func endSpan(span trace.Span, err error) {
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			span.SetAttributes(attribute.String("error.kind", string(de.Kind)))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
