// Package checkout implements the ordering workflows: customer registration,
// order placement, payment recording and billing.
//
// Every workflow runs its writes in one transaction, so a failure part way
// through leaves no partial rows behind. Identifiers are allocated inside that
// transaction with idgen.Generator.Claim.
//
// Workflows take a retail.Session and return the updated value. The session
// carries the order and payment created so far; nothing about it is stored.
package checkout

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/logging"
	"github.com/rakeshthota234/Online-Retail-Application/internal/metrics"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// Workflow names used in logs, spans and metrics.
const (
	WorkflowRegister        = "register"
	WorkflowCheckout        = "checkout"
	WorkflowPlaceOrder      = "place_order"
	WorkflowRecordPayment   = "record_payment"
	WorkflowFinalizeBilling = "finalize_billing"
	WorkflowAddVoucher      = "add_voucher"
)

const tracerName = "github.com/rakeshthota234/Online-Retail-Application/internal/checkout"

// Service runs checkout workflows against a store.
type Service struct {
	store    *store.Store
	ids      *idgen.Generator
	logger   *zap.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
	hashCost int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records workflow outcomes and identifier allocations in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock sets the source of order dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithHashCost sets the bcrypt cost for customer passwords.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// New creates a Service. When metrics are configured the generator's
// allocation observer is pointed at them.
func New(st *store.Store, ids *idgen.Generator, opts ...Option) *Service {
	s := &Service{
		store:    st,
		ids:      ids,
		logger:   zap.NewNop(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.ids.OnAllocate(s.metrics.IDAllocated)
	}
	return s
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) start(ctx context.Context, workflow string, sess retail.Session, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("workflow", workflow),
		attribute.String("session.id", sess.ID),
	)
	return s.tracer.Start(ctx, "checkout."+workflow, trace.WithAttributes(attrs...))
}

// finish ends span and reports the workflow outcome to logs and metrics.
func (s *Service) finish(span trace.Span, workflow string, sess retail.Session, err error, fields ...zap.Field) {
	logger := logging.WithSession(s.logger, sess.ID, sess.Email).With(zap.String("workflow", workflow))

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
		logger.Info(workflow+" completed", fields...)
	case isRefusal(err):
		outcome = metrics.OutcomeRejected
		span.RecordError(err)
		span.SetStatus(codes.Error, string(retail.CodeOf(err)))
		logger.Warn(workflow+" refused", append(fields, zap.String("code", string(retail.CodeOf(err))), zap.Error(err))...)
	default:
		outcome = metrics.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error(workflow+" failed", append(fields, zap.Error(err))...)
	}
	span.End()
	s.metrics.Workflow(workflow, outcome)
}

// isRefusal reports whether err is a typed domain error the caller can act on,
// as opposed to an infrastructure failure.
func isRefusal(err error) bool {
	var re *retail.Error
	if !errors.As(err, &re) {
		return false
	}
	return re.Code != retail.CodeIDExhausted
}

func requireEmail(op string, sess retail.Session) error {
	if sess.Email == "" {
		return retail.NewValidationError(op, "session has no email")
	}
	return nil
}
