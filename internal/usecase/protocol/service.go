package protocol

import (
	"context"
	"time"

	"microlending/internal/domain/apperr"
	"microlending/internal/domain/platform"
	"microlending/internal/usecase/admin"
	loanuc "microlending/internal/usecase/loan"
	"microlending/internal/usecase/oracle"
	"microlending/internal/usecase/registry"

	"go.uber.org/zap"
)

// Recorder receives one observation per applied operation.
type Recorder interface {
	Observe(op, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, string, time.Duration) {}

// Service dispatches operations to the usecases. Every operation runs in its own transaction.
type Service struct {
	assets *registry.Usecase
	oracle *oracle.Usecase
	loans  *loanuc.Usecase
	admin  *admin.Usecase
	log    *zap.Logger
	rec    Recorder
}

func NewService(assets *registry.Usecase, px *oracle.Usecase, loans *loanuc.Usecase, adm *admin.Usecase,
	log *zap.Logger, rec Recorder) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{assets: assets, oracle: px, loans: loans, admin: adm, log: log, rec: rec}
}

// Apply runs op on behalf of call.Caller at call.Height. Rejections come back as *apperr.Error;
// any other error is an infrastructure failure.
func (s *Service) Apply(ctx context.Context, call platform.Call, op Operation) (Result, error) {
	start := time.Now()
	res, err := op.apply(ctx, s, call)
	res.Op = op.Name()

	outcome := Outcome(err)
	s.rec.Observe(op.Name(), outcome, time.Since(start))

	fields := []zap.Field{
		zap.String("op", op.Name()),
		zap.String("caller", call.Caller),
		zap.Uint64("height", call.Height),
		zap.String("outcome", outcome),
	}
	switch {
	case err == nil:
		if res.LoanID != 0 {
			fields = append(fields, zap.Uint64("loan_id", res.LoanID))
		}
		s.log.Info("operation applied", fields...)
	case apperr.KindOf(err) != apperr.KindUnknown:
		s.log.Info("operation rejected", append(fields, zap.Error(err))...)
	default:
		s.log.Error("operation failed", append(fields, zap.Error(err))...)
	}
	return res, err
}

// Outcome labels an operation result: "ok", the rejection kind, or "error".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := apperr.KindOf(err); k != apperr.KindUnknown {
		return k.String()
	}
	return "error"
}
