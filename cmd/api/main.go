package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"

	httpadp "microlending/internal/adapter/http"
	"microlending/internal/adapter/middleware"
	"microlending/internal/adapter/repository/gormrepo"
	"microlending/internal/config"
	"microlending/internal/infrastructure/cache"
	"microlending/internal/infrastructure/db"
	"microlending/internal/infrastructure/logging"
	"microlending/internal/infrastructure/metrics"
	"microlending/internal/usecase/admin"
	"microlending/internal/usecase/collateral"
	loanuc "microlending/internal/usecase/loan"
	"microlending/internal/usecase/oracle"
	"microlending/internal/usecase/protocol"
	"microlending/internal/usecase/registry"
	"microlending/internal/usecase/reputation"
	"microlending/pkg/id"
)

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), logger.Warn)
	if err != nil {
		return err
	}
	if err := gormrepo.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	heights := cache.NewHeightSource(rdb, cfg.HeightKey)
	if seeded, err := heights.Seed(ctx, 0); err != nil {
		return fmt.Errorf("seed height: %w", err)
	} else if seeded {
		log.Warn("no chain height published, starting at 0", zap.String("key", cfg.HeightKey))
	}

	tx := gormrepo.NewGormUoW(gdb)
	adm := admin.NewUsecase(tx)
	st, err := adm.Bootstrap(ctx, cfg.ProtocolOwner)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	log.Info("platform ready", zap.String("owner", st.Owner), zap.Bool("emergency_stop", st.EmergencyStop),
		zap.Uint64("loan_nonce", st.LoanNonce))

	assets := registry.NewUsecase(tx)
	px := oracle.NewUsecase(tx)
	loans := loanuc.NewUsecase(tx, collateral.NewEngine(cfg.Params()))
	reps := reputation.NewUsecase(tx)

	m := metrics.New()
	svc := protocol.NewService(assets, px, loans, adm, log.Named("protocol"), m)
	seq := protocol.NewSequencer(svc, cfg.SequencerQueue)

	seqCtx, stopSeq := context.WithCancel(context.Background())
	seqDone := make(chan struct{})
	go func() {
		defer close(seqDone)
		_ = seq.Run(seqCtx)
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(
		echomw.Logger(),
		echomw.Recover(),
		echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: id.NewID32}),
		middleware.Principal(),
		middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log.Named("idempotency")),
	)

	httpadp.Routes{
		Core:      httpadp.NewHandler(seq, heights, adm),
		Assets:    httpadp.NewAssetHandler(seq, heights, assets, px),
		Loans:     httpadp.NewLoanHandler(seq, heights, loans),
		Borrowers: httpadp.NewBorrowerHandler(loans, reps),
	}.Register(e)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	addr := ":" + cfg.AppPort
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err = <-errc:
	}

	// stop taking requests first, then let the sequencer finish what it started
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if serr := e.Shutdown(shutdownCtx); serr != nil {
		log.Error("http shutdown", zap.Error(serr))
	}
	stopSeq()
	<-seqDone

	if sqlDB, derr := gdb.DB(); derr == nil {
		_ = sqlDB.Close()
	}
	log.Info("stopped")
	return err
}
