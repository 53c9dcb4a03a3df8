package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/qr-menu-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/qr-menu-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/qr-menu-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/qr-menu-backend/internal/infrastructure/adisyo"
	"github.com/DRSN-tech/qr-menu-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/qr-menu-backend/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/qr-menu-backend/internal/repository/minio"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/qr-menu-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/qr-menu-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/qr-menu-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/qr-menu-backend/internal/usecase"
	"github.com/DRSN-tech/qr-menu-backend/pkg/clients"
	"github.com/DRSN-tech/qr-menu-backend/pkg/closer"
	"github.com/DRSN-tech/qr-menu-backend/pkg/e"
	"github.com/DRSN-tech/qr-menu-backend/pkg/logger"
	"github.com/DRSN-tech/qr-menu-backend/pkg/postgres"
	"github.com/DRSN-tech/qr-menu-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 15 * time.Second
	topicTimeout    = 10 * time.Second
)

// App собирает зависимости сервиса импорта и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker

	// workerCtx отменяется при остановке: фоновые загрузки и воркер outbox завершаются
	workerCtx    context.Context
	workerCancel context.CancelFunc
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:          cfg,
		logger:       logger,
		closer:       closer.NewCloser(0),
		workerCtx:    workerCtx,
		workerCancel: workerCancel,
	}

	if err := a.init(); err != nil {
		workerCancel()
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := a.closer.Close(closeCtx); cerr != nil {
			logger.Warnf("cleanup after failed init: %v", cerr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	a.closer.Add("background workers", func(context.Context) error {
		a.workerCancel()
		return nil
	})

	db, err := initPGDB(log, cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", func(context.Context) error {
		db.Close()
		return nil
	})

	txManager := tr.NewManager(db.Pool)
	conv := pgdbConv.NewConverter()

	menuRepo := pgdb.NewMenuRepo(db.Pool, conv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, conv)
	productRepo := pgdb.NewProductRepo(db.Pool, conv)
	unitRepo := pgdb.NewUnitRepo(db.Pool, conv)
	priceRepo := pgdb.NewProductPriceRepo(db.Pool, conv)
	cleanupRepo := pgdb.NewCleanupRepo(db.Pool)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, conv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error {
		return redisClient.Close()
	})
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cooldownRepo := redis.NewCooldownRepo(redisClient)
	snapshotRepo := redis.NewSnapshotRepo(redisClient, redisConv.NewSessionSnapshotConverter(), cfg.Redis, log)

	var archiver usecase.ReportArchiver
	if cfg.Import.ArchiveReport {
		reportArchiver, err := a.initArchiver()
		if err != nil {
			return err
		}
		archiver = reportArchiver
	}

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error {
		return producer.Close()
	})
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		log.Errorf(err, "failed to ensure kafka topic %s", cfg.Kafka.Topic)
		return e.Wrap(whereami.WhereAmI(), err)
	}

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Db.DSN(), cfg.Kafka.OutboxBatchSize)
	a.closer.Add("outbox worker", func(context.Context) error {
		a.outboxWorker.Stop()
		return nil
	})

	provider := adisyo.NewClient(cfg.Adisyo, log)
	importer := usecase.NewCatalogImporter(
		provider,
		menuRepo,
		categoryRepo,
		productRepo,
		unitRepo,
		priceRepo,
		cleanupRepo,
		txManager,
		log,
		usecase.NewImportSettings(cfg.Import.MenuName, cfg.Import.MenuColor, cfg.Import.CategoryColor),
	)

	importService := usecase.NewImportService(
		importer,
		cooldownRepo,
		snapshotRepo,
		outboxRepo,
		txManager,
		kafka.NewEventEncoder(),
		archiver,
		log,
		cfg.Import.SessionTTL,
	)
	// закрывается раньше outbox-воркера и хранилищ: финальные события и снимки должны успеть записаться
	a.closer.Add("import service", importService.Shutdown)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.grpcSrv.RegisterServices(importService)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(importService)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

func (a *App) initArchiver() (*minioInfra.ReportArchiver, error) {
	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	reportRepo := s3Repo.NewReportRepo(minioClient, a.cfg.Minio)
	archiver := minioInfra.NewReportArchiver(reportRepo, a.logger, a.workerCtx, a.cfg.Minio.UploadMaxRetries)
	a.closer.Add("report archiver", archiver.WaitForArchive)

	return archiver, nil
}

// Run запускает серверы и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	a.outboxWorker.Start(a.workerCtx)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("grpc server", err)
		}
	}()

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("http server", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// LIFO: серверы, сервис импорта, outbox, хранилища, затем фоновые задачи
	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("%v", err)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
