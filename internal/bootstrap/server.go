package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airline-reservation/api"
	"github.com/Domenick1991/airline-reservation/config"
	"github.com/Domenick1991/airline-reservation/internal/logger"
	"github.com/Domenick1991/airline-reservation/internal/scheduler"
	"github.com/Domenick1991/airline-reservation/internal/service/booking"
	"github.com/Domenick1991/airline-reservation/internal/service/flights"
	"github.com/Domenick1991/airline-reservation/internal/service/support"
	"github.com/Domenick1991/airline-reservation/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// SchedulerHealthService is the gRPC health service name that reports the
// reconciliation scheduler.
const SchedulerHealthService = "airline.CancellationScheduler"

const shutdownTimeout = 5 * time.Second

type Services struct {
	Bookings booking.BookingUseCase
	Tickets  support.TicketUseCase
	Flights  flights.FlightUseCase
	Users    user.UserUseCase
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
}

// Run starts the HTTP and gRPC servers and the reconciliation scheduler, and
// blocks until ctx is cancelled or one of them fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, svcs Services, sched *scheduler.CancellationScheduler) error {
	s := newServers(cfg, log, svcs)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("gRPC server listening", zap.String("address", cfg.GRPC.Address))
		return s.grpcServer.Serve(lis)
	})

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("address", cfg.HTTP.Address))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if sched.Start(gctx) {
		s.health.SetServingStatus(SchedulerHealthService, healthpb.HealthCheckResponse_SERVING)
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		sched.Stop()
		s.health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newServers(cfg *config.Config, log *zap.Logger, svcs Services) *Servers {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(SchedulerHealthService, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           NewRouter(cfg, log, svcs),
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: healthSrv,
	}
}

// NewRouter wires every HTTP route onto a gin engine.
func NewRouter(cfg *config.Config, log *zap.Logger, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/airline.swagger.json"))))
	}

	apiGroup := router.Group("/api")
	api.NewBookingHandler(svcs.Bookings).Register(apiGroup.Group("/bookings"))
	api.NewTicketHandler(svcs.Tickets).Register(apiGroup.Group("/tickets"))
	api.NewUserHandler(svcs.Users).Register(apiGroup.Group("/users"))

	flightHandler := api.NewFlightHandler(svcs.Flights)
	flightHandler.Register(apiGroup.Group("/flights"))
	flightHandler.RegisterTracking(apiGroup.Group("/tracking"))

	return router
}
