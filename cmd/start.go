package cmd

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/norun9/cartservice/config"
	"github.com/norun9/cartservice/services"
	"github.com/norun9/cartservice/telemetry"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const (
	flagEnvFile     = "env-file"
	shutdownTimeout = 10 * time.Second
)

func newStartCommand() *cobra.Command {
	start := &cobra.Command{
		Use:   "start",
		Short: "Starts the cart gRPC server",
		Long: `Starts the cart gRPC server. Carts are kept in Redis when a
redis address is given and in process memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(cmd); err != nil {
				return err
			}
			cfg, fallbacks, err := config.Load(cmd.Flags(), os.LookupEnv)
			if err != nil {
				return err
			}

			log := telemetry.NewLogger(cmd.OutOrStdout(), cfg.LogLevel)
			for _, fb := range fallbacks {
				log.WithFields(logrus.Fields{
					"setting": fb.Source,
					"value":   fb.Value,
				}).WithError(fb.Err).Warn("ignoring invalid setting, using default")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, log)
		},
	}
	start.Flags().String(flagEnvFile, ".env", "file of environment variables loaded before reading settings")
	config.BindFlags(start.Flags())
	return start
}

// loadEnvFile loads the --env-file into the environment without overriding
// variables that are already set. The default file is optional.
func loadEnvFile(cmd *cobra.Command) error {
	path, err := cmd.Flags().GetString(flagEnvFile)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !cmd.Flags().Changed(flagEnvFile) {
		return nil
	}
	return errors.Wrapf(gotenv.Load(path), "load env file %s", path)
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	tp, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("error shutting down tracer provider")
		}
	}()
	mp, err := telemetry.InitMeterProvider(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("error shutting down meter provider")
		}
	}()

	facade, err := services.NewCartFacade(services.CartFacadeOptions{
		RedisAddr: cfg.RedisAddr,
		Log:       log,
		Meter:     mp.Meter(telemetry.ServiceName),
	})
	if err != nil {
		log.WithError(err).Error("cannot create cart store")
		return err
	}
	defer func() {
		if err := facade.Close(); err != nil {
			log.WithError(err).Warn("error closing cart store")
		}
	}()
	if err := facade.Start(ctx); err != nil {
		log.WithError(err).Error("cart store failed to start")
		return err
	}

	lis, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", cfg.ListenAddr())
	}
	var adminLis net.Listener
	if cfg.AdminPort != 0 {
		if adminLis, err = net.Listen("tcp", cfg.AdminAddr()); err != nil {
			_ = lis.Close()
			return errors.Wrapf(err, "listen on %s", cfg.AdminAddr())
		}
	}
	return serve(ctx, facade, lis, adminLis, log)
}

// serve runs the gRPC server on lis and, when adminLis is non-nil, the HTTP
// probes on adminLis until ctx is done or a server fails.
func serve(ctx context.Context, facade *services.CartFacade, lis, adminLis net.Listener, log logrus.FieldLogger) error {
	grpcSrv := services.NewGRPCServer(facade, log)
	var adminSrv *http.Server
	if adminLis != nil {
		adminSrv = &http.Server{
			Handler:           services.NewAdminRouter(facade),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("addr", lis.Addr().String()).Info("cart gRPC server listening")
		if err := grpcSrv.Serve(lis); !errors.Is(err, grpc.ErrServerStopped) {
			return errors.Wrap(err, "serve gRPC")
		}
		return nil
	})
	if adminSrv != nil {
		g.Go(func() error {
			log.WithField("addr", adminLis.Addr().String()).Info("admin HTTP server listening")
			if err := adminSrv.Serve(adminLis); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "serve admin HTTP")
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		if adminSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := adminSrv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Warn("admin HTTP server did not shut down cleanly")
			}
		}
		grpcSrv.GracefulStop()
		return nil
	})
	return g.Wait()
}
