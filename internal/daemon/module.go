package daemon

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/matheus3301/weibo/internal/account"
	"github.com/matheus3301/weibo/internal/api"
	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/config"
	"github.com/matheus3301/weibo/internal/lock"
	"github.com/matheus3301/weibo/internal/logging"
	"github.com/matheus3301/weibo/internal/metrics"
	"github.com/matheus3301/weibo/internal/outbox"
	"github.com/matheus3301/weibo/internal/remind"
	"github.com/matheus3301/weibo/internal/session"
	"github.com/matheus3301/weibo/internal/status"
	"github.com/matheus3301/weibo/internal/store"
	"github.com/matheus3301/weibo/internal/timeline"
	"github.com/matheus3301/weibo/internal/weibo"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Params holds the resolved session configuration passed to the fx module.
type Params struct {
	SessionName string
	SocketPath  string // optional override for testing; empty = use default
	Config      *config.Config

	// Endpoints and HTTPClient override the API client transport in tests.
	Endpoints  weibo.Endpoints
	HTTPClient *http.Client
}

// Module returns the fx module for the daemon, composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	if p.Config == nil {
		p.Config = &config.Config{}
	}
	return fx.Module("daemon",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideRegistry,
			provideCollector,
			provideClient,
			provideHolder,
			provideEngine,
			provideSender,
			providePoller,
			provideSessionService,
			provideTimelineService,
			provideStatusService,
			provideRemindService,
			provideEventService,
			NewServer,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(session.LogPath(p.SessionName), p.SessionName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := session.EnsureDir(p.SessionName); err != nil {
		return nil, err
	}
	logger.Info("acquiring session lock", zap.String("session", p.SessionName))
	l, err := lock.Acquire(session.Dir(p.SessionName))
	if err != nil {
		return nil, err
	}
	logger.Info("session lock acquired")
	return l, nil
}

// provideStore depends on the lock so two daemons never migrate the same file.
func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.DBPath(p.SessionName)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideCollector(reg *prometheus.Registry, b *bus.Bus) *metrics.Collector {
	c := metrics.NewCollector(reg)
	metrics.RegisterFunc(reg, "weibo_bus_dropped_events_total",
		"Events dropped because a subscriber was full.",
		func() float64 { return float64(b.Dropped()) })
	return c
}

func provideClient(p Params, c *metrics.Collector, logger *zap.Logger) *weibo.Client {
	return weibo.NewClient(weibo.Config{
		AppKey:      p.Config.AppKey,
		AppSecret:   p.Config.AppSecret,
		RedirectURI: p.Config.Redirect(),
		Endpoints:   p.Endpoints,
		HTTPClient:  p.HTTPClient,
		RateLimit:   rate.Limit(p.Config.RequestRate()),
		MetricsHook: c.ObserveAPI,
		Logger:      logger,
	})
}

func provideHolder(db *store.DB) *account.Holder {
	return account.NewHolder(db)
}

func provideEngine(db *store.DB, b *bus.Bus, logger *zap.Logger) *timeline.Engine {
	return timeline.NewEngine(db, b, logger)
}

func provideSender(db *store.DB, client *weibo.Client, holder *account.Holder, machine *status.Machine, c *metrics.Collector, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	s := outbox.NewSender(db, &poster{client: client, holder: holder}, b, logger)
	s.Ready = func() bool { return status.CanServe(machine.Current()) }
	s.Report = apiReporter(machine, logger)
	s.Count = c.CountPost
	return s
}

func providePoller(p Params, client *weibo.Client, holder *account.Holder, c *metrics.Collector, db *store.DB, b *bus.Bus, logger *zap.Logger) *remind.Poller {
	poller := remind.NewPoller(client, holder.Get, db, b, p.Config.PollInterval(), logger)
	poller.Gauge = c.SetUnread
	return poller
}

func provideSessionService(p Params, m *status.Machine, client *weibo.Client, holder *account.Holder, db *store.DB, logger *zap.Logger) *api.SessionService {
	return api.NewSessionService(p.SessionName, p.Config.Redirect(), m, client, holder, db, logger)
}

func provideTimelineService(client *weibo.Client, holder *account.Holder, m *status.Machine, db *store.DB, engine *timeline.Engine, b *bus.Bus, logger *zap.Logger) *api.TimelineService {
	svc := api.NewTimelineService(client, holder, m, db, engine.Cursor(), b, logger)
	svc.Report = apiReporter(m, logger)
	return svc
}

func provideStatusService(db *store.DB, m *status.Machine, logger *zap.Logger) *api.StatusService {
	return api.NewStatusService(db, m, logger)
}

func provideRemindService(poller *remind.Poller) *api.RemindService {
	return api.NewRemindService(poller)
}

func provideEventService(p Params, b *bus.Bus) *api.EventService {
	return api.NewEventService(b, p.SessionName)
}

type lifecycleParams struct {
	fx.In

	Params   Params
	Server   *Server
	Lock     *lock.Lock
	DB       *store.DB
	Holder   *account.Holder
	Engine   *timeline.Engine
	Sender   *outbox.Sender
	Poller   *remind.Poller
	Machine  *status.Machine
	Registry *prometheus.Registry
	Logger   *zap.Logger

	Session  *api.SessionService
	Timeline *api.TimelineService
	Status   *api.StatusService
}

func registerLifecycle(lc fx.Lifecycle, in lifecycleParams) {
	logger := in.Logger
	ctx, cancel := context.WithCancel(context.Background())
	var metricsSrv *http.Server

	in.Session.OnLogin = func() {
		in.Sender.Notify()
		go in.Poller.Poll(ctx)
	}
	in.Session.OnLogout = func() {
		if err := in.Engine.Cursor().Reset(); err != nil {
			logger.Warn("failed to clear timeline cache", zap.Error(err))
		}
		in.Sender.Discard("signed out before the post was sent")
		in.Poller.Reset()
	}
	in.Timeline.OnRefresh = in.Poller.Reset
	in.Status.Queued = in.Sender.Notify

	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			acct, err := in.Holder.Load(startCtx)
			if err != nil {
				logger.Error("failed to load account", zap.Error(err))
				_ = in.Machine.Transition(status.Error)
				return err
			}

			in.Engine.Start(ctx)

			go func() {
				if err := in.Server.Start(); err != nil {
					logger.Error("gRPC server error", zap.Error(err))
				}
			}()

			if addr := in.Params.Config.MetricsAddr; addr != "" {
				metricsSrv = &http.Server{
					Addr: addr,
					Handler: metrics.Handler(in.Registry, func() (string, bool) {
						cur := in.Machine.Current()
						return string(cur), status.CanServe(cur)
					}),
					ReadHeaderTimeout: 5 * time.Second,
				}
				go func() {
					logger.Info("metrics server starting", zap.String("addr", addr))
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("metrics server error", zap.Error(err))
					}
				}()
			}

			if acct.IsLoggedIn() {
				logger.Info("account restored", zap.String("uid", acct.UID), zap.String("screen_name", acct.ScreenName))
				_ = in.Machine.Transition(status.Ready)
			} else {
				logger.Info("no credentials found, auth required")
				_ = in.Machine.Transition(status.AuthRequired)
			}

			in.Sender.Start(ctx)
			in.Poller.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			in.Poller.Stop()
			in.Sender.Stop()
			in.Engine.Stop()
			if metricsSrv != nil {
				_ = metricsSrv.Shutdown(stopCtx)
			}
			in.Server.Stop(stopCtx)
			if err := in.DB.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := in.Lock.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("daemon stopped")
			return nil
		},
	})
}
