package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yndnr/roster-go/internal/cli/config"
	"github.com/yndnr/roster-go/internal/cli/connection"
	"github.com/yndnr/roster-go/internal/cli/navigation"
	"github.com/yndnr/roster-go/internal/core/service"
	"github.com/yndnr/roster-go/internal/infra/buildinfo"
	"github.com/yndnr/roster-go/internal/infra/shutdown"
	"github.com/yndnr/roster-go/internal/storage"
	"github.com/yndnr/roster-go/internal/telemetry/logger"
	"github.com/yndnr/roster-go/internal/telemetry/metric"
	"github.com/yndnr/roster-go/internal/telemetry/tracer"
)

// Prompter reads one answer from the user.
type Prompter interface {
	Ask(question string) (string, error)
}

// linePrompter asks on w and reads lines from r.
type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newLinePrompter(r io.Reader, w io.Writer) *linePrompter {
	return &linePrompter{r: bufio.NewReader(r), w: w}
}

func (p *linePrompter) Ask(question string) (string, error) {
	fmt.Fprint(p.w, question)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Runtime holds the components shared by every command of one process.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Logger     *slog.Logger

	Store      storage.ClosableStore
	Session    *service.SessionManager
	Employees  *connection.EmployeeClient
	Controller *service.Controller
	Router     *navigation.Router
	Metrics    *metric.Registry

	// Prompter answers confirmations and missing credentials. The shell
	// replaces it with the REPL's own reader.
	Prompter Prompter
}

type runtimeOptions struct {
	ConfigPath string
	Overrides  map[string]any
	In         io.Reader
	Err        io.Writer
	Shutdown   *shutdown.Handler
}

// newRuntime loads the configuration and wires the session, transport
// and view controller.
func newRuntime(ctx context.Context, opts runtimeOptions) (*Runtime, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	cfg, err := config.Load(opts.ConfigPath, opts.Overrides)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: opts.Err,
	})
	logger.Install(log)
	metrics := metric.NewRegistry()

	stopTracer, err := tracer.Init(ctx, tracer.Config{
		Endpoint: cfg.Telemetry.OTLPEndpoint,
		Version:  buildinfo.Get().Version,
	}, log)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.StoreConfig(), log)
	if err != nil {
		_ = stopTracer(ctx)
		return nil, fmt.Errorf("open token store: %w", err)
	}

	transport := func(session connection.Session) (*connection.HTTPClient, error) {
		return connection.NewHTTPClient(connection.Options{
			BaseURL:   cfg.Client.APIURL,
			Timeout:   cfg.Client.RequestTimeout,
			Session:   session,
			RateLimit: cfg.Client.RateLimit,
			CAFile:    cfg.Client.CAFile,
			Tracing:   cfg.Telemetry.OTLPEndpoint != "",
			Observer:  metrics,
			Logger:    log,
		})
	}

	// Login needs no token and must never invalidate, so it gets a
	// client without the authorizer stage.
	authHTTP, err := transport(nil)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	session := service.NewSessionManager(connection.NewAuthClient(authHTTP), store, log)

	apiHTTP, err := transport(session)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	employees := connection.NewEmployeeClient(apiHTTP)

	router := navigation.NewRouter(session, log)
	router.Follow(session)
	session.Subscribe(func(ev service.SessionEvent) {
		metrics.SessionEvent(ev.Type.String())
	})

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: opts.ConfigPath,
		Logger:     log,
		Store:      store,
		Session:    session,
		Employees:  employees,
		Router:     router,
		Metrics:    metrics,
		Prompter:   newLinePrompter(opts.In, opts.Err),
		Controller: service.NewController(employees, router, service.ControllerConfig{
			ViewTimeout: cfg.Client.ViewTimeout,
			Logger:      log,
			Observer:    metrics,
		}),
	}

	if h := opts.Shutdown; h != nil {
		h.OnClose("token store", store.Close)
		h.OnShutdown("tracer", stopTracer)
		if path := cfg.Telemetry.MetricsFile; path != "" {
			h.OnClose("metrics dump", func() error { return metrics.DumpFile(path) })
		}
	}

	log.Debug("runtime ready",
		"api_url", cfg.Client.APIURL,
		"storage", cfg.Storage.Backend,
		"authenticated", session.IsAuthenticated())
	return rt, nil
}
