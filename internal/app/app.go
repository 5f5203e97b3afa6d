// Package app wires the glideshow components together: configuration,
// resource scanning, sessions, the dispatcher, and the HTTP server.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/config"
	"github.com/dshills/glideshow/internal/dispatch"
	"github.com/dshills/glideshow/internal/input/gesture"
	"github.com/dshills/glideshow/internal/logging"
	"github.com/dshills/glideshow/internal/resource"
	"github.com/dshills/glideshow/internal/server"
	"github.com/dshills/glideshow/internal/session"
)

// Options configures application startup.
type Options struct {
	// ConfigPath names an explicit configuration file, "" to discover.
	ConfigPath string
	// Paths are the directories, files, and @response-files to scan.
	Paths []string
	// Overrides are setting overrides from command-line flags.
	Overrides map[string]any
	// Logger is the application logger. Nil gets a default.
	Logger *logging.Logger
}

// App owns the wired application components.
type App struct {
	cfg        *config.Config
	resources  *resource.List
	sessions   *session.Manager
	dispatcher *dispatch.Dispatcher
	server     *server.Server
	logger     *logging.Logger

	localMu sync.Mutex
	localID string // lazily created session for local invocations
}

// New resolves configuration, scans resources, and wires the components.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	cfg, err := config.Resolve(config.Options{
		FilePath:  opts.ConfigPath,
		Overrides: opts.Overrides,
	})
	if err != nil {
		return nil, err
	}
	if path := cfg.FilePath(); path != "" {
		logger.Info("loaded config from %s", path)
	}

	scanOpts := resource.ScanOptions{
		Recursive: cfg.Bool("images.recursive", false),
	}
	for _, p := range cfg.Get("images.exclude_patterns").Array() {
		scanOpts.ExcludePatterns = append(scanOpts.ExcludePatterns, p.String())
	}
	for _, e := range cfg.Get("images.extensions").Array() {
		scanOpts.ExtraExtensions = append(scanOpts.ExtraExtensions, e.String())
	}

	resources, err := resource.Scan(opts.Paths, scanOpts)
	if err != nil {
		return nil, err
	}
	if resources.Len() == 0 {
		return nil, errors.New("no resources found in the given paths")
	}
	logger.Info("scanned %d resources", resources.Len())

	dispatcher, err := dispatch.New(cfg, resources, logger)
	if err != nil {
		return nil, err
	}

	// The configured speed is clamped to the same bounds the speed
	// actions honor, so a file value of 0 cannot disable auto-advance.
	speed := cfg.Float("slideshow.speed", 3.0)
	if min := cfg.Float("slideshow.min_speed", 0.5); speed < min {
		speed = min
	}
	if max := cfg.Float("slideshow.max_speed", 60.0); speed > max {
		speed = max
	}

	sessions := session.NewManager(session.Settings{
		Total:         resources.Len(),
		SpeedSeconds:  speed,
		Repeat:        cfg.Bool("slideshow.repeat", false),
		Shuffle:       cfg.Bool("slideshow.shuffle", false),
		PausedOnStart: cfg.Bool("slideshow.paused_on_start", false),
		Thresholds:    thresholdsFromConfig(cfg),
		MaxSessions:   cfg.Int("web.max_sessions", 64),
		IdleTimeout:   time.Duration(cfg.Int("web.session_idle_seconds", 1800)) * time.Second,
	}, dispatcher.TimerFired)
	dispatcher.SetSessions(sessions)

	a := &App{
		cfg:        cfg,
		resources:  resources,
		sessions:   sessions,
		dispatcher: dispatcher,
		logger:     logger,
	}
	a.server = server.New(cfg, resources, sessions, dispatcher, logger)
	return a, nil
}

// thresholdsFromConfig builds gesture thresholds from configuration,
// falling back to the standard values per field.
func thresholdsFromConfig(cfg *config.Config) gesture.Thresholds {
	def := gesture.DefaultThresholds()
	ms := func(path string, fallback time.Duration) time.Duration {
		return time.Duration(cfg.Float(path, float64(fallback/time.Millisecond))) * time.Millisecond
	}
	return gesture.Thresholds{
		SwipeDistance:     cfg.Float("gestures.thresholds.swipe_distance", def.SwipeDistance),
		SwipeDuration:     ms("gestures.thresholds.swipe_duration_ms", def.SwipeDuration),
		LongPress:         ms("gestures.thresholds.long_press_ms", def.LongPress),
		DoubleTapWindow:   ms("gestures.thresholds.double_tap_ms", def.DoubleTapWindow),
		DoubleTapDistance: cfg.Float("gestures.thresholds.double_tap_distance", def.DoubleTapDistance),
		PinchDistance:     cfg.Float("gestures.thresholds.pinch_distance", def.PinchDistance),
		TapMovement:       cfg.Float("gestures.thresholds.tap_movement", def.TapMovement),
		MultiTapDuration:  ms("gestures.thresholds.multi_tap_duration_ms", def.MultiTapDuration),
	}
}

// Config returns the resolved configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Resources returns the shared resource list.
func (a *App) Resources() *resource.List { return a.resources }

// Sessions returns the session manager.
func (a *App) Sessions() *session.Manager { return a.sessions }

// Dispatcher returns the action dispatcher.
func (a *App) Dispatcher() *dispatch.Dispatcher { return a.dispatcher }

// Run starts the idle sweeper and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	sweep := time.Duration(a.cfg.Int("web.sweep_interval_seconds", 60)) * time.Second
	a.sessions.StartSweeper(sweep)
	defer a.sessions.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// localSession returns the implicit session used by local invocations,
// creating it on first use. Concurrent callers share one session.
func (a *App) localSession() (string, error) {
	a.localMu.Lock()
	defer a.localMu.Unlock()

	if a.localID != "" {
		if _, ok := a.sessions.Get(a.localID); ok {
			return a.localID, nil
		}
	}
	sess, err := a.sessions.Create()
	if err != nil {
		return "", err
	}
	a.localID = sess.ID
	return a.localID, nil
}

// Execute runs an action against the implicit local session.
func (a *App) Execute(ctx context.Context, name string, params map[string]any) (action.Result, error) {
	id, err := a.localSession()
	if err != nil {
		return action.Result{}, err
	}
	return a.dispatcher.Invoke(ctx, id, name, params)
}

// HandleKey dispatches a raw key event against the implicit local session.
func (a *App) HandleKey(ctx context.Context, rawKey string, modifiers []string) (string, action.Result, error) {
	id, err := a.localSession()
	if err != nil {
		return "", action.Result{}, err
	}
	return a.dispatcher.HandleKey(ctx, id, rawKey, modifiers)
}
