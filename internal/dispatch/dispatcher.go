// Package dispatch routes named actions to handlers and applies their
// state patches to sessions. It is the single write path for session
// state: handlers compute changes against an immutable view, and the
// dispatcher applies them under the session lock.
package dispatch

import (
	"context"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/config"
	"github.com/dshills/glideshow/internal/input/gesture"
	"github.com/dshills/glideshow/internal/input/hotkey"
	"github.com/dshills/glideshow/internal/logging"
	"github.com/dshills/glideshow/internal/resource"
	"github.com/dshills/glideshow/internal/session"
)

// Dispatcher routes actions and input events to handlers.
type Dispatcher struct {
	registry  *action.Registry
	sessions  *session.Manager
	resources *resource.List
	cfg       *config.Config
	resolver  *hotkey.Resolver
	tools     map[string]Tool
	logger    *logging.Logger
}

// New creates a dispatcher. The session manager is attached afterwards
// with SetSessions because the manager's timer callback points back at
// the dispatcher.
func New(cfg *config.Config, resources *resource.List, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.NullLogger
	}

	d := &Dispatcher{
		registry:  action.NewRegistry(),
		resources: resources,
		cfg:       cfg,
		resolver:  hotkey.NewResolver(cfg),
		logger:    logger.WithComponent("dispatch"),
	}

	tools, err := DiscoverTools(cfg.String("external_tools.search_dir", "."),
		cfg.String("external_tools.base_name", "tool"))
	if err != nil {
		return nil, err
	}
	d.tools = tools

	if err := d.registerBuiltins(); err != nil {
		return nil, err
	}
	d.registry.Freeze()
	return d, nil
}

// SetSessions attaches the session manager.
func (d *Dispatcher) SetSessions(sessions *session.Manager) {
	d.sessions = sessions
}

// Registry exposes the action registry for listings.
func (d *Dispatcher) Registry() *action.Registry {
	return d.registry
}

// Invoke executes a named action against a session. Dispatch-level
// failures (unknown session or action, bad parameters) return an error;
// handler outcomes, including failures, come back in the Result.
func (d *Dispatcher) Invoke(ctx context.Context, sessionID, name string, params map[string]any) (action.Result, error) {
	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		return action.Result{}, action.NewError(action.KindNotFound, "unknown session %q", sessionID)
	}

	def, ok := d.registry.Get(name)
	if !ok {
		return action.Result{}, action.NewError(action.KindNotFound, "unknown action %q", name)
	}

	if params == nil {
		params = map[string]any{}
	}
	if err := def.ValidateParams(params); err != nil {
		return action.Result{}, err
	}

	var result action.Result
	sess.Exec(func(st *session.State) bool {
		view := d.viewFrom(st)
		result = def.Handler(ctx, view, params)
		if result.IsSuccess() && result.Patch != nil {
			st.Apply(result.Patch)
		}
		return result.IsSuccess() && result.Patch != nil && result.Patch.ResetTimer
	})

	if result.Error != nil {
		d.logger.Warn("action %s failed: %v", name, result.Error)
	} else {
		d.logger.Debug("action %s status=%s session=%s", name, result.Status, sessionID)
	}
	return result, nil
}

// HandleKey normalizes a raw key event, resolves it in the session's
// active context, and invokes the bound action. An unbound key is a
// no-op, not an error.
func (d *Dispatcher) HandleKey(ctx context.Context, sessionID, rawKey string, modifiers []string) (string, action.Result, error) {
	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		return "", action.Result{}, action.NewError(action.KindNotFound, "unknown session %q", sessionID)
	}

	token := hotkey.Normalize(rawKey, modifiers)

	var mappingContext string
	sess.Exec(func(st *session.State) bool {
		mappingContext = st.Context
		return false
	})

	actionName, bound := d.resolver.Resolve(mappingContext, token)
	if !bound {
		d.logger.Debug("key %s unbound in context %s", token, mappingContext)
		return token, action.NoOp("no action bound to %q in context %q", token, mappingContext), nil
	}

	result, err := d.Invoke(ctx, sessionID, actionName, nil)
	return token, result, err
}

// HandleGesture feeds a contact event into the session's classifier
// and, when a gesture completes, invokes the action bound to it.
// Returns the gesture token, "" when no gesture resolved yet.
func (d *Dispatcher) HandleGesture(ctx context.Context, sessionID string, ev gesture.Event) (string, action.Result, error) {
	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		return "", action.Result{}, action.NewError(action.KindNotFound, "unknown session %q", sessionID)
	}

	token := sess.Classifier().Feed(ev)
	if token == "" {
		return "", action.NoOp("no gesture completed"), nil
	}

	var mappingContext string
	sess.Exec(func(st *session.State) bool {
		mappingContext = st.Context
		return false
	})

	actionName, bound := d.resolver.ResolveGesture(mappingContext, token)
	if !bound {
		d.logger.Debug("gesture %s unbound in context %s", token, mappingContext)
		return token, action.NoOp("no action bound to gesture %q in context %q", token, mappingContext), nil
	}

	result, err := d.Invoke(ctx, sessionID, actionName, nil)
	return token, result, err
}

// TimerFired is the session manager's timer callback. The generation
// token is re-validated under the session lock, so a timer armed before
// a user action can never advance over that action's result.
func (d *Dispatcher) TimerFired(sessionID string, gen uint64) {
	sess, ok := d.sessions.Get(sessionID)
	if !ok {
		return
	}

	sess.ExecTimer(gen, func(st *session.State) bool {
		view := d.viewFrom(st)
		patch, moved := advancePatch(view, 1)
		if !moved {
			// End of the list with repeat off; the show stops here.
			d.logger.Debug("auto-advance stopped at end session=%s", sessionID)
			return false
		}
		patch.ResetTimer = true
		st.Apply(patch)
		return true
	})
}

// viewFrom builds the immutable handler view from session state.
func (d *Dispatcher) viewFrom(st *session.State) *action.View {
	hidden := make(map[int]bool, len(st.Hidden))
	for k, v := range st.Hidden {
		if v {
			hidden[k] = true
		}
	}
	var order []int
	if st.Order != nil {
		order = append([]int(nil), st.Order...)
	}
	return &action.View{
		SessionID:    st.ID,
		CurrentIndex: st.CurrentIndex,
		Cursor:       st.Cursor,
		Order:        order,
		Paused:       st.Paused,
		Repeat:       st.Repeat,
		Shuffle:      st.Shuffle,
		SpeedSeconds: st.SpeedSeconds,
		Context:      st.Context,
		Hidden:       hidden,
		Resources:    d.resources,
	}
}
