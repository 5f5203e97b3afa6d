package server

import (
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dshills/glideshow/internal/action"
	"github.com/dshills/glideshow/internal/input/gesture"
)

// maxBodySize caps request bodies; control messages are tiny.
const maxBodySize = 64 * 1024

// readBody reads and validates a JSON request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, action.WrapError(action.KindValidation, err, "reading request body"))
		return nil, false
	}
	if !gjson.ValidBytes(body) {
		writeError(w, action.NewError(action.KindValidation, "request body is not valid JSON"))
		return nil, false
	}
	return body, true
}

// handleResources lists the shared resource list.
func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	items := make([]map[string]any, 0, s.resources.Len())
	for i, desc := range s.resources.All() {
		items = append(items, map[string]any{
			"index":  i,
			"name":   desc.BaseName(),
			"path":   desc.Path,
			"size":   desc.Size,
			"width":  desc.Width,
			"height": desc.Height,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"total":     len(items),
		"resources": items,
	})
}

// handleConfig returns the merged configuration document.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.cfg.Raw())
}

// handleActions lists the registered actions and their parameters.
func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"actions": s.dispatcher.Registry().List(),
	})
}

// handleStatus reports the caller's session state, including the
// rendered status line when a status format is configured.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	snap := s.stateSnapshot(sess)
	if format := s.cfg.String("slideshow.status_format", ""); format != "" {
		snap["status_line"] = renderStatus(statusTemplate(format), snap)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"state":   snap,
	})
}

// handleGetMappings returns the effective token bindings for hotkeys
// or gestures, merged for the requested context.
func (s *Server) handleGetMappings(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if kind != "hotkeys" && kind != "gestures" {
		writeError(w, action.NewError(action.KindNotFound, "unknown mapping kind %q", kind))
		return
	}

	mappingContext := r.URL.Query().Get("context")
	if mappingContext == "" {
		mappingContext = "browsing"
	}
	if !s.cfg.HasContext(kind, mappingContext) {
		writeError(w, action.NewError(action.KindValidation, "unknown %s context %q", kind, mappingContext))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"kind":     kind,
		"context":  mappingContext,
		"mappings": s.cfg.Mapping(kind, mappingContext),
	})
}

// handlePutMapping rebinds a token through the remap actions, so the
// same validation and runtime layering applies as for set_hotkey and
// set_gesture invoked directly.
func (s *Server) handlePutMapping(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	var actionName, tokenParam string
	switch kind {
	case "hotkeys":
		actionName, tokenParam = "set_hotkey", "key"
	case "gestures":
		actionName, tokenParam = "set_gesture", "gesture"
	default:
		writeError(w, action.NewError(action.KindNotFound, "unknown mapping kind %q", kind))
		return
	}

	sess, err := s.resolveSession(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	params := map[string]any{
		"context":  gjson.GetBytes(body, "context").String(),
		tokenParam: gjson.GetBytes(body, tokenParam).String(),
		"action":   gjson.GetBytes(body, "action").String(),
	}

	result, err := s.dispatcher.Invoke(r.Context(), sess.ID, actionName, params)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeResult(w, sess, "", result)
}

// handleExecute invokes a named action with parameters.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	name := gjson.GetBytes(body, "action").String()
	if name == "" {
		writeError(w, action.NewError(action.KindValidation, "missing action name"))
		return
	}

	params := map[string]any{}
	gjson.GetBytes(body, "params").ForEach(func(key, value gjson.Result) bool {
		params[key.String()] = value.Value()
		return true
	})

	result, err := s.dispatcher.Invoke(r.Context(), sess.ID, name, params)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeResult(w, sess, "", result)
}

// handleKey normalizes and dispatches a raw key event.
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	rawKey := gjson.GetBytes(body, "key").String()
	if rawKey == "" {
		writeError(w, action.NewError(action.KindValidation, "missing key"))
		return
	}

	var modifiers []string
	for _, m := range gjson.GetBytes(body, "modifiers").Array() {
		modifiers = append(modifiers, m.String())
	}

	token, result, err := s.dispatcher.HandleKey(r.Context(), sess.ID, rawKey, modifiers)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeResult(w, sess, token, result)
}

// handleGesture feeds a contact event into the session's classifier.
func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	ev, err := parseGestureEvent(body)
	if err != nil {
		writeError(w, err)
		return
	}

	token, result, err := s.dispatcher.HandleGesture(r.Context(), sess.ID, ev)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeResult(w, sess, token, result)
}

// parseGestureEvent decodes a contact event from a request body.
func parseGestureEvent(body []byte) (gesture.Event, error) {
	var phase gesture.Phase
	switch gjson.GetBytes(body, "phase").String() {
	case "start":
		phase = gesture.PhaseStart
	case "move":
		phase = gesture.PhaseMove
	case "end":
		phase = gesture.PhaseEnd
	default:
		return gesture.Event{}, action.NewError(action.KindValidation,
			"phase must be start, move, or end")
	}

	var contacts []gesture.Contact
	for _, c := range gjson.GetBytes(body, "contacts").Array() {
		contacts = append(contacts, gesture.Contact{
			ID: int(c.Get("id").Int()),
			X:  c.Get("x").Float(),
			Y:  c.Get("y").Float(),
		})
	}

	// Clients may timestamp events themselves for accurate hold and
	// double-tap timing over slow links.
	eventTime := time.Now()
	if ms := gjson.GetBytes(body, "time_ms"); ms.Exists() {
		eventTime = time.UnixMilli(ms.Int())
	}

	return gesture.Event{Phase: phase, Contacts: contacts, Time: eventTime}, nil
}
