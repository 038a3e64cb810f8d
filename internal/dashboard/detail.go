// internal/dashboard/detail.go
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/user/sessionboard/internal/types"
	"github.com/user/sessionboard/internal/upstream"
)

type sessionEnvelope struct {
	Session *types.Session `json:"session"`
}

type summaryEnvelope struct {
	Summary json.RawMessage `json:"summary"`
}

type statsEnvelope struct {
	Stats json.RawMessage `json:"stats"`
}

type subagentsEnvelope struct {
	Subagents []types.Subagent `json:"subagents"`
}

type eventsEnvelope struct {
	Events []types.Event `json:"events"`
}

// BuildSessionView assembles the detail view for one session. The six
// sub-fetches run concurrently and each degrades to absent/empty on a
// non-200 without disturbing the others; only a transport failure (or an
// unexpected error such as a malformed 200 body) aborts the flow. Every
// fetch is scoped to the one sessionID.
func (s *Service) BuildSessionView(ctx context.Context, sess *types.AuthSession, sessionID, subagentID, eventType string) (*types.SessionView, error) {
	view := &types.SessionView{
		SessionID:        sessionID,
		Subagents:        []types.Subagent{},
		Events:           []types.Event{},
		EventTypes:       []string{},
		CurrentSubagent:  subagentID,
		CurrentEventType: eventType,
	}

	eventsQuery := url.Values{}
	if subagentID != "" {
		eventsQuery.Set("subagent_id", subagentID)
	}
	if eventType != "" {
		eventsQuery.Set("event_type", eventType)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/session/"+sessionID, nil)
		if err != nil || !found {
			return err
		}
		var env sessionEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode session %s: %w", sessionID, err)
		}
		view.StatusSummary = env.Session
		return nil
	})

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/session-stats/"+sessionID, nil)
		if err != nil || !found {
			return err
		}
		var env statsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode session stats %s: %w", sessionID, err)
		}
		view.EventStats = env.Stats
		return nil
	})

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/session_summary/"+sessionID, nil)
		if err != nil || !found {
			return err
		}
		var env summaryEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode session summary %s: %w", sessionID, err)
		}
		view.Summary = env.Summary
		return nil
	})

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/subagents/"+sessionID, nil)
		if err != nil || !found {
			return err
		}
		var env subagentsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode subagents %s: %w", sessionID, err)
		}
		if env.Subagents != nil {
			view.Subagents = env.Subagents
		}
		return nil
	})

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/subagent-stats/"+sessionID, nil)
		if err != nil || !found {
			return err
		}
		var env statsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode subagent stats %s: %w", sessionID, err)
		}
		view.SubagentStats = env.Stats
		return nil
	})

	g.Go(func() error {
		raw, found, err := s.fetch(gctx, sess, "/v2/events/"+sessionID, eventsQuery)
		if err != nil || !found {
			return err
		}
		var env eventsEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode events %s: %w", sessionID, err)
		}
		if env.Events != nil {
			view.Events = env.Events
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		var conn *upstream.ConnectivityError
		if errors.As(err, &conn) {
			return nil, err
		}
		return nil, &InternalError{Err: err}
	}

	view.EventTypes = distinctEventTypes(view.Events)
	return view, nil
}

// distinctEventTypes collapses the non-empty event_type values, sorted.
func distinctEventTypes(events []types.Event) []string {
	seen := make(map[string]bool)
	kinds := make([]string, 0, len(events))
	for _, event := range events {
		if event.EventType == "" || seen[event.EventType] {
			continue
		}
		seen[event.EventType] = true
		kinds = append(kinds, event.EventType)
	}
	sort.Strings(kinds)
	return kinds
}
