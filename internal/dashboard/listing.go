// internal/dashboard/listing.go
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"

	"github.com/user/sessionboard/internal/types"
)

// FilterAll is the sentinel filter value meaning "no filter applied".
// Sentinel-valued filters are never forwarded upstream.
const FilterAll = "all"

type sessionsEnvelope struct {
	Sessions []types.Session `json:"sessions"`
}

func listingQuery(timeFilter, sessionID, userID, agentUUID string) url.Values {
	query := url.Values{"time_filter": {timeFilter}}
	if sessionID != "" && sessionID != FilterAll {
		query.Set("session_id", sessionID)
	}
	if userID != "" && userID != FilterAll {
		query.Set("user_id", userID)
	}
	if agentUUID != "" && agentUUID != FilterAll {
		query.Set("agent_uuid", agentUUID)
	}
	return query
}

func (s *Service) fetchListing(ctx context.Context, sess *types.AuthSession, query url.Values) ([]types.Session, error) {
	raw, found, err := s.fetch(ctx, sess, "/v2/sessions", query)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &UpstreamError{Op: "sessions listing unavailable"}
	}
	var env sessionsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode sessions listing: %w", err)
	}
	return env.Sessions, nil
}

// ListSessions returns the filtered listing together with status counts
// computed locally over the filtered result set.
func (s *Service) ListSessions(ctx context.Context, sess *types.AuthSession, timeFilter, sessionID, userID, agentUUID string) (*types.Listing, error) {
	sessions, err := s.fetchListing(ctx, sess, listingQuery(timeFilter, sessionID, userID, agentUUID))
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []types.Session{}
	}

	summary := types.ListingSummary{Total: len(sessions)}
	for _, session := range sessions {
		switch session.Status {
		case types.StatusCompleted:
			summary.Completed++
		case types.StatusInProgress:
			summary.InProgress++
		case types.StatusFailed:
			summary.Failed++
		}
	}

	return &types.Listing{Sessions: sessions, Summary: summary}, nil
}

// DeriveFilterOptions projects the distinct session, user, and agent
// identifiers out of the listing for timeFilter. Unlike the detail flow
// there is no partial result: a missing or failed listing fails the whole
// projection.
func (s *Service) DeriveFilterOptions(ctx context.Context, sess *types.AuthSession, timeFilter string) (*types.FilterOptions, error) {
	sessions, err := s.fetchListing(ctx, sess, url.Values{"time_filter": {timeFilter}})
	if err != nil {
		var upstreamErr *UpstreamError
		if errors.As(err, &upstreamErr) {
			return nil, err
		}
		return nil, &UpstreamError{Op: "derive filter options", Err: err}
	}

	return &types.FilterOptions{
		SessionIDs: distinct(sessions, func(s types.Session) string { return s.SessionID }),
		UserIDs:    distinct(sessions, func(s types.Session) string { return s.UserID }),
		AgentUUIDs: distinct(sessions, func(s types.Session) string { return s.AgentUUID }),
	}, nil
}

// distinct collapses duplicates and sorts so responses are deterministic;
// order carries no meaning.
func distinct(sessions []types.Session, field func(types.Session) string) []string {
	seen := make(map[string]bool, len(sessions))
	values := make([]string, 0, len(sessions))
	for _, session := range sessions {
		v := field(session)
		if seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
