package services

import (
	"context"

	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/domain"
	"github.com/nhsjdiwlcnsv/DBLabs/internal/core/ports"
)

type storeCall struct {
	query string
	args  []any
}

// mockStore records every call and answers queries through injectable hooks.
type mockStore struct {
	onQueryOne func(query string, args []any) (ports.Row, error)
	onQueryAll func(query string, args []any) ([]ports.Row, error)
	executeErr error
	commitErr  error

	QueryOneCalls []storeCall
	QueryAllCalls []storeCall
	ExecuteCalls  []storeCall
	CommitCalls   int
}

var _ ports.Store = (*mockStore)(nil)

func (m *mockStore) QueryOne(ctx context.Context, query string, args ...any) (ports.Row, error) {
	m.QueryOneCalls = append(m.QueryOneCalls, storeCall{query: query, args: args})
	if m.onQueryOne != nil {
		return m.onQueryOne(query, args)
	}
	return nil, nil
}

func (m *mockStore) QueryAll(ctx context.Context, query string, args ...any) ([]ports.Row, error) {
	m.QueryAllCalls = append(m.QueryAllCalls, storeCall{query: query, args: args})
	if m.onQueryAll != nil {
		return m.onQueryAll(query, args)
	}
	return nil, nil
}

func (m *mockStore) Execute(ctx context.Context, query string, args ...any) error {
	m.ExecuteCalls = append(m.ExecuteCalls, storeCall{query: query, args: args})
	return m.executeErr
}

func (m *mockStore) Commit(ctx context.Context) error {
	m.CommitCalls++
	return m.commitErr
}

func (m *mockStore) calls() int {
	return len(m.QueryOneCalls) + len(m.QueryAllCalls) + len(m.ExecuteCalls)
}

// mockResolver returns a fixed caller id without touching any store.
type mockResolver struct {
	id    int
	err   error
	Calls int
}

var _ ports.IdentityResolver = (*mockResolver)(nil)

func (m *mockResolver) CallerID(ctx context.Context, sess *domain.Session) (int, error) {
	m.Calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.id, nil
}

// mockTokens tracks resume-token operations.
type mockTokens struct {
	email  string
	secret string

	IssueCalls   int
	RestoreCalls int
	RevokeCalls  int
}

var _ ports.SessionTokenStore = (*mockTokens)(nil)

func (m *mockTokens) Issue(ctx context.Context, sess *domain.Session) error {
	m.IssueCalls++
	return nil
}

func (m *mockTokens) Restore(ctx context.Context) (string, string, error) {
	m.RestoreCalls++
	return m.email, m.secret, nil
}

func (m *mockTokens) Revoke(ctx context.Context) error {
	m.RevokeCalls++
	return nil
}

func guestSession() *domain.Session {
	return domain.NewSession()
}

func patientSession() *domain.Session {
	s := domain.NewSession()
	s.Promote("alice@clinic.test", "pw-alice", domain.TierPatient)
	return s
}

func staffSession() *domain.Session {
	s := domain.NewSession()
	s.Promote("doc@clinic.test", "pw-doc", domain.TierStaff)
	return s
}

func adminSession() *domain.Session {
	s := domain.NewSession()
	s.Promote("root@clinic.test", "pw-root", domain.TierAdmin)
	return s
}
