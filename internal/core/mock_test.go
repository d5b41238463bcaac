package core

import (
	"context"
	"sync"
)

// MockDriver replays canned solver output and records the programs it was
// given.
type MockDriver struct {
	mu            sync.Mutex
	Programs      []string
	Response      string
	ResponseQueue []string
	// Respond, when set, takes precedence over the canned responses.
	Respond func(program string) (string, error)
	Err     error
}

func (m *MockDriver) Solve(ctx context.Context, program string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Programs = append(m.Programs, program)
	if m.Err != nil {
		return "", m.Err
	}
	if m.Respond != nil {
		return m.Respond(program)
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

func (m *MockDriver) Name() string {
	return "mock"
}
