package llm

import "context"

// MockGateway is a canned-response Gateway for tests. It records its calls
// so tests can assert that validation failures never reach the model.
type MockGateway struct {
	Response string
	Err      error

	Calls      int
	LastSystem string
	LastUser   string
}

// Complete returns the canned response or error.
func (m *MockGateway) Complete(_ context.Context, system, user string) (string, error) {
	m.Calls++
	m.LastSystem = system
	m.LastUser = user
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// Name identifies the mock in logs.
func (m *MockGateway) Name() string { return "mock" }
