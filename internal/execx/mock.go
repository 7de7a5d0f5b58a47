package execx

import "context"

// Call records one invocation handed to a MockRunner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
	Dir   string
}

// String renders the call the way it would appear on a shell prompt.
func (c Call) String() string {
	s := c.Name
	for _, a := range c.Args {
		s += " " + a
	}
	return s
}

// MockRunner records calls and returns preconfigured responses.
// Use this in tests to avoid real shell execution. Set RunFn for
// dynamic per-call responses, otherwise Res/Err are returned.
type MockRunner struct {
	Calls []Call
	Res   Result
	Err   error
	RunFn func(c Call) (Result, error)
}

func (m *MockRunner) Run(_ context.Context, name string, args ...string) error {
	_, err := m.record(Call{Name: name, Args: args})
	return err
}

func (m *MockRunner) RunInput(_ context.Context, stdin, name string, args ...string) error {
	_, err := m.record(Call{Name: name, Args: args, Stdin: stdin})
	return err
}

func (m *MockRunner) Capture(_ context.Context, name string, args ...string) (Result, error) {
	return m.record(Call{Name: name, Args: args})
}

func (m *MockRunner) CaptureIn(_ context.Context, dir, name string, args ...string) (Result, error) {
	return m.record(Call{Name: name, Args: args, Dir: dir})
}

func (m *MockRunner) record(c Call) (Result, error) {
	m.Calls = append(m.Calls, c)
	if m.RunFn != nil {
		return m.RunFn(c)
	}
	return m.Res, m.Err
}
