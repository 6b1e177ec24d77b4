package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/kspray/internal/platform/command"
)

// MockRunner is a mock implementation of command.Runner.
type MockRunner struct {
	mock.Mock
}

// Run records the command and returns the configured error.
func (m *MockRunner) Run(ctx context.Context, cmd command.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// Commands returns every command the runner received, in call order.
func (m *MockRunner) Commands() []command.Command {
	var cmds []command.Command
	for _, call := range m.Calls {
		if call.Method == "Run" {
			cmds = append(cmds, call.Arguments.Get(1).(command.Command))
		}
	}
	return cmds
}

// NewMockRunner returns a runner that accepts every command.
func NewMockRunner() *MockRunner {
	m := &MockRunner{}
	m.On("Run", mock.Anything, mock.Anything).Return(nil)
	return m
}
