package factory

import (
	"time"

	"github.com/birdielog/birdielog/internal/dependencies/mocks"
	memorypropagator "github.com/birdielog/birdielog/internal/propagator/memory"
	"github.com/birdielog/birdielog/internal/services/auth"
	"github.com/birdielog/birdielog/internal/storage/memory"
	"github.com/birdielog/birdielog/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryProp  *memorypropagator.Propagator
	MemoryStore *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	prop := memorypropagator.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, prop, mockClock, mockRandom, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryProp:  prop,
		MemoryStore: store,
	}
}
