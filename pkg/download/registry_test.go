package download

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryUnknownByDefault(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, StatusUnknown, r.Get("nonexistent-model"))
}

func TestRegistrySubmitSetsPending(t *testing.T) {
	r := NewRegistry()

	r.Submit("llama3")

	assert.Equal(t, StatusPending, r.Get("llama3"))
}

func TestRegistryTransition(t *testing.T) {
	r := NewRegistry()

	r.Submit("llama3")
	r.Transition("llama3", StatusDownloading)
	assert.Equal(t, StatusDownloading, r.Get("llama3"))

	r.Transition("llama3", StatusCompleted)
	assert.Equal(t, StatusCompleted, r.Get("llama3"))

	// Terminal state is stable until the next submission.
	assert.Equal(t, StatusCompleted, r.Get("llama3"))
}

func TestRegistryFailurePath(t *testing.T) {
	r := NewRegistry()

	r.Submit("llama3")
	assert.Equal(t, StatusPending, r.Get("llama3"))

	r.Transition("llama3", StatusFailed)
	assert.Equal(t, StatusFailed, r.Get("llama3"))
}

func TestRegistryResubmitResetsState(t *testing.T) {
	r := NewRegistry()

	r.Submit("mistral")
	r.Transition("mistral", StatusFailed)

	r.Submit("mistral")
	assert.Equal(t, StatusPending, r.Get("mistral"))
}

func TestRegistryDisjointKeys(t *testing.T) {
	r := NewRegistry()

	r.Submit("llama3")
	r.Submit("mistral")
	r.Transition("mistral", StatusCompleted)

	assert.Equal(t, StatusPending, r.Get("llama3"))
	assert.Equal(t, StatusCompleted, r.Get("mistral"))
	assert.Equal(t, StatusUnknown, r.Get("phi3"))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		name := fmt.Sprintf("model-%d", i%8)
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Submit(name)
			r.Transition(name, StatusDownloading)
			r.Transition(name, StatusCompleted)
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Get(name)
		}()
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		assert.Equal(t, StatusCompleted, r.Get(fmt.Sprintf("model-%d", i)))
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusDownloading.Terminal())
	assert.False(t, StatusUnknown.Terminal())
}
