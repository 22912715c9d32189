package rtsched

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Enabled(t *testing.T) {
	assert := assert.New(t)

	assert.False(Settings{}.Enabled())
	assert.True(Settings{Priority: 10}.Enabled())
	assert.True(Settings{CPUs: []int{0}}.Enabled())
	assert.True(Settings{LockMemory: true}.Enabled())
}

func TestApply_NothingRequested(t *testing.T) {
	r := Apply(Settings{})
	assert.Equal(t, Result{}, r)
}

func TestApply_BestEffort(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// out-of-range priority is refused on every platform
	r := Apply(Settings{Priority: 1000})
	assert.Error(t, r.PriorityErr)
	assert.Len(t, r.KeyValues(), 6)
}
