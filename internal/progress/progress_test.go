package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionPlainBanner(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(buf, 10)

	r.Section("Dumping")

	assert.Equal(t, "-------------\n-- Dumping --\n-------------\n", buf.String())
}

func TestStepEveryN(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(buf, 2)

	for i := 0; i < 5; i++ {
		r.Step(i, 5)
	}
	r.Done()

	assert.Equal(t, "Progress: 0%...\nProgress: 40%...\nProgress: 80%...\nProgress: 100%\n", buf.String())
}

func TestStepDefaultInterval(t *testing.T) {
	buf := &bytes.Buffer{}
	r := New(buf, 0)

	for i := 0; i < 1500; i++ {
		r.Step(i, 3000)
	}

	assert.Equal(t, "Progress: 0%...\nProgress: 33.33%...\n", buf.String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "0", Percent(0, 7))
	assert.Equal(t, "14.29", Percent(1, 7))
	assert.Equal(t, "50", Percent(1, 2))
}

func TestNilReporter(t *testing.T) {
	var r *Reporter
	require.NotPanics(t, func() {
		r.Section("x")
		r.Printf("y %d", 1)
		r.Step(0, 1)
		r.Done()
	})
}

func TestIsTTYNonFile(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, IsTTY(nil))
}
