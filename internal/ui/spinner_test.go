package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerShowsLatestMessage(t *testing.T) {
	out := &lockedBuffer{}
	s := NewSpinnerTo(out)
	s.interval = time.Millisecond

	s.Start("fetching ids")
	s.Update("fetching items 1/3")
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "fetching items 1/3")
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.True(t, strings.HasSuffix(out.String(), "\r\033[K"))
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	out := &lockedBuffer{}
	NewSpinnerTo(out).Stop()
	assert.Empty(t, out.String())
}
