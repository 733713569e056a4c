package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.UnitOfWork()
		c.Yield()
		c.Preemption()
		c.Commit(2, time.Millisecond)
		c.Effect("run")
		c.Fault("render")
	})
}

func TestCollectorCounts(t *testing.T) {
	c := New("test")
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))

	c.UnitOfWork()
	c.UnitOfWork()
	c.Yield()
	c.Preemption()
	c.Commit(3, 2*time.Millisecond)
	c.Effect("cleanup")
	c.Effect("run")
	c.Effect("run")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.units))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.yields))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.preemptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commits))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.deletions))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.effects.WithLabelValues("run")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.commitDuration))
}

func TestRegisterTwiceFails(t *testing.T) {
	c := New("dup")
	reg := prometheus.NewRegistry()
	require.NoError(t, c.Register(reg))
	assert.Error(t, c.Register(reg))
}
