// Copyright © 2014-2017 Lawrence E. Bakst. All rights reserved.

package metrics

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"leb.io/cuckoo/v2"
)

func fill(t *testing.T, n int) *cuckoo.Cuckoo {
	c, err := cuckoo.New(4, 4, cuckoo.WithSeed(1))
	require.NoError(t, err)
	k := make([]byte, 4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(k, uint32(i))
		c.Put(k, k)
	}
	return c
}

func TestCollector(t *testing.T) {
	c := fill(t, 100)
	m := ForMap("test", c)
	assert.Equal(t, 2, testutil.CollectAndCount(m, "cuckoo_stats"))
	assert.Equal(t, 8, testutil.CollectAndCount(m, "cuckoo_events_total"))

	want := `
# HELP cuckoo_events_total Operations and events of a cuckoo map
# TYPE cuckoo_events_total counter
cuckoo_events_total{event="inserts",name="test"} 100
cuckoo_events_total{event="updates",name="test"} 0
# HELP cuckoo_stats State of a cuckoo map
# TYPE cuckoo_stats gauge
cuckoo_stats{metric="elements",name="test"} 100
`
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	for _, line := range strings.Split(strings.TrimSpace(want), "\n") {
		assert.Contains(t, buf.String(), line)
	}
}

func TestWriteTwoMaps(t *testing.T) {
	a, b := fill(t, 10), fill(t, 20)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ForMap("a", a), ForMap("b", b)))
	assert.Contains(t, buf.String(), `cuckoo_stats{metric="elements",name="a"} 10`)
	assert.Contains(t, buf.String(), `cuckoo_stats{metric="elements",name="b"} 20`)

	// the same name twice is a duplicate series
	assert.Error(t, Write(&buf, ForMap("a", a), ForMap("a", b)))
}

func TestSnapshot(t *testing.T) {
	s := cuckoo.Counters{Grows: 3, Cycles: 1, MaxPathLen: 7}
	m := NewCollector("fixed", func() cuckoo.Counters { return s })
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	assert.Contains(t, buf.String(), `cuckoo_events_total{event="grows",name="fixed"} 3`)
	assert.Contains(t, buf.String(), `cuckoo_events_total{event="cycles",name="fixed"} 1`)
	assert.Contains(t, buf.String(), `cuckoo_stats{metric="max_path_len",name="fixed"} 7`)
}
