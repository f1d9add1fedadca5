// Copyright © 2014 Lawrence E. Bakst. All rights reserved.

// This program exercises the cuckoo map. Each trial creates a map, fills it,
// verifies the values, probes for keys that were never put, deletes everything
// and optionally churns it against a Go map. ^T toggles per trial summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"leb.io/cuckoo/v2"
	"leb.io/cuckoo/v2/internal/dstest"
	"leb.io/cuckoo/v2/internal/log"
	"leb.io/cuckoo/v2/internal/metrics"
	"leb.io/cuckoo/v2/internal/siginfo"
	"leb.io/hrff"
)

type args struct {
	KeySize    int     `arg:"-k,--key-size" default:"8" help:"key size in bytes"`
	ValueSize  int     `arg:"-s,--value-size" default:"8" help:"value size in bytes"`
	N          int     `arg:"-n" default:"100000" help:"keys per trial"`
	Capacity   int     `arg:"-c,--capacity" default:"32" help:"initial slots per table, negative for the next prime"`
	Trials     int     `arg:"-t,--trials" default:"5" help:"number of trials"`
	Digest     string  `arg:"-d,--digest" default:"sip" help:"digest name"`
	LoadFactor float64 `arg:"--lf" default:"0.5" help:"maximum load factor"`
	Base       int     `arg:"--base" default:"1" help:"first key of the fill"`
	RandomBase bool    `arg:"--rb" help:"ignore base, use a random base"`
	Seed       int64   `arg:"--seed" help:"seed for table seeds and key streams, 0 for random table seeds"`
	Fast       bool    `arg:"--fast" help:"draw table seeds from fastrand"`
	Churn      int     `arg:"--churn" help:"random operations per trial on an empty map"`
	Summary    bool    `arg:"--pt" help:"print a summary for each trial"`
	Metrics    bool    `arg:"--metrics" help:"dump counters in prometheus text format at the end"`
	Verbose    int     `arg:"-v,--verbose" help:"log verbosity 0-2"`
	CPUProfile string  `arg:"--cp" help:"write cpu profile to file"`
	MemProfile string  `arg:"--mp" help:"write memory profile to file"`
}

func (args) Description() string {
	return "cuckoo runs fill, verify, probe and delete trials against the cuckoo map"
}

var summary int32 // toggled by ^T

func statAdd(tot, add *cuckoo.Counters) {
	tot.Elements += add.Elements
	tot.Inserts += add.Inserts
	tot.Updates += add.Updates
	tot.Lookups += add.Lookups
	tot.Hits += add.Hits
	tot.Deletes += add.Deletes
	tot.Bumps += add.Bumps
	tot.Grows += add.Grows
	tot.Cycles += add.Cycles
	if add.MaxPathLen > tot.MaxPathLen {
		tot.MaxPathLen = add.MaxPathLen
	}
}

func rate(ops int, d time.Duration) hrff.Float64 {
	return hrff.Float64{V: float64(ops) * float64(time.Second) / float64(d), U: "ops/sec"}
}

func (a *args) options() []cuckoo.Option {
	opts := []cuckoo.Option{
		cuckoo.WithCapacity(a.Capacity),
		cuckoo.WithDigest(a.Digest),
		cuckoo.WithMaxLoadFactor(a.LoadFactor),
	}
	switch {
	case a.Fast:
		opts = append(opts, cuckoo.WithSeedSource(cuckoo.FastSeedSource()))
	case a.Seed != 0:
		opts = append(opts, cuckoo.WithSeed(a.Seed))
	}
	return opts
}

func trials(ctx context.Context, a *args) (*cuckoo.Counters, []prometheus.Collector, error) {
	l := log.FromContext(ctx, "trials")
	var tot cuckoo.Counters
	var cs []prometheus.Collector
	labels := []string{"fill", "verify", "probe", "delete", "churn"}
	durations := make([]time.Duration, len(labels))

	for t := 0; t < a.Trials; t++ {
		c, err := cuckoo.New(a.KeySize, a.ValueSize, append(a.options(), cuckoo.WithLogger(l))...)
		if err != nil {
			return nil, nil, err
		}
		d := dstest.NewTester(c, a.KeySize, a.ValueSize, a.Seed+int64(t))
		d.Log = log.FromContext(ctx, "dstest")
		if t == 0 {
			sz := hrff.Int64{V: int64(2 * c.Cap() * (a.KeySize + a.ValueSize)), U: "B"}
			fmt.Printf("trials: digest=%s, seed=%#x, initial table size=%H\n", c.DigestName, uint64(a.Seed), sz)
		}

		start := time.Now()
		fs := d.Fill(a.Base, a.N, a.RandomBase)
		durations[0] = time.Since(start)

		start = time.Now()
		if err := d.Verify(fs.Base, fs.N); err != nil {
			return nil, nil, errors.Wrapf(err, "trial %d", t)
		}
		durations[1] = time.Since(start)

		start = time.Now()
		probed, err := d.Probe(a.N)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "trial %d", t)
		}
		durations[2] = time.Since(start)

		elements := c.Len()
		start = time.Now()
		if err := d.Delete(fs.Base, fs.N); err != nil {
			return nil, nil, errors.Wrapf(err, "trial %d", t)
		}
		durations[3] = time.Since(start)
		if c.Len() != 0 {
			return nil, nil, errors.Errorf("trial %d: %d keys left after delete", t, c.Len())
		}

		if a.Churn > 0 {
			start = time.Now()
			if err := d.Churn(a.Churn, a.N); err != nil {
				return nil, nil, errors.Wrapf(err, "trial %d", t)
			}
			durations[4] = time.Since(start)
		}

		if a.Summary || atomic.LoadInt32(&summary) != 0 {
			fmt.Printf("trial %d: n=%d, cap=%d, load=%0.4f, grows=%d, cycles=%d, MaxPathLen=%d, bpi=%0.2f, probed=%d\n",
				t, elements, c.Cap(), fs.Load, fs.Grows, fs.Cycles, fs.MaxPathLen, fs.Bpi, probed)
			ops := []int{fs.N, fs.N, probed, fs.N, a.Churn}
			for i, label := range labels {
				if durations[i] == 0 {
					continue
				}
				fmt.Printf("    %s: %v %h\n", label, durations[i], rate(ops[i], durations[i]))
			}
		}
		statAdd(&tot, &c.Counters)
		cs = append(cs, metrics.ForMap(fmt.Sprintf("trial%d", t), c))
	}
	return &tot, cs, nil
}

func run(a *args) error {
	ctx := log.ContextWithLogger(context.Background(), log.GetLogger(a.Verbose))
	stop := siginfo.SetHandler(func() {
		atomic.StoreInt32(&summary, 1-atomic.LoadInt32(&summary))
	})
	defer stop()

	tot, cs, err := trials(ctx, a)
	if err != nil {
		return err
	}
	bpi := 0.0
	if tot.Inserts > 0 {
		bpi = float64(tot.Bumps) / float64(tot.Inserts)
	}
	fmt.Printf("trials: trials=%d, n=%d, inserts=%d, grows=%d, cycles=%d, MaxPathLen=%d, bpi=%0.2f\n",
		a.Trials, a.N, tot.Inserts, tot.Grows, tot.Cycles, tot.MaxPathLen, bpi)
	if a.Metrics {
		return metrics.Write(os.Stdout, cs...)
	}
	return nil
}

func main() {
	var a args
	arg.MustParse(&a)

	if a.CPUProfile != "" {
		f, err := os.Create(a.CPUProfile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		defer pprof.StopCPUProfile()
	}

	err := run(&a)

	if a.MemProfile != "" {
		f, ferr := os.Create(a.MemProfile)
		if ferr == nil {
			ferr = pprof.WriteHeapProfile(f)
			f.Close()
		}
		if ferr != nil && err == nil {
			err = ferr
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cuckoo: %+v\n", err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
