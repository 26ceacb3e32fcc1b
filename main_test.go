package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs-au-dk/gocpa/analysis/algorithm"
	"github.com/cs-au-dk/gocpa/analysis/cpa"
	"github.com/cs-au-dk/gocpa/analysis/location"
	"github.com/cs-au-dk/gocpa/pkgutil"
)

func TestDecide(t *testing.T) {
	interrupted := fmt.Errorf("%w: %w", algorithm.ErrInterrupted, context.Canceled)

	tests := []struct {
		name    string
		status  cpa.AlgorithmStatus
		targets int
		waiting bool
		err     error
		want    verdict
	}{
		{"exhausted", cpa.SOUND_AND_PRECISE, 0, false, nil, SAFE},
		{"target", cpa.SOUND_AND_PRECISE, 1, true, nil, TARGET_REACHED},
		{"target before interrupt", cpa.SOUND_AND_PRECISE, 1, true, interrupted, TARGET_REACHED},
		{"interrupted", cpa.SOUND_AND_PRECISE, 0, true, interrupted, INTERRUPTED},
		{"waiting", cpa.SOUND_AND_PRECISE, 0, true, nil, UNKNOWN},
		{"unsound", cpa.SOUND_AND_PRECISE.WithSound(false), 0, false, nil, UNKNOWN},
		{"imprecise", cpa.SOUND_AND_PRECISE.WithPrecise(false), 0, false, nil, UNKNOWN},
		{"failed", cpa.SOUND_AND_PRECISE, 0, true, errors.New("boom"), UNKNOWN},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, decide(test.status, test.targets, test.waiting, test.err))
		})
	}
}

func loadPipeline(t *testing.T, pkg, fun string) *pipeline {
	t.Helper()
	pkgs, err := pkgutil.LoadPackages(pkgutil.LoadConfig{GoPath: "examples"}, pkg)
	require.NoError(t, err)

	p, err := newPipeline(pkgs, fun)
	require.NoError(t, err)
	return p
}

func TestReach(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		pkg, fun string
		want     verdict
	}{
		{"reach/unguarded-panic", "main", TARGET_REACHED},
		{"reach/guarded-panic", "main", TARGET_REACHED},
		{"reach/no-panic", "fib", SAFE},
		{"reach/no-panic", "main", SAFE},
	}

	for _, test := range tests {
		t.Run(test.pkg+"."+test.fun, func(t *testing.T) {
			p := loadPipeline(t, test.pkg, test.fun)
			assert.Equal(t, test.fun, p.fun.Name())
			assert.True(t, p.cfa.Compressed())

			res, err := p.reach(context.Background())
			require.NoError(t, err)
			assert.Equal(t, test.want, res.verdict)

			var buf bytes.Buffer
			res.report(&buf)
			out := buf.String()
			assert.Contains(t, out, "Verdict: "+test.want.String())
			assert.Contains(t, out, fmt.Sprintf("Reached %d of %d locations", res.reached.Size(), len(p.cfa.Nodes())))
			for _, n := range p.cfa.Nodes() {
				assert.Equal(t, res.reached.Contains(location.StateOf(n)), res.isReached(n))
			}
			if test.want == TARGET_REACHED {
				assert.Contains(t, out, "Error locations reached:")
				assert.Contains(t, out, "(panic)")
			} else {
				assert.NotContains(t, out, "Error locations reached:")
			}
		})
	}
}

func TestReachInterrupted(t *testing.T) {
	p := loadPipeline(t, "reach/no-panic", "fib")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.reach(ctx)
	require.NoError(t, err)
	assert.Equal(t, INTERRUPTED, res.verdict)
}

func TestPositions(t *testing.T) {
	color.NoColor = true
	p := loadPipeline(t, "reach/no-panic", "fib")

	var buf bytes.Buffer
	p.positions(&buf)
	out := buf.String()
	for _, n := range p.cfa.Nodes() {
		assert.Contains(t, out, n.String())
	}
	assert.Contains(t, out, "main.go:")
}
