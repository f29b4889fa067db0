package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		name        string
		start, stop int64
		n           int64
		lo, hi      int64
		ok          bool
	}{
		{name: "whole list", start: 0, stop: -1, n: 5, lo: 0, hi: 5, ok: true},
		{name: "first ten of five", start: 0, stop: 9, n: 5, lo: 0, hi: 5, ok: true},
		{name: "first ten of twelve", start: 0, stop: 9, n: 12, lo: 0, hi: 10, ok: true},
		{name: "tail beyond ten", start: 10, stop: -1, n: 12, lo: 10, hi: 12, ok: true},
		{name: "tail beyond ten of ten", start: 10, stop: -1, n: 10, ok: false},
		{name: "negative start", start: -2, stop: -1, n: 4, lo: 2, hi: 4, ok: true},
		{name: "start past stop", start: 3, stop: 1, n: 4, ok: false},
		{name: "empty list", start: 0, stop: -1, n: 0, ok: false},
		{name: "very negative start clamps", start: -100, stop: 1, n: 4, lo: 0, hi: 2, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := NormalizeRange(tt.start, tt.stop, tt.n)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lo, lo)
				assert.Equal(t, tt.hi, hi)
			}
		})
	}
}
