package controller

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name:  "flat object",
			input: map[string]any{"a": "undefined", "b": "null", "c": "value", "d": float64(1)},
			want:  map[string]any{"b": nil, "c": "value", "d": float64(1)},
		},
		{
			name: "nested objects",
			input: map[string]any{
				"filter": map[string]any{"owner": "null", "team": map[string]any{"id": "undefined", "name": "core"}},
			},
			want: map[string]any{
				"filter": map[string]any{"owner": nil, "team": map[string]any{"name": "core"}},
			},
		},
		{
			name: "arrays of objects and sentinels",
			input: map[string]any{
				"items": []any{map[string]any{"x": "null"}, "null", "undefined", "keep", []any{"null"}},
			},
			want: map[string]any{
				"items": []any{map[string]any{"x": nil}, nil, nil, "keep", []any{nil}},
			},
		},
		{
			name:  "near misses are untouched",
			input: map[string]any{"a": "Null", "b": " null", "c": "undefined ", "d": "", "e": false},
			want:  map[string]any{"a": "Null", "b": " null", "c": "undefined ", "d": "", "e": false},
		},
		{
			name:  "top level scalar",
			input: "null",
			want:  "null",
		},
		{
			name:  "nil",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Normalize(tt.input)); diff != "" {
				t.Fatalf("unexpected result (-want +got):\n%s", diff)
			}
		})
	}
}
