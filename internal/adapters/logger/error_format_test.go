package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vrog/internal/adapters/logger"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []logger.ErrorEntry
	}{
		{
			name: "nil",
			err:  nil,
			want: nil,
		},
		{
			name: "standard error",
			err:  errors.New("boom"),
			want: []logger.ErrorEntry{{Message: "boom"}},
		},
		{
			name: "zerr chain",
			err:  zerr.With(zerr.Wrap(errors.New("root"), "outer"), "k", "v"),
			want: []logger.ErrorEntry{
				{Message: "outer", Metadata: map[string]any{"k": "v"}},
				{Message: "root"},
			},
		},
		{
			name: "annotation merges into the sentinel",
			err:  domain.Annotate(domain.ErrDuplicateRule, "target", "app"),
			want: []logger.ErrorEntry{
				{Message: "rule already registered for target", Metadata: map[string]any{"target": "app"}},
			},
		},
		{
			name: "joined errors are flattened in order",
			err:  domain.Because(domain.ErrStatFailed, errors.New("permission denied"), "path", "/x"),
			want: []logger.ErrorEntry{
				{Message: "failed to stat target", Metadata: map[string]any{"path": "/x"}},
				{Message: "permission denied"},
			},
		},
		{
			name: "trailing annotation lands on the last entry",
			err:  zerr.With(errors.New("plain"), "k", 1),
			want: []logger.ErrorEntry{
				{Message: "plain", Metadata: map[string]any{"k": 1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.CollectErrorEntriesExported(tt.err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Message, got[i].Message)
				if len(tt.want[i].Metadata) == 0 {
					assert.Empty(t, got[i].Metadata)
				} else {
					assert.Equal(t, tt.want[i].Metadata, got[i].Metadata)
				}
			}
		})
	}
}

func TestFormatErrorEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []logger.ErrorEntry
		want    string
	}{
		{
			name:    "single entry",
			entries: []logger.ErrorEntry{{Message: "main error"}},
			want:    "Error: main error",
		},
		{
			name: "metadata sorted by key",
			entries: []logger.ErrorEntry{
				{Message: "main error", Metadata: map[string]any{"zebra": "z", "alpha": "a"}},
			},
			want: "Error: main error\n       alpha: a\n       zebra: z",
		},
		{
			name: "causes",
			entries: []logger.ErrorEntry{
				{Message: "main error"},
				{Message: "cause", Metadata: map[string]any{"cause_key": "cause_val"}},
			},
			want: "Error: main error\n\n  Caused by:\n    → cause\n      cause_key: cause_val",
		},
		{
			name: "multiline messages",
			entries: []logger.ErrorEntry{
				{Message: "main\nsecond"},
				{Message: "cause\nmore"},
			},
			want: "Error: main\n       second\n\n  Caused by:\n    → cause\n      more",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorEntriesExported(tt.entries))
		})
	}
}
