package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/vrog/internal/core/domain"
)

func TestCommandTask_Expand(t *testing.T) {
	target := domain.NewInternedString("example.out")
	deps := domain.NewInternedStrings([]string{"a.o", "b.o", "main.o"})

	tests := []struct {
		name    string
		command string
		deps    []domain.InternedString
		want    string
	}{
		{name: "target", command: "touch $@", deps: deps, want: "touch example.out"},
		{name: "first dependency", command: "cc -c -o $@ $<", deps: deps, want: "cc -c -o example.out a.o"},
		{name: "all dependencies", command: "cc -o $@ $^", deps: deps, want: "cc -o example.out a.o b.o main.o"},
		{name: "escaped dollar", command: "echo $$HOME", deps: deps, want: "echo $HOME"},
		{name: "escaped automatic variable", command: "echo $$@", deps: deps, want: "echo $@"},
		{name: "no dependencies", command: "echo [$<] [$^]", deps: nil, want: "echo [] []"},
		{name: "plain shell variables untouched", command: "echo $PATH ${CC}", deps: deps, want: "echo $PATH ${CC}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &domain.CommandTask{Command: tt.command}
			assert.Equal(t, tt.want, task.Expand(target, tt.deps))
		})
	}
}

func TestTask_Describe(t *testing.T) {
	assert.Equal(t, "cc -o $@ $^", (&domain.CommandTask{Command: "cc -o $@ $^"}).Describe())
	assert.Equal(t, "<noop>", domain.NoopTask{}.Describe())
	assert.Equal(t, "<func>", domain.FuncTask(nil).Describe())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "up-to-date", domain.OutcomeUpToDate.String())
	assert.Equal(t, "rebuilt", domain.OutcomeRebuilt.String())
}
