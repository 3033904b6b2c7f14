package display

import (
	"os"

	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/vrog/internal/ui/output"
)

// DetectMode returns ports.OutputTUI when both stdout and stderr are
// terminals and CI is not set, ports.OutputLinear otherwise.
func DetectMode() ports.OutputMode {
	return detectMode(output.IsTerminal(os.Stdout) && output.IsTerminal(os.Stderr), os.Getenv("CI"))
}

func detectMode(isTTY bool, ci string) ports.OutputMode {
	if !isTTY || ci == "true" || ci == "1" {
		return ports.OutputLinear
	}
	return ports.OutputTUI
}
