package domain

const (
	// YAMLFileName is the name of the YAML build file.
	YAMLFileName = "vrog.yaml"

	// HCLFileName is the name of the HCL build file.
	HCLFileName = "vrog.hcl"
)

// BuildFileNames lists the build files looked for in each directory, in priority order.
var BuildFileNames = []string{YAMLFileName, HCLFileName}
