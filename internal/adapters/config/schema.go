package config

// Vrogfile represents the structure of the vrog.yaml build file.
type Vrogfile struct {
	Version     string              `yaml:"version"`
	Root        string              `yaml:"root"`
	Environment map[string]string   `yaml:"environment"`
	Rules       map[string]*RuleDTO `yaml:"rules"`
}

// RuleDTO represents a rule definition in vrog.yaml. The target is the map key.
type RuleDTO struct {
	Deps        []string          `yaml:"deps"`
	Cmd         string            `yaml:"cmd"`
	Environment map[string]string `yaml:"environment"`
	WorkingDir  string            `yaml:"workingDir"`
}

// hclVrogfile represents the top-level structure of vrog.hcl for decoding.
type hclVrogfile struct {
	Version     string            `hcl:"version,optional"`
	Root        string            `hcl:"root,optional"`
	Environment map[string]string `hcl:"environment,optional"`
	Rules       []*hclRule        `hcl:"rule,block"`
}

// hclRule is a `rule "<target>" { ... }` block.
type hclRule struct {
	Target      string            `hcl:"target,label"`
	Deps        []string          `hcl:"deps,optional"`
	Cmd         string            `hcl:"cmd,optional"`
	Environment map[string]string `hcl:"environment,optional"`
	WorkingDir  string            `hcl:"working_dir,optional"`
}

// ruleSpec is the format-independent form both build files decode into.
type ruleSpec struct {
	target      string
	deps        []string
	cmd         string
	environment map[string]string
	workingDir  string
}
