// Package config loads build files into a rule registry.
package config

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"go.trai.ch/vrog/internal/core/domain"
	"go.trai.ch/vrog/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the only build file version understood by this loader.
const SupportedVersion = "1"

// Loader implements ports.RuleLoader for vrog.yaml and vrog.hcl files.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load discovers the nearest build file walking up from cwd and returns its rules.
func (l *Loader) Load(cwd string) (*domain.Registry, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(configPath)
}

// LoadFile reads the rules from the given build file. The format is chosen by extension.
func (l *Loader) LoadFile(path string) (*domain.Registry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return l.loadYAML(path)
	case ".hcl":
		return l.loadHCL(path)
	default:
		return nil, domain.Annotate(domain.ErrUnsupportedConfigFormat, "path", path)
	}
}

// findConfiguration checks every directory from cwd up to the filesystem root,
// preferring vrog.yaml over vrog.hcl within a directory.
func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		for _, name := range domain.BuildFileNames {
			candidate := filepath.Join(currentDir, name)
			if _, err := l.FS.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", domain.Annotate(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadYAML(path string) (*domain.Registry, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	var file Vrogfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.Because(domain.ErrConfigParseFailed, err, "path", path)
	}
	l.checkVersion(path, file.Version)

	specs := make([]ruleSpec, 0, len(file.Rules))
	for target, dto := range file.Rules {
		if dto == nil {
			dto = &RuleDTO{}
		}
		specs = append(specs, ruleSpec{
			target:      target,
			deps:        dto.Deps,
			cmd:         dto.Cmd,
			environment: dto.Environment,
			workingDir:  dto.WorkingDir,
		})
	}

	return l.buildRegistry(path, file.Root, file.Environment, specs)
}

func (l *Loader) loadHCL(path string) (*domain.Registry, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, domain.Because(domain.ErrConfigParseFailed, diags, "path", path)
	}

	var file hclVrogfile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return nil, domain.Because(domain.ErrConfigParseFailed, diags, "path", path)
	}
	l.checkVersion(path, file.Version)

	specs := make([]ruleSpec, 0, len(file.Rules))
	for _, rule := range file.Rules {
		specs = append(specs, ruleSpec{
			target:      rule.Target,
			deps:        rule.Deps,
			cmd:         rule.Cmd,
			environment: rule.Environment,
			workingDir:  rule.WorkingDir,
		})
	}

	return l.buildRegistry(path, file.Root, file.Environment, specs)
}

func (l *Loader) read(path string) ([]byte, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return nil, domain.Because(domain.ErrConfigReadFailed, err, "path", path)
	}
	return data, nil
}

func (l *Loader) checkVersion(path, version string) {
	if version != "" && version != SupportedVersion {
		l.Logger.Warn("unknown build file version " + version + " in " + path + ", reading it as version " + SupportedVersion)
	}
}

// buildRegistry registers specs in target order. The sort is stable, so when a
// target is declared twice the later declaration is the one rejected.
func (l *Loader) buildRegistry(
	path, root string,
	shared map[string]string,
	specs []ruleSpec,
) (*domain.Registry, error) {
	slices.SortStableFunc(specs, func(a, b ruleSpec) int {
		return strings.Compare(a.target, b.target)
	})

	reg := domain.NewRegistry()
	reg.SetRoot(resolveRoot(path, root))

	for _, spec := range specs {
		if err := reg.AddRule(spec.target, spec.deps, buildTask(spec, shared)); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}
	return reg, nil
}

// buildTask turns a rule's command into a task. A rule without a command is an aggregate.
func buildTask(spec ruleSpec, shared map[string]string) domain.Task {
	if strings.TrimSpace(spec.cmd) == "" {
		return domain.NoopTask{}
	}

	var env map[string]string
	if len(shared) > 0 || len(spec.environment) > 0 {
		env = make(map[string]string, len(shared)+len(spec.environment))
		maps.Copy(env, shared)
		maps.Copy(env, spec.environment)
	}

	task := &domain.CommandTask{
		Command:     spec.cmd,
		Environment: env,
	}
	if spec.workingDir != "" {
		task.WorkingDir = domain.NewInternedString(filepath.Clean(spec.workingDir))
	}
	return task
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}
