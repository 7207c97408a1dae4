package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/fsutil"
)

// Extension is the suffix of configuration files picked up from directories.
const Extension = ".hcl"

// ErrNoFiles is returned when none of the given paths yields a configuration
// file.
var ErrNoFiles = errors.New("no configuration files found")

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ replaces the process environment exposed as `env` when set.
	Environ []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

func (l *Loader) evalContext() *hcl.EvalContext {
	if l.Environ != nil {
		return newEvalContext(l.Environ)
	}
	return defaultEvalContext()
}

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Problems  []*problemBlock  `hcl:"problem,block"`
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
}

type problemBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type pipelineBlock struct {
	Remain hcl.Body `hcl:",remain"`
}

// Load parses every configuration file reachable from paths, in lexical
// path order, and merges them into one model. Pipeline sections keep their
// declaration order across files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := &config.Model{}
	seen := make(map[string]hcl.Range)
	parser := hclparse.NewParser()
	evalCtx := l.evalContext()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, p := range root.Problems {
			params, diags := bodyParams(p.Remain, evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode problem '%s' in %s: %w", p.Name, file, diags)
			}
			model.Problems = append(model.Problems, &config.Section{
				Name:   p.Name,
				Params: params,
				Range:  p.Remain.MissingItemRange(),
			})
		}

		for _, p := range root.Pipelines {
			sections, diags := pipelineSections(p.Remain, evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode pipeline in %s: %w", file, diags)
			}
			for _, s := range sections {
				if first, dup := seen[s.Name]; dup {
					return nil, fmt.Errorf("%s: duplicate pipeline section '%s', first defined at %s", s.Range, s.Name, first)
				}
				seen[s.Name] = s.Range
				model.Pipeline = append(model.Pipeline, s)
			}
		}
	}

	logger.Debug("HCL loading complete.", "problems", len(model.Problems), "sections", len(model.Pipeline))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a sorted list of the
// configuration files found. Missing paths are skipped.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == Extension {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, Extension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(allFiles)
	return allFiles, nil
}

// syntaxBody unwraps the native syntax body behind a remain body.
func syntaxBody(body hcl.Body) (*hclsyntax.Body, hcl.Diagnostics) {
	sb, ok := body.(*hclsyntax.Body)
	if !ok {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unsupported configuration syntax",
			Detail:   "Only native HCL syntax files are supported.",
			Subject:  body.MissingItemRange().Ptr(),
		}}
	}
	return sb, nil
}
