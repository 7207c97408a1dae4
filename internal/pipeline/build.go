// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/registry"
)

// SkipSection names the section listing additional sections to ignore.
const SkipSection = "skip"

// reservedSections are never treated as components.
var reservedSections = []string{
	SkipSection,
	"optimizer",
	"gradient_clipping",
	"terminal_conditions",
	"seed_torch",
	"seed_numpy",
}

// CreateProblem registers the problem described by section. It returns the
// number of configuration errors (0 or 1); errors are logged when log is set.
// A second registration is rejected and the first problem is kept. Failures
// of the problem's constructor are returned as an error.
func (p *Pipeline) CreateProblem(ctx context.Context, section *config.Section, log bool) (int, error) {
	logger := ctxlog.FromContext(ctx)

	comp, reg, err := p.createProblem(ctx, section)
	if err != nil {
		if !config.IsConfigurationError(err) {
			return 0, err
		}
		if log {
			logger.Error("Configuration error.", "section", section.Name, "error", err)
		}
		return 1, nil
	}

	p.problem = comp
	p.problemReg = reg
	logger.Debug("Problem registered.", "section", section.Name, "type", reg.Name)
	return 0, nil
}

func (p *Pipeline) createProblem(ctx context.Context, section *config.Section) (component.Problem, *registry.Registration, error) {
	if !section.IsBlock() {
		return nil, nil, config.Errorf(section.Name, "section is a scalar value and cannot define a problem")
	}
	if p.problem != nil {
		return nil, nil, config.Errorf(section.Name, "a problem ('%s') is already registered", p.problem.Name())
	}

	reg, err := p.registry.Lookup(section.Name, section.Params)
	if err != nil {
		return nil, nil, err
	}
	if !reg.Capabilities.Has(component.CapProblem) {
		return nil, nil, config.Errorf(section.Name, "type '%s' does not implement the Problem capability", reg.TypeName())
	}

	comp, err := p.registry.Instantiate(ctx, reg, section.Name, section.Params)
	if err != nil {
		return nil, nil, err
	}
	// Instantiate verified the interface of every declared capability.
	return comp.(component.Problem), reg, nil
}

// Build instantiates every non-skipped section as a pipeline stage. It
// returns the number of configuration errors found; each broken section is
// logged (when log is set) and left out while the remaining sections are
// still processed. A component constructor failure aborts the build and is
// returned as an error. Build may only be called once.
func (p *Pipeline) Build(ctx context.Context, sections []*config.Section, log bool) (int, error) {
	if p.built {
		return 0, ErrAlreadyBuilt
	}
	p.built = true

	logger := ctxlog.FromContext(ctx)
	errs := 0
	report := func(name string, err error) {
		if log {
			logger.Error("Configuration error.", "section", name, "error", err)
		}
		errs++
	}

	skip, err := sectionsToSkip(sections)
	if err != nil {
		report(SkipSection, err)
	}

	for _, section := range sections {
		if _, ok := skip[section.Name]; ok {
			logger.Info("Skipping section.", "section", section.Name)
			continue
		}

		st, err := p.buildStage(ctx, section)
		if err != nil {
			var cerr *registry.ConstructionError
			if errors.As(err, &cerr) || !config.IsConfigurationError(err) {
				return errs, err
			}
			report(section.Name, err)
			continue
		}

		p.stages[st.priority.Key()] = st
		if st.reg.Capabilities.Has(component.CapModel) {
			p.models = append(p.models, st.comp.(component.Model))
		}
		if st.reg.Capabilities.Has(component.CapLoss) {
			p.losses = append(p.losses, st.comp.(component.Loss))
		}
		logger.Debug("Stage added.", "section", section.Name, "type", st.reg.Name, "priority", st.priority.String())
	}

	p.order = make([]*stage, 0, len(p.stages))
	for _, st := range p.stages {
		p.order = append(p.order, st)
	}
	sort.Slice(p.order, func(i, j int) bool {
		return p.order[i].priority.Compare(p.order[j].priority) < 0
	})

	logger.Debug("Pipeline built.", "stages", len(p.order), "models", len(p.models), "losses", len(p.losses), "errors", errs)
	return errs, nil
}

func (p *Pipeline) buildStage(ctx context.Context, section *config.Section) (*stage, error) {
	if !section.IsBlock() {
		return nil, config.Errorf(section.Name, "section is a scalar value and cannot define a component")
	}

	reg, err := p.registry.Lookup(section.Name, section.Params)
	if err != nil {
		return nil, err
	}
	if reg.Capabilities.Has(component.CapProblem) {
		return nil, config.Errorf(section.Name, "type '%s' implements the Problem capability and cannot be instantiated as part of the pipeline", reg.TypeName())
	}

	if !section.Params.Has(PriorityParam) {
		return nil, config.Errorf(section.Name, "section does not contain the key '%s' defining the pipeline order", PriorityParam)
	}
	priority, err := ParsePriority(section.Params[PriorityParam])
	if err != nil {
		return nil, config.Errorf(section.Name, "%w", err)
	}
	if existing, ok := p.stages[priority.Key()]; ok {
		return nil, config.Errorf(section.Name, "found more than one component with the same priority (%s), already used by '%s'", priority, existing.comp.Name())
	}

	comp, err := p.registry.Instantiate(ctx, reg, section.Name, section.Params)
	if err != nil {
		return nil, err
	}
	return &stage{priority: priority, comp: comp, reg: reg}, nil
}

// sectionsToSkip returns the reserved section names plus those listed in the
// comma-separated `skip` section.
func sectionsToSkip(sections []*config.Section) (map[string]struct{}, error) {
	skip := make(map[string]struct{}, len(reservedSections))
	for _, name := range reservedSections {
		skip[name] = struct{}{}
	}

	for _, section := range sections {
		if section.Name != SkipSection || section.IsBlock() || section.Value.IsNull() {
			continue
		}
		list, err := config.Params{SkipSection: section.Value}.String(SkipSection)
		if err != nil {
			return skip, config.Errorf(SkipSection, "expected a comma-separated list of section names: %w", err)
		}
		for _, name := range strings.Split(list, ",") {
			if name = strings.TrimSpace(name); name != "" {
				skip[name] = struct{}{}
			}
		}
	}
	return skip, nil
}
