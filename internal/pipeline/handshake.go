// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"

	"github.com/specialistvlad/pipegrid/internal/ctxlog"
)

// Handshake validates the declared data definitions of the whole chain. The
// problem's outputs seed the accumulated definitions; then, in priority
// order, each stage checks its inputs against them and exports its outputs
// into them. It returns the total number of errors; zero means every stage's
// inputs are produced upstream with compatible dimensions and types.
func (p *Pipeline) Handshake(ctx context.Context, log bool) int {
	logger := ctxlog.FromContext(ctx)

	if p.problem == nil {
		if log {
			logger.Error("Handshake failed: no problem registered to provide the initial definitions.")
		}
		return 1
	}

	all := p.problem.OutputDefinitions().Clone()
	errors := 0
	for _, st := range p.order {
		errors += st.comp.HandshakeInputs(ctx, all, log)
		errors += st.comp.ExportOutputs(ctx, all, log)
	}

	if errors == 0 {
		p.definitions = all
		if log {
			logger.Info("Handshake successful.")
			logger.Info("Final definition of DataDict used in pipeline:\n" + all.String())
		}
	}
	return errors
}
