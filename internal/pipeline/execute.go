// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
)

// Forward runs every stage, in priority order, over dd. Stages share dd
// without isolation. The first stage failure stops the pass and is
// returned.
func (p *Pipeline) Forward(ctx context.Context, dd data.DataDict) error {
	for _, st := range p.order {
		stageCtx := ctxlog.With(ctx, "component", st.comp.Name())
		if err := st.comp.Forward(stageCtx, dd); err != nil {
			return fmt.Errorf("component '%s' (priority %s): %w", st.comp.Name(), st.priority, err)
		}
	}
	return nil
}
