// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pipeline

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/data"
)

var rule = strings.Repeat("=", 80)

// Summarize renders a deterministic report of the problem and every stage,
// in priority order, with their declared inputs and outputs.
func (p *Pipeline) Summarize() string {
	var b strings.Builder

	b.WriteString("\n" + rule + "\n")
	b.WriteString("Pipeline\n")
	b.WriteString("  + Component name (type) [priority]\n")
	b.WriteString("      Inputs:\n")
	b.WriteString("        key: dims, types, description\n")
	b.WriteString("      Outputs:\n")
	b.WriteString("        key: dims, types, description\n")
	b.WriteString(rule + "\n")

	if p.problem == nil {
		b.WriteString("  + Problem (None) [-1]\n")
	} else {
		fmt.Fprintf(&b, "  + %s (%s) [-1]\n", p.problem.Name(), p.problemReg.TypeName())
		writeDefinitions(&b, "Outputs", p.problem.OutputDefinitions())
	}

	for _, st := range p.order {
		fmt.Fprintf(&b, "  + %s (%s) [%s]\n", st.comp.Name(), st.reg.TypeName(), st.priority)
		writeDefinitions(&b, "Inputs", st.comp.InputDefinitions())
		writeDefinitions(&b, "Outputs", st.comp.OutputDefinitions())
	}
	b.WriteString(rule + "\n")

	return b.String()
}

func writeDefinitions(b *strings.Builder, title string, defs data.DefinitionSet) {
	fmt.Fprintf(b, "      %s:\n", title)
	for _, key := range defs.Keys() {
		fmt.Fprintf(b, "        %s: %s\n", key, defs[key])
	}
}
