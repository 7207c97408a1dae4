package hcl

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// item is one attribute or block of a body, kept with its position so that
// declaration order survives the map of attributes.
type item struct {
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
}

func (i item) name() string {
	if i.attr != nil {
		return i.attr.Name
	}
	return i.block.Type
}

func (i item) rng() hcl.Range {
	if i.attr != nil {
		return i.attr.SrcRange
	}
	return i.block.Range()
}

// orderedItems returns the attributes and blocks of body by source offset.
func orderedItems(body *hclsyntax.Body) []item {
	items := make([]item, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, item{attr: attr})
	}
	for _, block := range body.Blocks {
		items = append(items, item{block: block})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].rng().Start.Byte < items[j].rng().Start.Byte
	})
	return items
}

// pipelineSections translates the body of a pipeline block. Blocks and
// object-valued attributes become parameter sections; other attributes
// become scalar sections.
func pipelineSections(body hcl.Body, evalCtx *hcl.EvalContext) ([]*config.Section, hcl.Diagnostics) {
	sb, diags := syntaxBody(body)
	if diags.HasErrors() {
		return nil, diags
	}

	var sections []*config.Section
	seen := make(map[string]hcl.Range)
	for _, it := range orderedItems(sb) {
		name := it.name()
		if first, dup := seen[name]; dup {
			diags = append(diags, duplicateDiag("pipeline section", name, it.rng(), first))
			continue
		}
		seen[name] = it.rng()

		if it.block != nil {
			if d := noLabels(it.block); d != nil {
				diags = append(diags, d)
				continue
			}
			params, d := blockParams(it.block.Body, evalCtx)
			diags = append(diags, d...)
			if !d.HasErrors() {
				sections = append(sections, &config.Section{Name: name, Params: params, Range: it.rng()})
			}
			continue
		}

		val, d := it.attr.Expr.Value(evalCtx)
		diags = append(diags, d...)
		if d.HasErrors() {
			continue
		}
		section := &config.Section{Name: name, Value: val, Range: it.rng()}
		if ty := val.Type(); val.IsKnown() && !val.IsNull() && (ty.IsObjectType() || ty.IsMapType()) {
			section.Params = make(config.Params)
			for k, v := range val.AsValueMap() {
				section.Params[k] = v
			}
		}
		sections = append(sections, section)
	}
	return sections, diags
}

// bodyParams translates a remain body into a parameter record.
func bodyParams(body hcl.Body, evalCtx *hcl.EvalContext) (config.Params, hcl.Diagnostics) {
	sb, diags := syntaxBody(body)
	if diags.HasErrors() {
		return nil, diags
	}
	return blockParams(sb, evalCtx)
}

// blockParams evaluates the attributes of body. Nested blocks become
// object-valued parameters.
func blockParams(body *hclsyntax.Body, evalCtx *hcl.EvalContext) (config.Params, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	params := make(config.Params, len(body.Attributes)+len(body.Blocks))
	seen := make(map[string]hcl.Range)

	for _, it := range orderedItems(body) {
		name := it.name()
		if first, dup := seen[name]; dup {
			diags = append(diags, duplicateDiag("parameter", name, it.rng(), first))
			continue
		}
		seen[name] = it.rng()

		if it.block != nil {
			if d := noLabels(it.block); d != nil {
				diags = append(diags, d)
				continue
			}
			nested, d := blockParams(it.block.Body, evalCtx)
			diags = append(diags, d...)
			if !d.HasErrors() {
				params[name] = objectOf(nested)
			}
			continue
		}

		val, d := it.attr.Expr.Value(evalCtx)
		diags = append(diags, d...)
		if !d.HasErrors() {
			params[name] = val
		}
	}
	return params, diags
}

func objectOf(params config.Params) cty.Value {
	if len(params) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(params)
}

func noLabels(block *hclsyntax.Block) *hcl.Diagnostic {
	if len(block.Labels) == 0 {
		return nil
	}
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Unexpected block label",
		Detail:   fmt.Sprintf("Block '%s' does not accept labels.", block.Type),
		Subject:  block.LabelRanges[0].Ptr(),
	}
}

func duplicateDiag(what, name string, rng, first hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Duplicate " + what,
		Detail:   fmt.Sprintf("The %s '%s' was already defined at %s.", what, name, first),
		Subject:  rng.Ptr(),
	}
}
