package tokenizer

import (
	"context"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Default slot keys, renamable through the `streams` parameter.
const (
	InputsKey = "inputs"
	TokensKey = "tokens"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of a SentenceTokenizer section.
type Input struct {
	// Separator splits sentences; empty means any run of whitespace.
	Separator string `param:"separator,optional"`
	Lowercase bool   `param:"lowercase,optional"`
}

// Tokenizer splits each sentence of its input stream into tokens.
type Tokenizer struct {
	component.Base
	input  Input
	in     string
	tokens string
}

// New is the constructor registered for the SentenceTokenizer type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	t := &Tokenizer{Base: base}
	if err := params.Decode(&t.input); err != nil {
		return nil, err
	}

	t.in = t.DeclareInput(InputsKey, data.NewDefinition([]int{data.AnySize}, []cty.Type{cty.String}, "sentences to tokenize"))
	t.tokens = t.DeclareOutput(TokensKey, data.NewDefinition([]int{data.AnySize, data.AnySize}, []cty.Type{cty.String}, "tokens per sentence"))
	return t, nil
}

// Tokenize splits a single sentence.
func (t *Tokenizer) Tokenize(sentence string) []string {
	if t.input.Lowercase {
		sentence = strings.ToLower(sentence)
	}
	if t.input.Separator == "" {
		return strings.Fields(sentence)
	}
	var tokens []string
	for _, tok := range strings.Split(sentence, t.input.Separator) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Forward implements component.Component.
func (t *Tokenizer) Forward(ctx context.Context, dd data.DataDict) error {
	sentences, err := data.Get[[]string](dd, t.in)
	if err != nil {
		return err
	}
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		out[i] = t.Tokenize(s)
	}
	dd[t.tokens] = out
	return nil
}

// Register registers the SentenceTokenizer type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".text.SentenceTokenizer",
		Alias:        "SentenceTokenizer",
		Capabilities: component.CapComponent,
		New:          New,
		Description:  "Splits sentences into tokens.",
	})
}
