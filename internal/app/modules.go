package app

import (
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/modules/majority"
	"github.com/specialistvlad/pipegrid/modules/print"
	"github.com/specialistvlad/pipegrid/modules/sentences"
	"github.com/specialistvlad/pipegrid/modules/socketio"
	"github.com/specialistvlad/pipegrid/modules/sqlsource"
	"github.com/specialistvlad/pipegrid/modules/tokenizer"
	"github.com/specialistvlad/pipegrid/modules/zeroone"
)

// coreModules is the definitive list of all modules that are compiled into
// the pipegrid binary.
var coreModules = []registry.Module{
	&sentences.Module{},
	&sqlsource.Module{},
	&tokenizer.Module{},
	&majority.Module{},
	&zeroone.Module{},
	&print.Module{},
	&socketio.Module{},
}
