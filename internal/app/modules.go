package app

import (
	"github.com/vk/launchgo/internal/registry"
	"github.com/vk/launchgo/modules/core"
)

// coreModules is the definitive list of all modules that are compiled into
// the launchgo binary.
var coreModules = []registry.Module{
	&core.Module{},
}
