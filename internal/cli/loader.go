package cli

import (
	"errors"
	"io/fs"
	"strconv"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/moveset"
)

// loaded is a move set file parsed, built and validated.
type loaded struct {
	Path  string
	Set   *moveset.MoveSet
	Graph *combograph.MoveGraph
}

// loadMoveSet runs the full authoring pipeline on path. Failures come back
// already reported through f.
func loadMoveSet(f *OutputFormatter, path string) (*loaded, error) {
	ms, err := moveset.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		if errors.Is(err, moveset.ErrNoNodes) {
			return nil, f.Fail(ExitFailure, ErrCodeBuild, err)
		}
		return nil, f.Fail(ExitFailure, ErrCodeParse, err)
	}
	g, err := ms.Build()
	if err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeBuild, err)
	}
	if err := g.Validate(); err != nil {
		return nil, f.Fail(ExitFailure, ErrCodeInvalid, err)
	}
	return &loaded{Path: path, Set: ms, Graph: g}, nil
}

// triggerNames inverts the move set's trigger table.
func triggerNames(ms *moveset.MoveSet) map[combograph.TriggerID]string {
	names := make(map[combograph.TriggerID]string, len(ms.Triggers))
	for name, id := range ms.Triggers {
		// Aliases: keep the alphabetically first name so output is stable.
		if prev, ok := names[combograph.TriggerID(id)]; ok && prev < name {
			continue
		}
		names[combograph.TriggerID(id)] = name
	}
	return names
}

func nodeLabel(g *combograph.MoveGraph, i int) string {
	if name := g.NodeName(i); name != "" {
		return name
	}
	return "#" + strconv.Itoa(i)
}
