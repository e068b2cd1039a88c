package cli

import (
	"github.com/spf13/cobra"
)

// ValidationResult summarizes one valid move set.
type ValidationResult struct {
	Path          string `json:"path"`
	Name          string `json:"name"`
	Nodes         int    `json:"nodes"`
	Edges         int    `json:"edges"`
	QueueCapacity int    `json:"queue_capacity"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check move set files",
		Long: `Parse each move set, resolve its names, bake it into a graph and check
the graph's structure. Stops at the first invalid file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	log := opts.logger(cmd)

	results := make([]ValidationResult, 0, len(paths))
	for _, path := range paths {
		log.Debug("validating", "path", path)
		l, err := loadMoveSet(f, path)
		if err != nil {
			return err
		}
		r := ValidationResult{
			Path:          path,
			Name:          l.Set.Name,
			Nodes:         l.Graph.NodeCount(),
			Edges:         l.Graph.EdgeCount(),
			QueueCapacity: l.Set.Capacity(),
		}
		results = append(results, r)
		f.Printf("✓ %s: %d nodes, %d edges, queue %d\n", r.Name, r.Nodes, r.Edges, r.QueueCapacity)
	}

	if f.JSON() {
		return f.Success(results)
	}
	return nil
}
