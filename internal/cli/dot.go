package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/comalice/combograph/internal/production"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	Highlight string
	Output    string
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{}

	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Render a move set as Graphviz DOT",
		Long: `Render the baked move graph as Graphviz DOT. --highlight fills one node,
given by name or index. With --format json the node and edge arrays are
printed instead.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Highlight, "highlight", "", "node to highlight (name or index)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runDot(rootOpts *RootOptions, opts *DotOptions, path string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)

	l, err := loadMoveSet(f, path)
	if err != nil {
		return err
	}

	v := &production.DefaultVisualizer{Triggers: triggerNames(l.Set)}

	if f.JSON() {
		data, err := v.ExportJSON(l.Graph)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, err)
		}
		if opts.Output != "" {
			return writeOutput(f, opts.Output, data)
		}
		return f.Success(json.RawMessage(data))
	}

	highlight, err := resolveNode(l, opts.Highlight)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeInput, err)
	}
	dot := v.ExportDOT(l.Graph, highlight)
	if opts.Output != "" {
		return writeOutput(f, opts.Output, []byte(dot))
	}
	_, err = fmt.Fprint(f.Writer, dot)
	return err
}

// resolveNode maps a --highlight value to a node index.
func resolveNode(l *loaded, ref string) (int, error) {
	if ref == "" {
		return production.NoHighlight, nil
	}
	for i := range l.Graph.NodeCount() {
		if l.Graph.NodeName(i) == ref {
			return i, nil
		}
	}
	i, err := strconv.Atoi(ref)
	if err != nil || i < 0 || i >= l.Graph.NodeCount() {
		return 0, fmt.Errorf("unknown node %q", ref)
	}
	return i, nil
}

func writeOutput(f *OutputFormatter, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	fmt.Fprintf(f.ErrWriter, "wrote %s\n", path)
	return nil
}
