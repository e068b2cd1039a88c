package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/comalice/combograph/moveset"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	Debounce time.Duration
}

// ReloadReport is one line of watch output.
type ReloadReport struct {
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	OK         bool   `json:"ok"`
	Generation uint64 `json:"generation,omitempty"`
	Nodes      int    `json:"nodes,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <dir>...",
		Short: "Revalidate move sets as they are edited",
		Long: `Load every .yaml/.yml move set in the given directories, then rebuild
each file whenever it changes on disk and report the result. Runs until
interrupted.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "quiet period before a changed file is reloaded")

	return cmd
}

func runWatch(rootOpts *RootOptions, opts *WatchOptions, dirs []string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	log := rootOpts.logger(cmd)
	lib := moveset.NewLibrary()

	for _, dir := range dirs {
		files, err := os.ReadDir(dir)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		for _, fi := range files {
			ext := filepath.Ext(fi.Name())
			if fi.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			path := filepath.Join(dir, fi.Name())
			e, err := lib.LoadFile(path)
			report(f, moveset.Reload{Path: path, Entry: e, Err: err})
		}
	}

	w, err := moveset.NewWatcher(lib, dirs,
		moveset.WithDebounce(opts.Debounce),
		moveset.WithWatchLogger(log))
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	defer w.Close()

	log.Info("watching", "dirs", dirs, "debounce", opts.Debounce)
	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-w.Reloads:
			if !ok {
				return nil
			}
			report(f, r)
		}
	}
}

func report(f *OutputFormatter, r moveset.Reload) {
	rep := ReloadReport{Path: r.Path, Name: r.Name, OK: r.Err == nil}
	if r.Entry != nil {
		rep.Name = r.Entry.Set.Name
		rep.Generation = r.Entry.Generation
		rep.Nodes = r.Entry.Graph.NodeCount()
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}

	if f.JSON() {
		// Each report is its own JSON document.
		_ = f.Success(rep)
		return
	}
	if rep.OK {
		f.Printf("✓ %s (%s) gen %d, %d nodes\n", rep.Name, rep.Path, rep.Generation, rep.Nodes)
	} else {
		f.Printf("✗ %s: %s\n", rep.Path, rep.Error)
	}
}
