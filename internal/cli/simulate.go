package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/combograph"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	Inputs   []string
	Capacity int
	NoFinish bool
}

// SimStep is one line of a simulation.
type SimStep struct {
	Step    int    `json:"step"`
	Trigger string `json:"trigger"`
	Outcome string `json:"outcome"`
	From    string `json:"from"`
	To      string `json:"to"`
	Action  int    `json:"action"`
	Healed  bool   `json:"healed,omitempty"`
}

// SimulationResult is the JSON payload of simulate.
type SimulationResult struct {
	MoveSet  string    `json:"move_set"`
	Capacity int       `json:"capacity"`
	Steps    []SimStep `json:"steps"`
	Dropped  int       `json:"dropped"`
	Final    string    `json:"final"`
	Busy     bool      `json:"busy"`
}

// outcomeDropped marks an input the full queue refused.
const outcomeDropped = "dropped"

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Feed a sequence of inputs to one actor",
		Long: `Feed inputs to a single actor starting at the idle node. Each input is
queued and the actor advanced once; the action is reported finished after
every transition unless --no-finish is set, in which case inputs pile up in
the queue and overflow is reported as dropped.`,
		Example:       `  combograph simulate sword.yaml --inputs light,light,heavy`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Inputs, "inputs", "i", nil, "comma separated triggers (names or numbers)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "input queue capacity, 8 or 16 (default from the move set)")
	cmd.Flags().BoolVar(&opts.NoFinish, "no-finish", false, "never signal that an action finished")
	_ = cmd.MarkFlagRequired("inputs")

	return cmd
}

func runSimulate(rootOpts *RootOptions, opts *SimulateOptions, path string, cmd *cobra.Command) error {
	f := rootOpts.formatter(cmd)
	log := rootOpts.logger(cmd)

	l, err := loadMoveSet(f, path)
	if err != nil {
		return err
	}

	capacity := opts.Capacity
	switch capacity {
	case 0:
		capacity = l.Set.Capacity()
	case combograph.QueueCapacity, combograph.LongQueueCapacity:
	default:
		return f.Fail(ExitCommandError, ErrCodeInput,
			fmt.Errorf("capacity must be %d or %d, got %d", combograph.QueueCapacity, combograph.LongQueueCapacity, capacity))
	}

	triggers := make([]combograph.TriggerID, 0, len(opts.Inputs))
	for _, in := range opts.Inputs {
		t, err := l.Set.Trigger(strings.TrimSpace(in))
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeInput, fmt.Errorf("input %q: %w", in, err))
		}
		triggers = append(triggers, t)
	}

	names := triggerNames(l.Set)
	label := func(t combograph.TriggerID) string {
		if n, ok := names[t]; ok {
			return n
		}
		return fmt.Sprint(int(t))
	}

	res := SimulationResult{MoveSet: l.Set.Name, Capacity: capacity, Steps: []SimStep{}}
	actor := combograph.NewActor(capacity)
	record := func(r combograph.Result) {
		res.Steps = append(res.Steps, SimStep{
			Step:    len(res.Steps) + 1,
			Trigger: label(r.Trigger),
			Outcome: r.Outcome.String(),
			From:    nodeLabel(l.Graph, r.From),
			To:      nodeLabel(l.Graph, r.To),
			Action:  int(r.Action),
			Healed:  r.Healed,
		})
	}
	advance := func() combograph.Result {
		r := combograph.Advance(&actor.State, actor.Queue, l.Graph)
		log.Debug("advance", "outcome", r.Outcome, "from", r.From, "to", r.To, "pending", actor.Queue.Len())
		if r.Outcome == combograph.Matched || r.Outcome == combograph.Rejected {
			record(r)
		}
		if r.Outcome == combograph.Matched && !opts.NoFinish {
			actor.State.SignalFinished()
		}
		return r
	}

	for _, t := range triggers {
		if !actor.Queue.TryEnqueue(t) {
			res.Dropped++
			res.Steps = append(res.Steps, SimStep{
				Step:    len(res.Steps) + 1,
				Trigger: label(t),
				Outcome: outcomeDropped,
				From:    nodeLabel(l.Graph, actor.State.CurrentNode),
				To:      nodeLabel(l.Graph, actor.State.CurrentNode),
			})
			continue
		}
		advance()
	}
	// Drain what is left; a busy actor with no finish signal stays stuck.
	for actor.Queue.Len() > 0 {
		if r := advance(); r.Outcome == combograph.Busy {
			break
		}
	}

	res.Final = nodeLabel(l.Graph, actor.State.CurrentNode)
	res.Busy = actor.State.Busy

	if f.JSON() {
		return f.Success(res)
	}
	for _, s := range res.Steps {
		f.Printf("%3d  %-8s %-9s %s -> %s", s.Step, s.Trigger, s.Outcome, s.From, s.To)
		if s.Outcome == combograph.Matched.String() {
			f.Printf("  action %d", s.Action)
		}
		if s.Healed {
			f.Printf("  (recovered)")
		}
		f.Printf("\n")
	}
	state := "ready"
	if res.Busy {
		state = "busy"
	}
	f.Printf("final: %s (%s), %d pending, %d dropped\n", res.Final, state, actor.Queue.Len(), res.Dropped)
	return nil
}
