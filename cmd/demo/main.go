package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/internal/logging"
	"github.com/comalice/combograph/internal/production"
	"github.com/comalice/combograph/moveset"
	"github.com/comalice/combograph/realtime"
)

// Usage: demo [moveset-dir]
//
// Loads every move set in the directory (default moveset/testdata), drives a
// crowd of actors on the "sword" set and serves metrics on :2112. Edit the
// YAML while it runs to see the graph swapped in.
func main() {
	dir := "moveset/testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}
	logger := logging.New(slog.LevelInfo)

	lib := moveset.NewLibrary()
	if _, err := lib.LoadDir(dir); err != nil {
		logger.Error("load move sets", "dir", dir, "error", err)
		os.Exit(1)
	}
	watcher, err := moveset.NewWatcher(lib, []string{dir}, moveset.WithWatchLogger(logger))
	if err != nil {
		logger.Error("watch move sets", "dir", dir, "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	sword := lib.Handle("sword")
	if sword.Graph() == nil {
		logger.Error("no move set named sword", "dir", dir, "loaded", lib.Names())
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	steps := make(chan realtime.Step, 256)
	rt := realtime.NewRuntime(sword, realtime.Config{Workers: 4},
		realtime.WithLogger(logger),
		realtime.WithMetrics(realtime.NewMetrics(reg)),
		realtime.WithPublisher(realtime.NewChannelPublisher(steps)),
	)

	actors := make([]uuid.UUID, 1000)
	for i := range actors {
		actors[i] = rt.AddActor(sword.Entry().Set.Capacity())
	}

	srv := &http.Server{Addr: ":2112", Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		logger.Info("serving metrics", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rt.Start(ctx); err != nil {
		logger.Error("start runtime", "error", err)
		os.Exit(1)
	}

	triggers := triggerIDs(sword.Entry().Set)
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	press := time.NewTicker(time.Millisecond)
	defer press.Stop()
	report := time.NewTicker(2 * time.Second)
	defer report.Stop()

	watched := actors[0]
	viz := &production.DefaultVisualizer{}
	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nShutting down gracefully...")
			_ = rt.Stop()
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = srv.Shutdown(shutdown)
			cancel()
			return
		case <-press.C:
			id := actors[rng.IntN(len(actors))]
			_ = rt.SendInput(id, triggers[rng.IntN(len(triggers))])
		case s, ok := <-steps:
			if !ok {
				continue
			}
			if s.Result.Transitioned() {
				// Animations take a random 1-20 ticks.
				go func(id uuid.UUID, frames int) {
					time.Sleep(time.Duration(frames) * 16667 * time.Microsecond)
					_ = rt.SignalFinished(id)
				}(s.Actor, 1+rng.IntN(20))
			}
		case r := <-watcher.Reloads:
			if r.Err == nil && r.Name == "sword" {
				triggers = triggerIDs(r.Entry.Set)
			}
		case <-report.C:
			snap, _ := rt.Actor(watched)
			fmt.Printf("\n--- Tick %d, %d actors ---\n", rt.GetTickNumber(), rt.ActorCount())
			fmt.Println(viz.ExportDOT(sword.Graph(), snap.State.CurrentNode))
		}
	}
}

// triggerIDs lists the triggers the move set uses.
func triggerIDs(ms *moveset.MoveSet) []combograph.TriggerID {
	ids := make([]combograph.TriggerID, 0, len(ms.Triggers))
	for _, id := range ms.Triggers {
		ids = append(ids, combograph.TriggerID(id))
	}
	if len(ids) == 0 {
		ids = append(ids, 1)
	}
	return ids
}
