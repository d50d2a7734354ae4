// Command futoshiki is the CLI front end described in spec.md §6: one
// executable, mode-flagged, generalizing the teacher's --parallel switch
// (main.go) into the full seq/omp/mpi/hybrid mode set.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/alexflint/go-arg"

	"github.com/falswe/futoshiki-solver/cluster"
	"github.com/falswe/futoshiki-solver/format"
	"github.com/falswe/futoshiki-solver/logger"
	"github.com/falswe/futoshiki-solver/solver"
	"github.com/falswe/futoshiki-solver/utils"
)

var args struct {
	File string `arg:"positional" help:"path to a Futoshiki puzzle file"`

	DisablePreColor bool   `arg:"-n" help:"disable the pre-coloring pass"`
	LogLevel        string `arg:"-q,--quiet" help:"log level: none (-q), steps (-v), full (-d)"`
	Verbose         bool   `arg:"-v" help:"set log level to steps"`
	Debug           bool   `arg:"-d" help:"set log level to full"`

	Mode string `arg:"--mode" default:"seq" help:"seq | omp | mpi | hybrid"`

	Threads int     `arg:"-t" help:"intra-node task-pool thread count (omp, hybrid); default: OMP_NUM_THREADS or NumCPU/2"`
	Factor  float64 `arg:"-f" help:"task-multiplier factor (omp default 4.0, mpi default 1.0)"`

	MasterFactor float64 `arg:"--mf" help:"hybrid inter-node factor (default 1.0)"`
	OuterFactor  float64 `arg:"--of" help:"hybrid intra-node factor (default 4.0)"`

	ClusterSize int `arg:"--cluster-size" help:"mpi/hybrid: number of processes including the master (default NumCPU)"`
}

func main() {
	if rank, isWorker := cluster.RankFromEnv(); isWorker {
		runWorkerProcess(rank)
		return
	}

	arg.MustParse(&args)

	level := logger.NONE
	if args.Verbose {
		level = logger.STEPS
	}
	if args.Debug {
		level = logger.FULL
	}
	if args.LogLevel != "" {
		level = logger.ParseLevel(args.LogLevel)
	}
	log := logger.New(level, os.Stderr, 0)

	if args.File == "" {
		fmt.Fprintln(os.Stderr, "futoshiki: no puzzle file given")
		os.Exit(1)
	}

	f, err := os.Open(args.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	p, err := format.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: parse error: %v\n", err)
		os.Exit(1)
	}

	opts := solver.Options{
		DisablePreColor: args.DisablePreColor,
		Threads:         resolveThreads(args.Threads),
		Factor:          args.Factor,
		MasterFactor:    args.MasterFactor,
		OuterFactor:     args.OuterFactor,
	}

	ctx := context.Background()
	rc := solver.RuntimeContext{Logger: log}

	switch strings.ToLower(args.Mode) {
	case "seq":
		opts.Mode = solver.Sequential

	case "omp":
		opts.Mode = solver.IntraNode

	case "mpi":
		opts.Mode = solver.InterNode
		h, closeFn := buildMasterCluster(ctx, log)
		defer closeFn()
		rc.Cluster = h

	case "hybrid":
		opts.Mode = solver.Hybrid
		h, closeFn := buildMasterCluster(ctx, log)
		defer closeFn()
		rc.Cluster = h

	default:
		fmt.Fprintf(os.Stderr, "futoshiki: unknown --mode %q\n", args.Mode)
		os.Exit(1)
	}

	solution, st, err := solver.Solve(ctx, rc, p, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "futoshiki: %v\n", err)
		os.Exit(1)
	}

	log.Info("solve stats: %s\n", utils.JSONString(st))
	if !st.FoundSolution {
		fmt.Println("no solution")
		os.Exit(1)
	}
	fmt.Print(solution.String())
}

// runWorkerProcess is the cluster.Exec worker side: a re-exec of this same
// binary, talking back to its parent over inherited stdin/stdout. It
// re-parses the puzzle file from the same CLI arguments as the master (so
// C3 runs identically on both sides, per spec.md §4.7) and then blocks
// inside the C8/C9 worker state machine.
func runWorkerProcess(rank int) {
	arg.MustParse(&args)

	level := logger.ParseLevel(args.LogLevel)
	log := logger.New(level, os.Stderr, rank)

	f, err := os.Open(args.File)
	if err != nil {
		log.Error("worker %d: open puzzle: %v\n", rank, err)
		os.Exit(1)
	}
	defer f.Close()

	p, err := format.Parse(f)
	if err != nil {
		log.Error("worker %d: parse puzzle: %v\n", rank, err)
		os.Exit(1)
	}

	size := args.ClusterSize
	if size < 2 {
		size = 2
	}
	worker := cluster.NewExecWorker(rank, size)

	opts := solver.Options{
		DisablePreColor: args.DisablePreColor,
		Threads:         resolveThreads(args.Threads),
		Factor:          args.Factor,
		MasterFactor:    args.MasterFactor,
		OuterFactor:     args.OuterFactor,
	}
	mode := solver.InterNode
	if strings.ToLower(args.Mode) == "hybrid" {
		mode = solver.Hybrid
	}
	opts.Mode = mode

	rc := solver.RuntimeContext{Cluster: worker, Logger: log}
	ctx := context.Background()
	if _, _, err := solver.Solve(ctx, rc, p, opts); err != nil {
		log.Error("worker %d: %v\n", rank, err)
	}
}

// buildMasterCluster spawns the worker processes (cluster.Exec) for mpi
// and hybrid modes, re-executing the current binary with the parsed CLI
// arguments plus the worker-rank environment variable.
func buildMasterCluster(ctx context.Context, log *logger.Logger) (cluster.Handle, func() error) {
	size := args.ClusterSize
	if size < 1 {
		size = runtime.NumCPU()
	}
	argv0, err := os.Executable()
	if err != nil {
		log.Error("futoshiki: resolve executable path: %v\n", err)
		os.Exit(1)
	}

	cliArgs := append([]string(nil), os.Args[1:]...)
	cliArgs = append(cliArgs, "--cluster-size", strconv.Itoa(size))

	h, err := cluster.NewExec(ctx, argv0, cliArgs, size)
	if err != nil {
		log.Error("futoshiki: spawn cluster: %v\n", err)
		os.Exit(1)
	}
	return h, h.Close
}

func resolveThreads(t int) int {
	if t > 0 {
		return t
	}
	if v := os.Getenv("OMP_NUM_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	n := runtime.NumCPU() / 2
	if n < 1 {
		n = 1
	}
	return n
}
