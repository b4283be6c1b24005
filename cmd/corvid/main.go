// Command corvid is a line-oriented chess engine: it reads commands from
// stdin and writes responses to stdout, one command per line. See
// spec.md §6.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/pkg/profile"

	"github.com/tlindqvist/corvid/config"
	"github.com/tlindqvist/corvid/engine"
)

var log = logging.MustGetLogger("corvid.main")

// defaultThink is the bestMove think time used when no duration is given.
var defaultThink = time.Duration(config.DefaultConfig().DefaultMoveMs) * time.Millisecond

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "corvid: invalid flags:", err)
		os.Exit(2)
	}
	config.ApplyLogLevel(cfg)
	defaultThink = time.Duration(cfg.DefaultMoveMs) * time.Millisecond

	eng := engine.New(cfg.TTMiBs)
	log.Infof("corvid ready: ttMbs=%d defaultMoveMs=%d", cfg.TTMiBs, cfg.DefaultMoveMs)

	runLoop(eng, os.Stdin, os.Stdout)
}

func runLoop(eng *engine.Engine, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := dispatch(eng, line, writer); quit {
			break
		}
		writer.Flush()
	}
}

func dispatch(eng *engine.Engine, line string, out *bufio.Writer) (quit bool) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "setPosition":
		fenStr := strings.TrimSpace(strings.TrimPrefix(line, cmd))
		if err := eng.SetPosition(fenStr); err != nil {
			fmt.Fprintln(out, "error:", err)
		}

	case "getPosition", "showBoard", "show":
		fmt.Fprintln(out, eng.GetPosition())

	case "makeMove":
		if len(args) < 1 {
			fmt.Fprintln(out, "error: makeMove requires a move")
			break
		}
		if err := eng.MakeMove(args[0]); err != nil {
			fmt.Fprintln(out, "error:", err)
		}

	case "bestMove":
		think := defaultThink
		if len(args) >= 1 {
			if v, err := strconv.ParseFloat(args[0], 64); err == nil {
				think = time.Duration(v * float64(time.Second))
			}
		}
		result := eng.BestMove(think)
		fmt.Fprintf(out, "%s (eval: %s, nodes: %d, depth: %d)\n", result.Move, result.Eval, result.Nodes, result.Depth)

	case "go":
		wtime, btime, winc, binc := parseGoArgs(args)
		result := eng.Go(wtime, btime, winc, binc, 20)
		fmt.Fprintf(out, "%s (eval: %s, nodes: %d, depth: %d)\n", result.Move, result.Eval, result.Nodes, result.Depth)

	case "bench":
		depth := 5
		cpuProfile := false
		for i := 0; i < len(args); i++ {
			switch args[i] {
			case "depth":
				if i+1 < len(args) {
					if v, err := strconv.Atoi(args[i+1]); err == nil {
						depth = v
					}
					i++
				}
			case "--cpuprofile":
				cpuProfile = true
			}
		}
		runBench(eng, depth, cpuProfile, out)

	case "perft":
		if len(args) < 1 {
			fmt.Fprintln(out, "error: perft requires a depth")
			break
		}
		depth, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(out, "error: invalid depth")
			break
		}
		nodes, elapsed := eng.Perft(depth)
		fmt.Fprintf(out, "perft(%d) = %d in %s\n", depth, nodes, elapsed)

	case "quit", "exit":
		return true

	default:
		fmt.Fprintln(out, "error: unknown command", cmd)
	}

	return false
}

func runBench(eng *engine.Engine, depth int, cpuProfile bool, out *bufio.Writer) {
	if cpuProfile {
		stop := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		defer stop.Stop()
	}
	nodes, elapsed := eng.Bench(depth)
	fmt.Fprintf(out, "bench: depth=%d nodes=%d elapsed=%s\n", depth, nodes, elapsed)
}

func parseGoArgs(args []string) (wtime, btime, winc, binc int) {
	for i := 0; i < len(args)-1; i++ {
		v, err := strconv.Atoi(args[i+1])
		if err != nil {
			continue
		}
		switch args[i] {
		case "wtime":
			wtime = v
		case "btime":
			btime = v
		case "winc":
			winc = v
		case "binc":
			binc = v
		}
	}
	return wtime, btime, winc, binc
}
