// Command nescore is a minimal host driver for the CPU/bus/mapper engine:
// it loads a flat PRG image, wires up the bus, a mapper094 cartridge and
// the CPU's OAM DMA trap, and runs either free-running (until a cycle
// budget or a JAM) or against a single-step-tests JSON corpus.
//
// Grounded on the shape of the teacher's gopher2600.go top-level driver —
// flag-driven, constructs the hardware graph, runs a loop — but ported to
// stdlib flag rather than the teacher's modalflag package: modalflag's
// sub-command dispatch exists to route between the teacher's many runtime
// modes (play/debug/record/etc.), none of which this CORE has; a flat CLI
// with a handful of independent flags needs nothing beyond flag.Parse.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/L-Spiro/L.-Spiro-NES/config"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/cpu"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/bus"
	"github.com/L-Spiro/L.-Spiro-NES/hardware/memory/cartridge/mapper"
	"github.com/L-Spiro/L.-Spiro-NES/harness"
	"github.com/L-Spiro/L.-Spiro-NES/logger"
	"github.com/L-Spiro/L.-Spiro-NES/metrics/statsview"
)

func main() {
	var (
		cartPath    = flag.String("cart", "", "path to a flat PRG image (mapper094 bank layout)")
		mirror      = flag.String("mirror", "horizontal", "nametable mirroring: horizontal or vertical")
		cycles      = flag.Uint64("cycles", 0, "master cycles to run (0 = run until JAM)")
		useStats    = flag.Bool("statsview", false, "launch the live statsview dashboard")
		randomState = flag.Bool("random-poweron", false, "randomize power-on register/open-bus state")
		singlestep  = flag.String("singlestep", "", "run every *.json file in this directory as a single-step-tests corpus")
	)
	flag.Parse()

	if *singlestep != "" {
		if err := runSinglestep(*singlestep); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *cartPath == "" {
		fmt.Fprintln(os.Stderr, "nescore: -cart is required (or use -singlestep)")
		os.Exit(2)
	}

	prg, err := os.ReadFile(*cartPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mirroring := mapper.MirrorHorizontal
	if *mirror == "vertical" {
		mirroring = mapper.MirrorVertical
	}

	cfg := config.NewOptions()
	cfg.RandomPowerOnState.Set(*randomState)
	cfg.RandomOpenBusPins.Set(*randomState)

	b := bus.New()
	m, err := mapper.NewMapper094(prg, mirroring)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	m.ApplyMap(b)

	rec := statsview.NewRecorder()
	if *useStats {
		statsview.Launch(rec, os.Stdout)
	}

	c := cpu.New(b, m, cfg)

	var ran uint64
	for *cycles == 0 || ran < *cycles {
		c.TickPhi1()
		c.TickPhi2()
		ran++
		rec.AddCycles(1)
		if c.Jammed() {
			rec.RecordJam()
			logger.Logf(logger.Allow, "nescore", "CPU jammed after %d cycles at PC=%#04x", ran, c.PC.Value())
			break
		}
	}

	fmt.Printf("ran %d cycles, final PC=%#04x A=%#02x X=%#02x Y=%#02x S=%#02x jammed=%v\n",
		ran, c.PC.Value(), c.A.Value(), c.X.Value(), c.Y.Value(), c.S, c.Jammed())
}

// runSinglestep runs every *.json file under dir as a single-step-tests
// corpus, reporting a pass/fail line per opcode file.
func runSinglestep(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var total, failed int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := dir + "/" + e.Name()
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		cases, err := harness.LoadJSONCases(f)
		f.Close()
		if err != nil {
			fmt.Printf("%s: decode error: %v\n", path, err)
			failed++
			continue
		}

		b := harness.NewFlatBus()
		c := harness.NewCPU(b)

		var fileFailed bool
		for _, tc := range cases {
			total++
			if mismatches := harness.Diff(c, b, tc); len(mismatches) > 0 {
				fileFailed = true
				fmt.Printf("%s: %s: %v\n", path, tc.Name, mismatches)
			}
		}
		if fileFailed {
			failed++
		}
	}

	fmt.Printf("ran %d test cases, %d files had failures\n", total, failed)
	if failed > 0 {
		return fmt.Errorf("nescore: %d corpus files failed", failed)
	}
	return nil
}
