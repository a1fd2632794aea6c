// Command riscv64 loads an RV64 ELF executable and runs it against the
// in-process hart and memory bus.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rvhart/riscv64/config"
	"github.com/rvhart/riscv64/device"
	"github.com/rvhart/riscv64/loader"
	"github.com/rvhart/riscv64/vm"
)

// Version is overridden at build time with -ldflags "-X main.Version=v1.2.3".
var Version = "dev"

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: config.toml in the user config dir)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum instructions to retire before halting (0 = unbounded)")
		enableTrace = flag.Bool("trace", false, "Enable execution trace")
		traceFile   = flag.String("trace-file", "", "Trace output file (default: trace.log, from the config)")
		enableStats = flag.Bool("stats", false, "Enable performance statistics")
		statsFile   = flag.String("stats-file", "", "Statistics output file (default: stats.json, from the config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("riscv64 %s\n", Version)
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: riscv64 [flags] <elf-executable>")
		os.Exit(2)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *maxCycles != 0 {
		cfg.Execution.MaxCycles = *maxCycles
	}
	if *enableTrace {
		cfg.Trace.Enabled = true
	}
	if *traceFile != "" {
		cfg.Trace.OutputFile = *traceFile
	}
	if *enableStats {
		cfg.Statistics.Enabled = true
	}
	if *statsFile != "" {
		cfg.Statistics.OutputFile = *statsFile
	}

	if err := run(flag.Arg(0), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "riscv64: %v\n", err)
		os.Exit(1)
	}
}

func run(elfPath string, cfg *config.Config) error {
	f, err := os.Open(elfPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", elfPath, err)
	}
	defer f.Close()

	bus := vm.NewBus(cfg.Execution.RAMSize)

	clint := device.NewClint(vm.ClintBase, vm.ClintSize)
	bus.RegisterDevice(clint)
	uart := device.NewUart(0x1000_0000, os.Stdout)
	bus.RegisterDevice(uart)
	hostExit := device.NewHostExit(0x1000_1000)
	bus.RegisterDevice(hostExit)

	img, err := loader.Load(f, bus)
	if err != nil {
		return fmt.Errorf("load elf: %w", err)
	}

	h := vm.NewHart()
	h.PC = img.EntryPoint
	h.Csr.SetMtimeSource(clint.Mtime)
	if cfg.Execution.InitialTvec != 0 {
		h.Csr.RawSet(vm.CsrMtvec, cfg.Execution.InitialTvec)
	}

	exec := vm.NewExecutor(h, bus)

	var trace *vm.ExecutionTrace
	if cfg.Trace.Enabled {
		w, err := traceWriter(cfg.Trace.OutputFile)
		if err != nil {
			return err
		}
		trace = vm.NewExecutionTrace(w)
		trace.IncludeCSRs = cfg.Trace.IncludeCSRs
		trace.MaxEntries = cfg.Trace.MaxEntries
		if cfg.Trace.FilterRegs != "" {
			trace.SetFilterRegisters(splitCommaList(cfg.Trace.FilterRegs))
		}
		exec.Trace = trace
	}

	stats := vm.NewPerformanceStatistics()
	stats.Enabled = cfg.Statistics.Enabled
	stats.Start()
	exec.Stats = stats

	err = exec.Run(cfg.Execution.MaxCycles, func() bool {
		return hostExit.Exited
	})

	if trace != nil {
		if ferr := trace.Flush(); ferr != nil && err == nil {
			err = ferr
		}
	}
	if cfg.Statistics.Enabled {
		if serr := writeStats(stats, cfg.Statistics.OutputFile, cfg.Statistics.Format); serr != nil && err == nil {
			err = serr
		}
	}

	if err != nil {
		if name, offset, found := img.Symbols.ResolveAddress(h.PC); found {
			err = fmt.Errorf("%w (pc=%s, %s+%#x)", err, img.Symbols.FormatAddress(h.PC), name, offset)
		}
	}
	if hostExit.Exited && hostExit.ExitCode != 1 {
		os.Exit(int(hostExit.ExitCode >> 1))
	}
	return err
}

func traceWriter(path string) (*os.File, error) {
	if path == "" {
		return os.Stderr, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	return f, nil
}

func writeStats(s *vm.PerformanceStatistics, path, format string) error {
	w := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create stats file: %w", err)
		}
		defer f.Close()
		if format == "csv" {
			return s.ExportCSV(f)
		}
		return s.ExportJSON(f)
	}
	if format == "csv" {
		return s.ExportCSV(w)
	}
	return s.ExportJSON(w)
}

func splitCommaList(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
