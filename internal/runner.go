package ucosm_internal

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bgp59/logrusx"
	"github.com/docker/go-units"
	"github.com/mackerelio/go-osstat/loadavg"
)

// Run is the main entry point for a ucosm demo instance: it loads
// configuration, builds a Periodic, a FairShare and a Realtime scheduler
// from it, lets registered task builders populate them, then drives the
// periodic and fair-share schedulers from its own goroutines (the
// realtime one runs its tasks off SoftOneShotTimer callbacks, and a third
// goroutine only advances its tick) until a termination
// signal arrives. It plays the same role the teacher's Run did for a
// VictoriaMetrics importer instance, minus the metrics-specific
// pipeline: there is no compressor pool or HTTP endpoint pool here,
// since nothing in this module's domain produces metrics samples.

const (
	CONFIG_FLAG_NAME = "config"
)

var (
	// Instance name; may be overridden by config or the --instance flag.
	Instance string = CONFIG_INSTANCE_DEFAULT

	// Build info, normally set via init() by the user of this package.
	Version string
	GitInfo string

	taskBuilders = struct {
		builders []func(tasksConfig any, rt *SchedulerSet) error
		mu       sync.Mutex
	}{builders: make([]func(any, *SchedulerSet) error, 0)}
)

// SchedulerSet bundles the three cooperative schedulers a demo instance
// runs, along with the realtime timer driving the third one.
type SchedulerSet struct {
	Periodic  *Periodic
	FairShare *FairShare
	Realtime  *Realtime
	Timer     *SoftOneShotTimer
	Stacks    *StackPool
}

// RegisterTaskBuilder registers a function invoked once at startup,
// after configuration is loaded, to populate the scheduler set with
// whatever tasks the caller's package provides — the same
// init()-time registration idiom the teacher uses for metrics
// generators.
func RegisterTaskBuilder(tb func(tasksConfig any, rt *SchedulerSet) error) {
	taskBuilders.mu.Lock()
	defer taskBuilders.mu.Unlock()
	taskBuilders.builders = append(taskBuilders.builders, tb)
}

var (
	versionArg = flag.Bool(
		"version",
		false,
		FormatFlagUsage(`Print the version and exit`),
	)

	configFileArg = flag.String(
		CONFIG_FLAG_NAME,
		fmt.Sprintf("%s-config.yaml", CONFIG_INSTANCE_DEFAULT),
		`Config file to load`,
	)

	instanceArg = flag.String(
		"instance",
		"",
		FormatFlagUsage(`Override the "ucosm_config.instance" config setting`),
	)

	logIdleLoadArg = flag.Bool(
		"log-idle-load",
		false,
		FormatFlagUsage(`Log host load average whenever a periodic or fair-share Run finds nothing to run`),
	)
)

func init() {
	logrusx.EnableLoggerArgs()
}

var runnerLog = NewCompLogger("runner")

// Run parses flags, loads configuration, builds the scheduler set, asks
// every registered task builder to populate it, then runs until
// SIGINT/SIGTERM. tasksConfig should be primed with defaults by the
// caller before Run is invoked, the same contract the teacher's
// genConfig argument has. The return value is the process exit code.
func Run(tasksConfig any) int {
	if !flag.Parsed() {
		flag.Parse()
	}

	if *versionArg {
		fmt.Fprintf(os.Stderr, "Version: %s, GitInfo: %s\n", Version, GitInfo)
		return 0
	}

	cfg, err := LoadConfig(*configFileArg, tasksConfig, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config file: %v\n", err)
		return 1
	}

	if *instanceArg != "" {
		cfg.Instance = *instanceArg
	}
	logrusx.ApplySetLoggerArgs(cfg.LoggerConfig)

	if err := SetLogger(cfg.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting the logger: %v\n", err)
		return 1
	}
	Instance = cfg.Instance

	timer := NewSoftOneShotTimer(cfg.RealtimeConfig.TickInterval)
	if cfg.RealtimeConfig.PinTimer {
		timer.PinToCurrentCPU()
	}

	stackSize, err := cfg.StackPoolConfig.StackSizeBytes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing stack_pool_config.stack_size: %v\n", err)
		return 1
	}

	schedulers := &SchedulerSet{
		Periodic:  NewPeriodic(),
		FairShare: NewFairShare(),
		Realtime:  NewRealtime(timer),
		Timer:     timer,
		Stacks:    NewStackPool(stackSize, cfg.StackPoolConfig.MaxPoolSize),
	}

	if *logIdleLoadArg {
		idle := func() {
			if avg, err := loadavg.Get(); err == nil {
				runnerLog.Debugf("idle: load1=%.2f load5=%.2f load15=%.2f", avg.Loadavg1, avg.Loadavg5, avg.Loadavg15)
			}
		}
		schedulers.Periodic.SetIdle(idle)
		schedulers.FairShare.SetIdle(idle)
	}

	taskBuilders.mu.Lock()
	for _, tb := range taskBuilders.builders {
		if err := tb(tasksConfig, schedulers); err != nil {
			taskBuilders.mu.Unlock()
			runnerLog.Fatal(err)
		}
	}
	taskBuilders.mu.Unlock()

	runnerLog.Infof(
		"Instance: %s starting, periodic tick: %s, realtime tick: %s",
		Instance,
		units.HumanDuration(cfg.PeriodicConfig.TickInterval),
		units.HumanDuration(cfg.RealtimeConfig.TickInterval),
	)

	stopCh := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.PeriodicConfig.TickInterval)
		defer ticker.Stop()
		var tick uint32
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				tick++
				schedulers.Periodic.Run(tick)
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stopCh:
				return
			default:
				if schedulers.FairShare.Empty() {
					time.Sleep(time.Millisecond)
					continue
				}
				schedulers.FairShare.Run()
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(cfg.RealtimeConfig.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				schedulers.Realtime.Tick()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	runnerLog.Warnf("%s signal received, shutting down", sig)

	close(stopCh)
	timer.Cancel()
	wg.Wait()

	return 0
}
