// Command ucosmdemo wires the three scheduler policies together and
// runs a small set of illustrative tasks, the same role the teacher's
// importer main() played for metrics generators.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/ucosm-go/ucosm"
)

// DemoTasksConfig is the "tasks" section of the config file for this
// particular harness; RegisterTaskBuilder receives it primed with these
// defaults.
type DemoTasksConfig struct {
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
}

func defaultDemoTasksConfig() *DemoTasksConfig {
	return &DemoTasksConfig{HeartbeatInterval: time.Second}
}

func init() {
	ucosm.RegisterTaskBuilder(func(tasksConfig any, rt *ucosm.SchedulerSet) error {
		cfg, ok := tasksConfig.(*DemoTasksConfig)
		if !ok {
			return fmt.Errorf("ucosmdemo: unexpected tasks config type %T", tasksConfig)
		}

		heartbeat := ucosm.NewTaskFunc("heartbeat", func() {
			fmt.Fprintln(os.Stderr, "ucosmdemo: heartbeat")
		})
		rt.Periodic.AddTask("heartbeat", heartbeat, uint32(cfg.HeartbeatInterval/time.Millisecond), 0)

		background := ucosm.NewTaskFunc("background-scan", func() {
			// A stand-in for a CPU-bound chore sharing the processor
			// fairly with other fair-share tasks.
		})
		rt.FairShare.AddTask("background-scan", background, ucosm.DefaultPriority)

		blink := ucosm.NewTaskFunc("led-blink", func() {
			fmt.Fprintln(os.Stderr, "ucosmdemo: blink")
		})
		rt.Realtime.AddTask("led-blink", blink, 0, 1000)

		deepScan := ucosm.NewCoroutine("deep-scan", func(y *ucosm.Yielder) {
			for step := 0; step < 3; step++ {
				fmt.Fprintf(os.Stderr, "ucosmdemo: deep-scan step %d\n", step)
				y.Yield()
			}
		}, rt.Stacks)
		rt.FairShare.AddTask("deep-scan", deepScan, ucosm.DefaultPriority)

		return nil
	})
}

func main() {
	os.Exit(ucosm.Run(defaultDemoTasksConfig()))
}
