// Runtime configuration.
//
// The configuration is loaded from a YAML file, with the following
// structure:
//
//  ucosm_config:
//    instance: ucosm
//    log_config:
//      ...
//    periodic_config:
//      ...
//    fairshare_config:
//      ...
//    realtime_config:
//      ...
//    stack_pool_config:
//      ...
//  tasks:
//     ...
//
// The "ucosm_config" section maps to the Config structure defined in
// this package. The "tasks" section is harness specific and is not
// defined here: LoadConfig decodes it into whatever structure the caller
// passes in (cmd/ucosmdemo passes its DemoTasksConfig), which the
// caller's task builders use to instantiate tasks at startup.

package ucosm_internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"
)

const (
	UCOSM_CONFIG_SECTION_NAME = "ucosm_config"
	TASKS_SECTION_NAME        = "tasks"

	CONFIG_INSTANCE_DEFAULT = "ucosm"

	CONFIG_PERIODIC_TICK_DEFAULT  = time.Millisecond
	CONFIG_REALTIME_TICK_DEFAULT  = 100 * time.Microsecond
	CONFIG_STACK_SIZE_DEFAULT     = "4KiB"
	CONFIG_STACK_POOL_MAX_DEFAULT = 0 // unbound
)

// PeriodicConfig configures a Periodic scheduler's notion of tick
// duration; the scheduler itself tracks ticks as a plain uint32, this
// is only used by the harness to translate that to wall-clock time.
type PeriodicConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

func DefaultPeriodicConfig() *PeriodicConfig {
	return &PeriodicConfig{TickInterval: CONFIG_PERIODIC_TICK_DEFAULT}
}

// FairShareConfig holds a default priority for the harness. Nothing in
// this module reads it: FairShare.AddTask always takes an explicit
// priority.
type FairShareConfig struct {
	DefaultPriority uint8 `yaml:"default_priority"`
}

func DefaultFairShareConfig() *FairShareConfig {
	return &FairShareConfig{DefaultPriority: DefaultPriority}
}

// RealtimeConfig configures the reference SoftOneShotTimer used when no
// real hardware timer is wired in.
type RealtimeConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	PinTimer     bool          `yaml:"pin_timer"`
}

func DefaultRealtimeConfig() *RealtimeConfig {
	return &RealtimeConfig{TickInterval: CONFIG_REALTIME_TICK_DEFAULT}
}

// StackPoolConfig configures the coroutine stackRecord pool. StackSize
// accepts human-readable sizes ("4KiB", "512B", ...) via
// github.com/docker/go-units, the same library ucosm's pack uses
// elsewhere for human-readable quantities.
type StackPoolConfig struct {
	StackSize   string `yaml:"stack_size"`
	MaxPoolSize int    `yaml:"max_pool_size"`
}

func DefaultStackPoolConfig() *StackPoolConfig {
	return &StackPoolConfig{
		StackSize:   CONFIG_STACK_SIZE_DEFAULT,
		MaxPoolSize: CONFIG_STACK_POOL_MAX_DEFAULT,
	}
}

// StackSizeBytes parses StackSize into a byte count.
func (c *StackPoolConfig) StackSizeBytes() (int, error) {
	n, err := units.RAMInBytes(c.StackSize)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

type Config struct {
	// The instance name, default "ucosm". May be overridden by
	// --instance command line arg.
	Instance string `yaml:"instance"`

	LoggerConfig    *LoggerConfig    `yaml:"log_config"`
	PeriodicConfig  *PeriodicConfig  `yaml:"periodic_config"`
	FairShareConfig *FairShareConfig `yaml:"fairshare_config"`
	RealtimeConfig  *RealtimeConfig  `yaml:"realtime_config"`
	StackPoolConfig *StackPoolConfig `yaml:"stack_pool_config"`
}

func DefaultConfig() *Config {
	return &Config{
		Instance:        CONFIG_INSTANCE_DEFAULT,
		LoggerConfig:    DefaultLoggerConfig(),
		PeriodicConfig:  DefaultPeriodicConfig(),
		FairShareConfig: DefaultFairShareConfig(),
		RealtimeConfig:  DefaultRealtimeConfig(),
		StackPoolConfig: DefaultStackPoolConfig(),
	}
}

// LoadConfig loads the configuration from the specified YAML file (or
// buf, for testing) as follows:
//   - the ucosm_config section is returned as a *Config structure
//   - the tasks section is loaded into the provided tasksConfig
//     structure, which is expected to have been primed with default
//     values by the caller.
func LoadConfig(cfgFile string, tasksConfig any, buf []byte) (*Config, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	err := yaml.Unmarshal(buf, &docNode)
	if err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	cfg := DefaultConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any = nil
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				switch n.Value {
				case UCOSM_CONFIG_SECTION_NAME:
					toCfg = cfg
				case TASKS_SECTION_NAME:
					toCfg = tasksConfig
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err = n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}

	return cfg, nil
}
