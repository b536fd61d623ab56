package agent

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags the closed set of agent behaviors. New kinds require updating
// every switch over Kind; there is deliberately no open extension point.
type Kind int

const (
	// ExhaustiveSearch runs a parallel UCT search per legal action.
	ExhaustiveSearch Kind = iota
	// ExhaustiveSearchSingleThreaded runs the identical algorithm on one
	// worker, reproducibly for a fixed seed.
	ExhaustiveSearchSingleThreaded
	// UniformRandom picks uniformly among legal actions.
	UniformRandom
	// FirstLegal picks the first action in canonical order.
	FirstLegal
	// FixedDelay sleeps, then behaves like FirstLegal.
	FixedDelay
	// AlwaysFail marks an actor that must never be asked to act.
	AlwaysFail
)

// Config selects an agent behavior for one decision. It is immutable per
// decision.
type Config struct {
	Kind Kind
	// MaxIterationsPerAction bounds each candidate's search budget for
	// the exhaustive kinds.
	MaxIterationsPerAction int
	// Delay is the FixedDelay sleep.
	Delay time.Duration
}

func Uct(maxIterations int) Config {
	return Config{Kind: ExhaustiveSearch, MaxIterationsPerAction: maxIterations}
}

func UctSingleThreaded(maxIterations int) Config {
	return Config{Kind: ExhaustiveSearchSingleThreaded, MaxIterationsPerAction: maxIterations}
}

func (c Config) String() string {
	switch c.Kind {
	case ExhaustiveSearch:
		return fmt.Sprintf("uct(%d)", c.MaxIterationsPerAction)
	case ExhaustiveSearchSingleThreaded:
		return fmt.Sprintf("uct1t(%d)", c.MaxIterationsPerAction)
	case UniformRandom:
		return "randomAction"
	case FirstLegal:
		return "firstLegal"
	case FixedDelay:
		return fmt.Sprintf("fixedDelay(%v)", c.Delay)
	case AlwaysFail:
		return "alwaysFail"
	}
	return fmt.Sprintf("Kind(%d)", c.Kind)
}

// The JSON forms follow the original engine's serialized agent configs:
// {"uct1MaxIterations": N}, {"uct1SingleThreaded": N}, {"fixedDelayMs": N},
// or the bare strings "randomAction", "firstLegal", "alwaysFail".

func (c Config) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ExhaustiveSearch:
		return json.Marshal(map[string]int{"uct1MaxIterations": c.MaxIterationsPerAction})
	case ExhaustiveSearchSingleThreaded:
		return json.Marshal(map[string]int{"uct1SingleThreaded": c.MaxIterationsPerAction})
	case UniformRandom:
		return json.Marshal("randomAction")
	case FirstLegal:
		return json.Marshal("firstLegal")
	case FixedDelay:
		return json.Marshal(map[string]int64{"fixedDelayMs": c.Delay.Milliseconds()})
	case AlwaysFail:
		return json.Marshal("alwaysFail")
	}
	return nil, fmt.Errorf("unknown agent kind %d", c.Kind)
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "randomAction":
			*c = Config{Kind: UniformRandom}
		case "firstLegal":
			*c = Config{Kind: FirstLegal}
		case "alwaysFail":
			*c = Config{Kind: AlwaysFail}
		default:
			return fmt.Errorf("unknown agent config %q", s)
		}
		return nil
	}
	var fields map[string]int64
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("could not parse agent config: %w", err)
	}
	if v, ok := fields["uct1MaxIterations"]; ok {
		*c = Config{Kind: ExhaustiveSearch, MaxIterationsPerAction: int(v)}
		return nil
	}
	if v, ok := fields["uct1SingleThreaded"]; ok {
		*c = Config{Kind: ExhaustiveSearchSingleThreaded, MaxIterationsPerAction: int(v)}
		return nil
	}
	if v, ok := fields["fixedDelayMs"]; ok {
		*c = Config{Kind: FixedDelay, Delay: time.Duration(v) * time.Millisecond}
		return nil
	}
	return fmt.Errorf("unknown agent config %s", string(data))
}
