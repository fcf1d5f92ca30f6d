package stagehand

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single navigation call in a script.
type scriptStep struct {
	Action  string   `json:"action"`
	Key     string   `json:"key,omitempty"`
	Keys    []string `json:"keys,omitempty"`
	Option  string   `json:"option,omitempty"`
	Frames  int      `json:"frames,omitempty"`
	Label   string   `json:"label,omitempty"`
	Instant bool     `json:"instant,omitempty"`
}

// script is the top-level JSON structure for a navigation script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays navigation calls across frames, for demos and
// automated walkthroughs. Scene keys resolve through the Director's factory.
//
//	{"steps": [
//	  {"action": "push", "key": "menu"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "transition", "key": "options", "instant": true},
//	  {"action": "sequential", "keys": ["a", "b"]},
//	  {"action": "pop"},
//	  {"action": "screenshot", "label": "after-pop"},
//	  {"action": "popToRoot"}
//	]}
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// capture handles screenshot steps. A Stage sets it to its own
	// Screenshot; without one the steps are skipped.
	capture func(label string)
}

// LoadScript parses a JSON navigation script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "push", "transition":
		if st.Key == "" {
			return fmt.Errorf("%s needs a key", st.Action)
		}
	case "sequential":
		if len(st.Keys) == 0 {
			return fmt.Errorf("sequential needs keys")
		}
	case "pop", "popToRoot", "screenshot":
	case "wait":
		if st.Frames < 0 {
			return fmt.Errorf("wait frames %d must not be negative", st.Frames)
		}
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame. A step is held while d is busy or
// animating, so scripted calls never queue behind each other.
func (r *ScriptRunner) Step(d *Director) error {
	if r.done {
		return nil
	}
	if d.Status().Busy() || d.IsInTransition() {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++
	err := r.run(d, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !d.IsInTransition() {
		r.done = true
	}
	return err
}

func (r *ScriptRunner) run(d *Director, st scriptStep) error {
	var opt any
	if st.Option != "" {
		opt = st.Option
	}
	var nav []NavOption
	if st.Instant {
		nav = append(nav, Instant())
	}

	switch st.Action {
	case "push":
		return d.PushKey(st.Key, opt, nav...)
	case "pop":
		return d.Pop(opt, nav...)
	case "transition":
		return d.TransitionKey(st.Key, opt, nav...)
	case "popToRoot":
		return d.PopToRoot(opt, nav...)
	case "sequential":
		scenes := make([]Scene, 0, len(st.Keys))
		for _, key := range st.Keys {
			s, err := d.resolve(key)
			if err != nil {
				return navError("sequentialTransition", err)
			}
			scenes = append(scenes, s)
		}
		return d.SequentialTransition(scenes, opt, nil, nav...)
	case "screenshot":
		if r.capture != nil {
			r.capture(st.Label)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	return nil
}
