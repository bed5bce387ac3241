package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-crunch/internal/core"
)

type stubGame struct{ id string }

func (g stubGame) ID() string { return g.id }
func (g stubGame) Title() string { return "Stub " + g.id }
func (g stubGame) Reset(core.RuntimeConfig) {}
func (g stubGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (g stubGame) Render(*core.Screen) {}
func (g stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub_b", func() Game { return stubGame{"stub_b"} })
	Register("stub_a", func() Game { return stubGame{"stub_a"} })

	if !Exists("stub_a") || Exists("stub_missing") {
		t.Fatal("Exists reports the wrong games")
	}

	g, err := Create("stub_a")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID() != "stub_a" {
		t.Errorf("created %q, want stub_a", g.ID())
	}
	if _, err := Create("stub_missing"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create(stub_missing) error = %v, want ErrUnknownGame", err)
	}

	if got := Title("stub_b"); got != "Stub stub_b" {
		t.Errorf("Title = %q", got)
	}
	if got := Title("stub_missing"); got != "stub_missing" {
		t.Errorf("Title of unknown game = %q, want the id", got)
	}

	pos := map[string]int{}
	for i, info := range List() {
		pos[info.ID] = i
	}
	if pos["stub_b"] >= pos["stub_a"] {
		t.Errorf("List should keep registration order, got %v", pos)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", func() Game { return stubGame{"stub_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on duplicate registration")
		}
	}()
	Register("stub_dup", func() Game { return stubGame{"stub_dup"} })
}
