package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func runSource(t *testing.T, cfg Config, src string) (*Runner, error) {
	t.Helper()
	scenario, err := LoadScenario(src)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	runner := NewRunner(cfg)
	return runner, runner.RunScenario(context.Background(), scenario)
}

// TestRunFileFixtures ensures the bundled scenario files pass in strict mode.
func TestRunFileFixtures(t *testing.T) {
	for _, name := range []string{"testdata/cascade.lua", "testdata/explosion.lua"} {
		var logs bytes.Buffer
		cfg := DefaultConfig()
		cfg.Logger = log.New(&logs, "", 0)
		if err := RunFile(context.Background(), cfg, name); err != nil {
			t.Fatalf("%s: %v\n%s", name, err, logs.String())
		}
	}
}

// TestRunScenarioStrictFailsOnExpectation ensures strict mode stops at the first failed expectation.
func TestRunScenarioStrictFailsOnExpectation(t *testing.T) {
	var logs bytes.Buffer
	_, err := runSource(t, Config{Assertions: AssertionStrict, Logger: log.New(&logs, "", 0)}, `
local s = Scenario.new("strict")
s:board({rows = 2, cols = 2, mines = {{1, 1}}})
s:open(2, 2)
s:expect_goal()
s:expect_opened(1, 2)
return s
`)
	if err == nil {
		t.Fatal("expected strict failure")
	}
	if !strings.Contains(err.Error(), "step 3 (expect_goal)") {
		t.Fatalf("err = %v, want step 3 context", err)
	}
}

// TestRunScenarioLogOnlyKeepsGoing ensures log-only mode records failures and finishes.
func TestRunScenarioLogOnlyKeepsGoing(t *testing.T) {
	var logs bytes.Buffer
	runner, err := runSource(t, Config{Assertions: AssertionLogOnly, Logger: log.New(&logs, "", 0)}, `
local s = Scenario.new("lenient")
s:board({rows = 2, cols = 2, mines = {{1, 1}}})
s:open(2, 2)
s:expect_goal()
s:expect_opened(1, 2)
s:expect_opened(2, 2)
return s
`)
	if err != nil {
		t.Fatalf("log-only run: %v", err)
	}
	if runner.Failures() != 2 {
		t.Fatalf("failures = %d, want 2", runner.Failures())
	}
	output := logs.String()
	if !strings.Contains(output, "expectation failed: goal reached = false, want true") {
		t.Fatalf("logs = %q, want goal failure", output)
	}
	if !strings.Contains(output, "2 expectation(s) failed") {
		t.Fatalf("logs = %q, want summary", output)
	}
}

func TestRunScenarioVerboseLogsSteps(t *testing.T) {
	var logs bytes.Buffer
	_, err := runSource(t, Config{Verbose: true, Logger: log.New(&logs, "", 0)}, `
local s = Scenario.new("verbose")
s:board({rows = 1, cols = 1})
s:open(1, 1)
return s
`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"scenario start: verbose (2 steps)", "step 2/2 start: open", "scenario done: verbose (1 moves)"} {
		if !strings.Contains(logs.String(), want) {
			t.Fatalf("logs = %q, want %q", logs.String(), want)
		}
	}
}

// TestRunScenarioSeededMineCount ensures an integer mine count sows from the seed.
func TestRunScenarioSeededMineCount(t *testing.T) {
	_, err := runSource(t, DefaultConfig(), `
local s = Scenario.new("seeded")
s:board({rows = 4, cols = 4, mines = 16, seed = 9})
s:open(1, 1)
s:expect_explosion()
s:expect_outcome("exploded")
return s
`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

// TestRunScenarioEmptyMineList ensures mines = {} builds a board without mines.
func TestRunScenarioEmptyMineList(t *testing.T) {
	_, err := runSource(t, DefaultConfig(), `
local s = Scenario.new("no mines")
s:board({rows = 3, cols = 3, mines = {}})
s:open(2, 2)
s:expect_opened(1, 1)
s:expect_opened(3, 3)
s:expect_goal(true)
return s
`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}

// TestRunScenarioStepErrors ensures malformed steps fail with a readable reason.
func TestRunScenarioStepErrors(t *testing.T) {
	tcs := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no board",
			src:  `return Scenario.new():open(1, 1)`,
			want: "board step is required",
		},
		{
			name: "missing rows",
			src:  `return Scenario.new():board({cols = 2})`,
			want: "rows must be an integer",
		},
		{
			name: "mine outside",
			src:  `return Scenario.new():board({rows = 2, cols = 2, mines = {{3, 1}}})`,
			want: "outside the 2x2 board",
		},
		{
			name: "repeated mine",
			src:  `return Scenario.new():board({rows = 2, cols = 2, mines = {{1, 1}, {1, 1}}})`,
			want: "repeats 1,1",
		},
		{
			name: "keyed mines",
			src:  `return Scenario.new():board({rows = 2, cols = 2, mines = {first = 1}})`,
			want: "mines must be a count or a list",
		},
		{
			name: "too many mines",
			src:  `return Scenario.new():board({rows = 2, cols = 2, mines = 5, seed = 1})`,
			want: "mine count is out of range",
		},
		{
			name: "cell outside",
			src:  `return Scenario.new():board({rows = 2, cols = 2}):expect_opened(5, 5)`,
			want: "outside the board",
		},
	}
	for _, tc := range tcs {
		_, err := runSource(t, Config{Assertions: AssertionLogOnly, Logger: log.New(&bytes.Buffer{}, "", 0)}, tc.src)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: err = %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestRunScenarioHonorsCanceledContext(t *testing.T) {
	scenario, err := LoadScenario(`return Scenario.new():board({rows = 1, cols = 1})`)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(DefaultConfig()).RunScenario(ctx, scenario); err == nil {
		t.Fatal("expected canceled context error")
	}
}

func TestRunScenarioRequiresScenario(t *testing.T) {
	if err := NewRunner(DefaultConfig()).RunScenario(context.Background(), nil); err == nil {
		t.Fatal("expected nil scenario error")
	}
}

func TestAssertionModeString(t *testing.T) {
	if AssertionStrict.String() != "strict" || AssertionLogOnly.String() != "log-only" {
		t.Fatalf("mode strings = %s/%s", AssertionStrict, AssertionLogOnly)
	}
}
