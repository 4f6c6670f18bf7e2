package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "minefield_scenario"

// LoadScenarioFromFile runs a Lua scenario script and returns the Scenario
// it builds. The script must end with `return <scenario>`.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newScenarioState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runScenarioChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenario runs a Lua scenario held in memory.
func LoadScenario(source string) (*Scenario, error) {
	state := newScenarioState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	return runScenarioChunk(state)
}

func newScenarioState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerScenarioType(state)
	registerScenarioConstructor(state)
	return state
}

func runScenarioChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
}

func scenarioNew(state *lua.State) int {
	scenario := &Scenario{Name: lua.OptString(state, 1, "")}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "board", Function: scenarioBoard},
	{Name: "open", Function: coordinateStep(stepOpen)},
	{Name: "mark", Function: coordinateStep(stepMark)},
	{Name: "reset", Function: scenarioReset},
	{Name: "expect_opened", Function: expectCellStep(stepExpectOpened)},
	{Name: "expect_flagged", Function: expectCellStep(stepExpectFlagged)},
	{Name: "expect_mined_neighbors", Function: scenarioExpectMinedNeighbors},
	{Name: "expect_outcome", Function: scenarioExpectOutcome},
	{Name: "expect_goal", Function: scenarioExpectGoal},
	{Name: "expect_explosion", Function: scenarioExpectExplosion},
	{Name: "expect_render", Function: scenarioExpectRender},
}

// Every method returns the scenario so calls can be chained.

func scenarioBoard(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, stepBoard, tableToMap(state, 2))
	state.PushValue(1)
	return 1
}

func coordinateStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		row := lua.CheckInteger(state, 2)
		col := lua.CheckInteger(state, 3)
		appendStep(scenario, kind, map[string]any{"row": row, "col": col})
		state.PushValue(1)
		return 1
	}
}

func expectCellStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		row := lua.CheckInteger(state, 2)
		col := lua.CheckInteger(state, 3)
		want := optBoolean(state, 4, true)
		appendStep(scenario, kind, map[string]any{"row": row, "col": col, "want": want})
		state.PushValue(1)
		return 1
	}
}

func scenarioReset(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, stepReset, nil)
	state.PushValue(1)
	return 1
}

func scenarioExpectMinedNeighbors(state *lua.State) int {
	scenario := checkScenario(state)
	row := lua.CheckInteger(state, 2)
	col := lua.CheckInteger(state, 3)
	want := lua.CheckInteger(state, 4)
	appendStep(scenario, stepExpectMinedNeighbors, map[string]any{"row": row, "col": col, "want": want})
	state.PushValue(1)
	return 1
}

func scenarioExpectOutcome(state *lua.State) int {
	scenario := checkScenario(state)
	want := lua.CheckString(state, 2)
	appendStep(scenario, stepExpectOutcome, map[string]any{"want": want})
	state.PushValue(1)
	return 1
}

func scenarioExpectGoal(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, stepExpectGoal, map[string]any{"want": optBoolean(state, 2, true)})
	state.PushValue(1)
	return 1
}

func scenarioExpectExplosion(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, stepExpectExplosion, map[string]any{"want": optBoolean(state, 2, true)})
	state.PushValue(1)
	return 1
}

func scenarioExpectRender(state *lua.State) int {
	scenario := checkScenario(state)
	want := lua.CheckString(state, 2)
	appendStep(scenario, stepExpectRender, map[string]any{"want": want})
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optBoolean(state *lua.State, index int, def bool) bool {
	if state.IsNoneOrNil(index) {
		return def
	}
	lua.CheckType(state, index, lua.TypeBoolean)
	return state.ToBoolean(index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo returns a []any for sequence tables and a map otherwise.
func tableToGo(state *lua.State, index int) any {
	index = state.AbsIndex(index)
	maxIndex := 0
	count := 0
	isArray := true
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
