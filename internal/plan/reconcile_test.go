package plan

import (
	"errors"
	"reflect"
	"testing"
)

func draft(text string) Task { return Task{Text: text} }

func assigned(id int, text string, done bool) Task {
	return Task{ID: &id, Text: text, Done: done}
}

func ids(d Days) []int {
	var out []int
	for i := range d {
		for _, t := range d[i] {
			if t.ID == nil {
				out = append(out, -1)
				continue
			}
			out = append(out, *t.ID)
		}
	}
	return out
}

func TestAssignMissingIDsWalksDaysInOrder(t *testing.T) {
	days := Parse("Day 1:\n- Buy materials\n- Sketch plan\nDay 2:\n1. Cut wood")
	days.AssignMissingIDs()

	if got, want := ids(days), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestAssignMissingIDsIdempotent(t *testing.T) {
	var days Days
	days[0] = []Task{draft("a"), draft("b")}
	days[5] = []Task{draft("c")}

	days.AssignMissingIDs()
	once := ids(days)
	days.AssignMissingIDs()

	if got := ids(days); !reflect.DeepEqual(got, once) {
		t.Fatalf("second pass changed ids: %v vs %v", got, once)
	}
}

func TestAssignMissingIDsContinuesFromMax(t *testing.T) {
	var days Days
	days[0] = []Task{assigned(7, "old", true), draft("new a")}
	days[3] = []Task{draft("new b")}

	days.AssignMissingIDs()

	if got, want := ids(days), []int{7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	if !days[0][0].Done {
		t.Fatalf("assignment touched an existing done flag")
	}
}

func TestAssignMissingIDsPanicsOnDuplicates(t *testing.T) {
	var days Days
	days[0] = []Task{assigned(3, "a", false), assigned(3, "b", false)}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate ids")
		}
	}()
	days.AssignMissingIDs()
}

func TestMergeParsedPlanAppendsWithoutTouchingExisting(t *testing.T) {
	var existing Days
	existing[0] = []Task{assigned(0, "keep me", true), assigned(1, "and me", false)}

	parsed := Parse("Day 1:\n- new one\nDay 2:\n- new two")
	merged := MergeParsedPlan(existing, parsed)

	if got, want := texts(merged[0]), []string{"keep me", "and me", "new one"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("day 0 = %v, want %v", got, want)
	}
	if !merged[0][0].Done || *merged[0][0].ID != 0 {
		t.Fatalf("existing task mutated: %+v", merged[0][0])
	}
	if got, want := ids(merged), []int{0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
	// input structures stay untouched
	if len(existing[0]) != 2 {
		t.Fatalf("merge mutated its input: %v", existing[0])
	}
}

func TestMergeParsedPlanTwiceDuplicatesWithDistinctIDs(t *testing.T) {
	parsed := Parse("Day 1:\n- a\nDay 2:\n- b")

	var empty Days
	once := MergeParsedPlan(empty, parsed)
	twice := MergeParsedPlan(once, parsed)

	if got, want := texts(twice[0]), []string{"a", "a"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("day 0 = %v, want two copies", got)
	}
	if got, want := ids(twice), []int{0, 2, 1, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestReplacePlanAssignsFreshIDs(t *testing.T) {
	structure := ReplacePlan(Parse("Day 1:\n- a\n- b\nDay 8:\n- c"))

	if got, want := ids(structure), []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Fatalf("ids = %v, want %v", got, want)
	}
}

func TestToggleTask(t *testing.T) {
	var days Days
	days[0] = []Task{assigned(0, "a", false), assigned(1, "b", false), assigned(2, "c", false)}

	if err := days.Toggle(0, 1, true); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if !days[0][1].Done {
		t.Fatalf("task not toggled: %+v", days[0][1])
	}
	if *days[0][1].ID != 1 {
		t.Fatalf("toggle reassigned id: %+v", days[0][1])
	}
}

func TestToggleOutOfRangeLeavesStructureUnchanged(t *testing.T) {
	var days Days
	days[0] = []Task{assigned(0, "a", false), assigned(1, "b", false), assigned(2, "c", false)}
	before := days

	if err := days.Toggle(0, 5, true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Toggle(0, 5) = %v, want ErrOutOfRange", err)
	}
	if err := days.Toggle(9, 0, true); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Toggle(9, 0) = %v, want ErrOutOfRange", err)
	}
	if !reflect.DeepEqual(days, before) {
		t.Fatalf("failed toggle mutated the structure")
	}
}

func TestDeleteNeverReusesIDs(t *testing.T) {
	var days Days
	days[0] = []Task{assigned(0, "a", false), assigned(1, "b", false), assigned(2, "c", false)}

	if err := days.Delete(0, 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got, want := texts(days[0]), []string{"a", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("day 0 = %v, want %v", got, want)
	}

	if err := days.Add(0, "New"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	last := days[0][len(days[0])-1]
	if *last.ID != 3 {
		t.Fatalf("new task id = %d, want 3 (id 1 must not be reused)", *last.ID)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	var days Days
	if err := days.Delete(0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Delete on empty day = %v, want ErrOutOfRange", err)
	}
}

func TestAddBlankTextIsNoOp(t *testing.T) {
	var days Days
	days[2] = []Task{assigned(0, "a", false)}

	if err := days.Add(2, "   "); err != nil {
		t.Fatalf("Add of blank text returned error: %v", err)
	}
	if len(days[2]) != 1 {
		t.Fatalf("blank Add appended a task: %v", days[2])
	}
	if err := days.Add(-1, "x"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Add(-1) = %v, want ErrOutOfRange", err)
	}
}

func TestNormalizeMixedEntries(t *testing.T) {
	got := Normalize([]any{
		"  plain string  ",
		map[string]any{"text": "from object", "done": true, "id": float64(4)},
		map[string]any{"text": "   "},
		42,
		Task{Text: " typed "},
	})

	want := []Task{
		{Text: "plain string"},
		assigned(4, "from object", true),
		{Text: "typed"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeIsNoOpOnParsedOutput(t *testing.T) {
	days := Parse("Day 1:\n- Buy materials\n- Sketch plan")
	entries := make([]any, 0, len(days[0]))
	for _, task := range days[0] {
		entries = append(entries, task)
	}

	if got := Normalize(entries); !reflect.DeepEqual(got, days[0]) {
		t.Fatalf("Normalize changed parsed tasks: %+v vs %+v", got, days[0])
	}
}

func TestIDUniquenessAcrossOperationSequence(t *testing.T) {
	structure := ReplacePlan(Parse("Day 1:\n- a\n- b\nDay 2:\n- c"))
	structure = MergeParsedPlan(structure, Parse("Day 2:\n- d\nDay 3:\n- e"))
	if err := structure.Delete(0, 0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := structure.Add(7, "late addition"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := structure.Toggle(1, 0, true); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	seen := map[int]bool{}
	for _, id := range ids(structure) {
		if id < 0 {
			t.Fatalf("unassigned id in %v", ids(structure))
		}
		if seen[id] {
			t.Fatalf("duplicate id %d in %v", id, ids(structure))
		}
		seen[id] = true
	}
}
