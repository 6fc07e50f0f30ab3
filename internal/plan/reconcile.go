package plan

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfRange signals a toggle/add/delete aimed at a day or task
// index that does not exist. The structure is left untouched.
var ErrOutOfRange = errors.New("day or task index out of range")

// Normalize coerces a loosely shaped task list (plain strings, partial
// JSON objects, or already-typed tasks) into full task records. It
// never fails: a bare string becomes a fresh undone draft, unknown or
// empty entries are dropped.
func Normalize(entries []any) []Task {
	var tasks []Task
	for _, e := range entries {
		var t Task
		switch v := e.(type) {
		case string:
			t = Task{Text: v}
		case Task:
			t = v
		case map[string]any:
			if s, ok := v["text"].(string); ok {
				t.Text = s
			}
			if b, ok := v["done"].(bool); ok {
				t.Done = b
			}
			if n, ok := v["id"].(float64); ok && n >= 0 {
				id := int(n)
				t.ID = &id
			}
		default:
			continue
		}
		t.Text = strings.TrimSpace(t.Text)
		if t.Text == "" {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// AssignMissingIDs gives every draft task an id. The counter starts at
// max(assigned)+1 (0 when nothing is assigned yet) and walks days in
// ascending order, positions in ascending order, so assignment is
// reproducible. Already-assigned ids are never touched or renumbered.
func (d *Days) AssignMissingIDs() {
	next := d.nextID()
	for i := range d {
		for j := range d[i] {
			if d[i][j].ID == nil {
				id := next
				d[i][j].ID = &id
				next++
			}
		}
	}
	d.assertUniqueIDs()
}

// MergeParsedPlan appends a freshly parsed structure onto an existing
// one, day by day, then assigns ids to the newcomers. Existing tasks
// keep their position, id and done flag; merging the same parsed plan
// twice deliberately yields two copies with distinct ids.
func MergeParsedPlan(existing, parsed Days) Days {
	var out Days
	for i := range out {
		out[i] = make([]Task, 0, len(existing[i])+len(parsed[i]))
		out[i] = append(out[i], existing[i]...)
		out[i] = append(out[i], parsed[i]...)
	}
	out.AssignMissingIDs()
	return out
}

// ReplacePlan builds a whole structure from a parsed plan, for
// brand-new projects with no prior tasks to preserve.
func ReplacePlan(parsed Days) Days {
	var out Days
	for i := range out {
		out[i] = append([]Task(nil), parsed[i]...)
	}
	out.AssignMissingIDs()
	return out
}

// Toggle sets the done flag on one task. Ids are never reassigned.
func (d *Days) Toggle(day, index int, done bool) error {
	if err := d.check(day, index); err != nil {
		return err
	}
	d[day][index].Done = done
	return nil
}

// Add appends a user-entered task to the end of a day, with the next
// id from the same counter rule AssignMissingIDs uses. Blank text is a
// silent no-op.
func (d *Days) Add(day int, text string) error {
	if day < 0 || day >= NumDays {
		return fmt.Errorf("day %d: %w", day, ErrOutOfRange)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	id := d.nextID()
	d[day] = append(d[day], Task{ID: &id, Text: text})
	return nil
}

// Delete removes one task. Remaining ids are not renumbered, so a
// deleted id is never reused.
func (d *Days) Delete(day, index int) error {
	if err := d.check(day, index); err != nil {
		return err
	}
	d[day] = append(d[day][:index], d[day][index+1:]...)
	return nil
}

func (d *Days) check(day, index int) error {
	if day < 0 || day >= NumDays {
		return fmt.Errorf("day %d: %w", day, ErrOutOfRange)
	}
	if index < 0 || index >= len(d[day]) {
		return fmt.Errorf("day %d task %d: %w", day, index, ErrOutOfRange)
	}
	return nil
}

func (d *Days) nextID() int {
	next := 0
	for i := range d {
		for j := range d[i] {
			if id := d[i][j].ID; id != nil && *id >= next {
				next = *id + 1
			}
		}
	}
	return next
}

// assertUniqueIDs panics on a duplicate id. Duplicates after an
// assignment pass mean a broken contract, not bad user input.
func (d *Days) assertUniqueIDs() {
	seen := make(map[int]bool)
	for i := range d {
		for j := range d[i] {
			id := d[i][j].ID
			if id == nil {
				panic(fmt.Sprintf("task %q has no id after assignment", d[i][j].Text))
			}
			if seen[*id] {
				panic(fmt.Sprintf("duplicate task id %d", *id))
			}
			seen[*id] = true
		}
	}
}
