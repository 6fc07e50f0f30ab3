package plan

// NumDays is the fixed number of day slots in every project.
const NumDays = 8

// Task is a single checklist item. ID is nil while the task is still a
// draft (produced by Parse or Normalize); the reconciler assigns ids.
type Task struct {
	ID   *int   `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Days holds one task list per day slot. The fixed array keeps the
// 8-slot arity from ever changing under merges or re-parses.
type Days [NumDays][]Task

// Project is the planning unit persisted per user. Title acts as the
// key within a user's collection. RawPlan keeps the last unparsed AI
// response for re-parsing and follow-up prompts.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tasks       Days   `json:"tasks"`
	RawPlan     string `json:"raw_plan"`
}
