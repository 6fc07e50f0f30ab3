package plan

import (
	"regexp"
	"strconv"
	"strings"
)

// dayMarker matches a plan heading like "Day 3:" or "day 3 -". The
// marker may sit at line start or mid-paragraph; the word boundary
// keeps "Monday 3:" from matching.
var dayMarker = regexp.MustCompile(`(?i)\bday\s*(\d+)\s*[:\-]`)

// leading bullet/numbering decoration stripped from every task line.
const bulletCutset = "-–•*0123456789.() \t"

type block struct {
	num  int
	body string
}

// Parse turns one free-form AI response into 8 draft task lists. Days
// without a recognizable "Day N" block come back empty; input with no
// markers at all yields 8 empty days. Parse never fails.
func Parse(text string) Days {
	var days Days

	blocks := splitBlocks(text)
	for i := 1; i <= NumDays; i++ {
		// first block with a matching day number wins
		for _, b := range blocks {
			if b.num != i {
				continue
			}
			days[i-1] = blockTasks(b.body)
			break
		}
	}
	return days
}

// splitBlocks cuts the text at every day marker. Each block runs from
// the end of its marker to the start of the next marker (or EOF), so a
// marker's content never bleeds into the following day.
func splitBlocks(text string) []block {
	marks := dayMarker.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]block, 0, len(marks))
	for k, m := range marks {
		num, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if k+1 < len(marks) {
			end = marks[k+1][0]
		}
		blocks = append(blocks, block{num: num, body: text[m[1]:end]})
	}
	return blocks
}

func blockTasks(body string) []Task {
	var tasks []Task
	for _, line := range strings.Split(body, "\n") {
		clean := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), bulletCutset))
		if clean == "" {
			continue
		}
		tasks = append(tasks, Task{Text: clean})
	}
	return tasks
}
