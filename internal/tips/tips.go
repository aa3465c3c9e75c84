// Package tips rotates short usage hints shown on the triage dashboard.
package tips

import "time"

var all = []string{
	"`triage task next 3` to see your top three moves as cards.",
	"`triage task explain <id>` to see exactly how a score was computed.",
	"`triage task --mode urgent` to list only what's due within the window.",
	"`triage task -f json | jq '.tasks[0]'` to script against the ranking.",
	"`triage task edit <id> -d next-week` to push a deadline out.",
	"`triage task add \"idea\" -d +30d -p low` to park something for later.",
	"Press Tab on the board to cycle all, urgent and strategic tasks.",
	"Press `/` on the board to fuzzy-filter tasks by name.",
	"`triage workspace` shows the token to share this list with someone.",
	"`triage workspace new` starts a clean list without touching the old one.",
	"`triage workspace use` with no token picks from the workspaces on this machine.",
	"`triage config set rank.urgent_window 5` to widen what counts as urgent.",
	"`triage config list` to see every ranking constant and its default.",
	"`triage hook create task.add preexec` to default or rewrite task fields.",
	"`triage hook create \"task.*\" notify` to ping something whenever tasks change.",
	"Critical work due next month still sorts above chores: big important tasks are forgiven their size.",
}

// All returns every tip.
func All() []string {
	return all
}

// Daily returns the tip for t's day. It changes once a day.
func Daily(t time.Time) string {
	return all[t.YearDay()%len(all)]
}
