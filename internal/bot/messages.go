package bot

import (
	"fmt"
	"strings"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func greeting(name string) string {
	if name == "" {
		return "Hi!"
	}
	return fmt.Sprintf("Hi, %s!", name)
}

func reminderText(name string, studyTasks, reviewTasks int) string {
	var b strings.Builder
	b.WriteString("🔔 ")
	b.WriteString(greeting(name))
	b.WriteString("\n\n")
	if studyTasks > 0 {
		fmt.Fprintf(&b, "📚 *%d* study %s planned for today\n", studyTasks, plural(studyTasks, "task", "tasks"))
	}
	if reviewTasks > 0 {
		fmt.Fprintf(&b, "🔄 *%d* review %s due\n", reviewTasks, plural(reviewTasks, "task", "tasks"))
	}
	return b.String()
}

func levelUpText(name string, level int) string {
	return fmt.Sprintf("🎉 %s You reached *level %d*. Keep it up!", greeting(name), level)
}
