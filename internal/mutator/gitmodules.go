package mutator

import "strings"

// SubmoduleBranch rewrites every `branch = ...` line of .gitmodules.
func SubmoduleBranch(branch string) Transform {
	return Pure(func(content string) string {
		lines := strings.SplitAfter(content, "\n")
		for i, line := range lines {
			if !strings.HasPrefix(strings.TrimSpace(line), "branch =") {
				continue
			}
			eol := line[len(strings.TrimRight(line, "\r\n")):]
			lines[i] = "\tbranch = " + branch + eol
		}
		return strings.Join(lines, "")
	})
}
