package godotcpp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Master is the godot-cpp development branch.
const Master = "master"

// ParseBranches turns `git branch -r` output into the supported branch list:
// numeric major.minor branches from 4.0 on in version order, then master
// when present.
func ParseBranches(output string) []string {
	seen := map[string]bool{}
	var versions []string
	hasMaster := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "->") {
			continue
		}
		branch := strings.ReplaceAll(line, "origin/", "")
		if seen[branch] {
			continue
		}
		seen[branch] = true

		if branch == Master {
			hasMaster = true
			continue
		}
		if _, _, ok := parseVersion(branch); ok {
			versions = append(versions, branch)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		ai, bi, _ := parseVersion(versions[i])
		aj, bj, _ := parseVersion(versions[j])
		if ai != aj {
			return ai < aj
		}
		return bi < bj
	})
	if hasMaster {
		versions = append(versions, Master)
	}
	return versions
}

// parseVersion accepts "major.minor" with major >= 4.
func parseVersion(branch string) (major, minor int, ok bool) {
	parts := strings.Split(branch, ".")
	if len(parts) != 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, major >= 4
}

// NextVersion is one minor past the highest numeric branch, or 4.0 when
// there is none. It is the version master is assumed to target.
func NextVersion(branches []string) string {
	var last string
	for _, b := range branches {
		if b != Master {
			last = b
		}
	}
	major, minor, ok := parseVersion(last)
	if !ok {
		return "4.0"
	}
	return fmt.Sprintf("%d.%d", major, minor+1)
}

// ResolveVersion maps a branch to the version recorded for it.
func ResolveVersion(branch string, branches []string) string {
	if branch == Master {
		return NextVersion(branches)
	}
	return branch
}

// VersionStatus classifies a recorded version against the remote branches.
type VersionStatus int

const (
	VersionInvalid VersionStatus = iota
	VersionValid
	VersionFromMaster
)

func (s VersionStatus) String() string {
	switch s {
	case VersionValid:
		return "valid"
	case VersionFromMaster:
		return "derived from master"
	default:
		return "invalid"
	}
}

// DescribeCurrent reports whether version names a branch, matches the
// version derived from master, or neither.
func DescribeCurrent(version string, branches []string) VersionStatus {
	for _, b := range branches {
		if b == version {
			return VersionValid
		}
	}
	if version == NextVersion(branches) {
		return VersionFromMaster
	}
	return VersionInvalid
}
