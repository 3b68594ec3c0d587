package commands

import (
	"sort"
	"strings"
)

// menuOrder fixes the position of menu entries; the registry map is unordered.
var menuOrder = []string{"godot-version", "rename", "profile"}

// ResolveCommandID resolves a CLI command path to a registry command ID.
// Example: "profile set" -> "profile_set"
func ResolveCommandID(path string) (string, bool) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", false
	}

	if _, ok := Registry[trimmed]; ok {
		return trimmed, true
	}

	underscored := strings.ReplaceAll(trimmed, " ", "_")
	if _, ok := Registry[underscored]; ok {
		return underscored, true
	}

	return "", false
}

// LookupMetaByPath resolves a CLI command path and returns the registry metadata.
func LookupMetaByPath(path string) (string, Meta, bool) {
	id, ok := ResolveCommandID(path)
	if !ok {
		return "", Meta{}, false
	}
	meta, ok := Registry[id]
	return id, meta, ok
}

// MenuEntry is one action in the interactive menu.
type MenuEntry struct {
	ID    string
	Label string
}

// MenuEntries returns the commands shown in the interactive menu, in order.
func MenuEntries() []MenuEntry {
	rank := make(map[string]int, len(menuOrder))
	for i, id := range menuOrder {
		rank[id] = i
	}

	var out []MenuEntry
	for id, meta := range Registry {
		if meta.MenuLabel == "" {
			continue
		}
		out = append(out, MenuEntry{ID: id, Label: meta.MenuLabel})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, iok := rank[out[i].ID]
		rj, jok := rank[out[j].ID]
		if iok != jok {
			return iok
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].ID < out[j].ID
	})
	return out
}
