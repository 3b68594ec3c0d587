package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Bucket groups engine classes that a build profile can disable together.
type Bucket string

const (
	Bucket2D         Bucket = "2d"
	Bucket3D         Bucket = "3d"
	BucketXR         Bucket = "xr"
	BucketNetworking Bucket = "networking"
	BucketNavigation Bucket = "navigation"
	BucketEditor     Bucket = "editor"
	BucketAnimation  Bucket = "animation"
	BucketUI         Bucket = "ui"
)

// ExtraBuckets can be disabled on top of a 2D or 3D profile.
var ExtraBuckets = []Bucket{BucketXR, BucketNetworking, BucketNavigation, BucketEditor, BucketAnimation, BucketUI}

// ParseBuckets parses extra bucket names, ignoring case and blanks.
func ParseBuckets(names []string) ([]Bucket, error) {
	var out []Bucket
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		found := false
		for _, b := range ExtraBuckets {
			if string(b) == n {
				out = append(out, b)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown class group %q", n)
		}
	}
	return out, nil
}

// Class is one entry of extension_api.json.
type Class struct {
	Name     string `json:"name"`
	Inherits string `json:"inherits"`
}

// API is the part of extension_api.json the classifier reads.
type API struct {
	Classes []Class `json:"classes"`
}

// LoadAPI reads extension_api.json.
func LoadAPI(path string) (*API, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var api API
	if err := json.Unmarshal(data, &api); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &api, nil
}

var netKeywords = []string{"network", "http", "websocket", "multiplayer", "udp", "tcp", "packetpeer", "webrtc"}

// Buckets maps each bucket to its sorted class names.
type Buckets map[Bucket][]string

// Classify sorts every class into zero or more buckets by name and
// inheritance.
func Classify(api *API) Buckets {
	parents := make(map[string]string, len(api.Classes))
	for _, c := range api.Classes {
		parents[c.Name] = c.Inherits
	}
	inherits := func(name, base string) bool {
		seen := map[string]bool{}
		for cur := name; cur != "" && !seen[cur]; {
			parent, ok := parents[cur]
			if !ok || parent == "" {
				return false
			}
			if parent == base {
				return true
			}
			seen[cur] = true
			cur = parent
		}
		return false
	}

	sets := map[Bucket]map[string]bool{}
	add := func(b Bucket, name string) {
		if sets[b] == nil {
			sets[b] = map[string]bool{}
		}
		sets[b][name] = true
	}

	for _, c := range api.Classes {
		name := c.Name
		lower := strings.ToLower(name)

		if strings.HasSuffix(lower, "2d") || inherits(name, "Node2D") {
			add(Bucket2D, name)
		}
		if strings.HasSuffix(lower, "3d") || inherits(name, "Node3D") {
			add(Bucket3D, name)
		}
		if strings.HasPrefix(name, "XR") || name == "WebXRInterface" {
			add(BucketXR, name)
		}
		for _, k := range netKeywords {
			if strings.Contains(lower, k) {
				add(BucketNetworking, name)
				break
			}
		}
		if strings.Contains(lower, "navigation") {
			add(BucketNavigation, name)
		}
		if inherits(name, "EditorPlugin") || strings.Contains(lower, "editor") {
			add(BucketEditor, name)
		}
		if strings.Contains(lower, "animation") ||
			inherits(name, "AnimationPlayer") ||
			inherits(name, "AnimationMixer") ||
			inherits(name, "AnimationTree") {
			add(BucketAnimation, name)
		}
		if inherits(name, "Control") {
			add(BucketUI, name)
		}
	}

	out := Buckets{}
	for b, set := range sets {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		sort.Strings(names)
		out[b] = names
	}
	return out
}
