package mutator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gdpp-dev/gdpp/internal/identifier"
)

var libNameRe = regexp.MustCompile(`libname\s*=\s*"[^"]+"`)

// LibName sets the SConstruct libname assignment to the display form of name.
func LibName(name identifier.Identifier) Transform {
	return Pure(func(content string) string {
		return libNameRe.ReplaceAllLiteralString(content, `libname = "`+name.String()+`"`)
	})
}

func boolVarRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(name) + `[ \t]*=[ \t]*"([^"]+)"[ \t]*(\r?)$`)
}

// ReadBoolVars reads `name = "true"|"false"` assignments from SConstruct.
// Every name must be present with a true/false value; values are lowercased.
func ReadBoolVars(content string, names ...string) (map[string]string, error) {
	vars := make(map[string]string, len(names))
	for _, name := range names {
		m := boolVarRe(name).FindStringSubmatch(content)
		if m == nil {
			return nil, fmt.Errorf("variable %q not found; define it as %s = \"true\" or %s = \"false\"", name, name, name)
		}
		value := strings.ToLower(m[1])
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("variable %q has invalid value %q; must be \"true\" or \"false\"", name, m[1])
		}
		vars[name] = value
	}
	return vars, nil
}

// SetBoolVars rewrites existing `name = "..."` assignments. A variable that is
// not already defined is an error.
func SetBoolVars(vars map[string]string) Transform {
	return func(content string) (string, error) {
		for name, value := range vars {
			re := boolVarRe(name)
			if !re.MatchString(content) {
				return "", fmt.Errorf("variable %q not found for updating", name)
			}
			content = re.ReplaceAllString(content, name+` = "`+value+`"${2}`)
		}
		return content, nil
	}
}
