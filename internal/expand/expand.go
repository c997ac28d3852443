package expand

import (
	"os"
	"regexp"
	"strings"
)

var re = regexp.MustCompile(`\$\{([a-zA-Z0-9_.-]+)\}`)

// Expand replaces every ${name} in v with mapping(name).
func Expand(v string, mapping func(string) string) string {
	return re.ReplaceAllStringFunc(v, func(s string) string {
		return mapping(s[2 : len(s)-1])
	})
}

// Env resolves "env.NAME" to the value of the environment variable NAME.
// Any other name resolves to the empty string.
func Env(key string) string {
	if name, ok := strings.CutPrefix(key, "env."); ok {
		return os.Getenv(name)
	}
	return ""
}

// ExpandEnv is Expand with the Env mapping.
func ExpandEnv(v string) string {
	return Expand(v, Env)
}

func ExpandEnvAll(vs []string) []string {
	retval := make([]string, len(vs))
	for i, v := range vs {
		retval[i] = ExpandEnv(v)
	}
	return retval
}
