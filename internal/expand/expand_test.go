package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	assert.Equal(t, "foo", Expand("${foo}", func(s string) string { return s }))
	assert.Equal(t, "a-b-c", Expand("a-${x}-c", func(string) string { return "b" }))
	assert.Equal(t, "$foo", Expand("$foo", func(string) string { return "bar" }))
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("WATCHED", "Dr. Evil")
	assert.Equal(t, "Dr. Evil", ExpandEnv("${env.WATCHED}"))
	assert.Equal(t, "to Dr. Evil!", ExpandEnv("to ${env.WATCHED}!"))
	assert.Equal(t, "", ExpandEnv("${WATCHED}"))
	assert.Equal(t, []string{"Dr. Evil", "x"}, ExpandEnvAll([]string{"${env.WATCHED}", "x"}))
}
