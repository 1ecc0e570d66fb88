package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/expand"
)

func TestExpandEnv(t *testing.T) {
	t.Parallel()
	env := map[string]string{"ROOT": "/home/ci", "SUB": "src"}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	expanded, err := ExpandEnv("${ROOT}/$SUB/app", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/home/ci/src/app", expanded)

	expanded, err = ExpandEnv(`C:\"no vars"`, lookup)
	require.NoError(t, err)
	assert.Equal(t, `C:\"no vars"`, expanded)

	_, err = ExpandEnv("$MISSING/app", lookup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING")
}

func TestExpandEnvChecksOnlyReferencedVariables(t *testing.T) {
	t.Parallel()
	var asked []string
	lookup := func(name string) (string, bool) {
		asked = append(asked, name)
		switch name {
		case "ROOT":
			return "/home/ci", true
		case "EMPTY":
			return "", true
		}
		return "", false
	}

	// no IFS in the environment, and it's not an error
	expanded, err := ExpandEnv("$ROOT/a", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/home/ci/a", expanded)

	expanded, err = ExpandEnv("$ROOT$EMPTY/b", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/home/ci/b", expanded, "set to empty is not unset")

	expanded, err = ExpandEnv("${MISSING:-/opt}/c", lookup)
	require.NoError(t, err)
	assert.Equal(t, "/opt/c", expanded)

	asked = nil
	_, err = ExpandEnv("$ROOT/$MISSING", lookup)
	var unsetErr expand.UnsetParameterError
	require.ErrorAs(t, err, &unsetErr)
	assert.Equal(t, "MISSING", unsetErr.Node.Param.Value)
	assert.NotContains(t, err.Error(), "IFS")
	assert.Contains(t, asked, "MISSING")
}

func TestExpandPathMappingTargets(t *testing.T) {
	t.Setenv("COMPREPLAY_TEST_ROOT", "/work")

	expanded, err := ExpandPathMappingTargets([]PathMapping{
		{From: "/$NOT_EXPANDED", To: "$COMPREPLAY_TEST_ROOT/a"},
		{From: `C:\b`, To: "/plain"},
	})
	require.NoError(t, err)
	assert.Equal(t, []PathMapping{
		{From: "/$NOT_EXPANDED", To: "/work/a"},
		{From: `C:\b`, To: "/plain"},
	}, expanded)

	_, err = ExpandPathMappingTargets([]PathMapping{{From: "/x", To: "$COMPREPLAY_TEST_UNSET_VAR"}})
	assert.Error(t, err)
}
