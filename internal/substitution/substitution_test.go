package substitution_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/launchgo/internal/launch"
	"github.com/vk/launchgo/internal/substitution"
)

func TestText_EvaluatesToLiteral(t *testing.T) {
	lc := launch.NewContext()
	sub := substitution.NewText("hello")

	value, err := sub.Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "hello", value)
	assert.Equal(t, `"hello"`, sub.Describe())
}

func TestResolve_ConcatenatesParts(t *testing.T) {
	lc := launch.NewContext()
	lc.SetConfiguration("name", "world")

	value, err := launch.Resolve(lc, []launch.Substitution{
		substitution.NewText("hello "),
		substitution.NewConfiguration("name"),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", value)
}

func TestConfiguration_InnermostScopeWins(t *testing.T) {
	lc := launch.NewContext()
	lc.SetConfiguration("key", "outer")
	lc.PushScope()
	lc.SetConfiguration("key", "inner")

	value, err := substitution.NewConfiguration("key").Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "inner", value)

	lc.PopScope()
	value, err = substitution.NewConfiguration("key").Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "outer", value)
}

func TestConfiguration_DefaultOnlyWhenUnset(t *testing.T) {
	lc := launch.NewContext()

	value, err := substitution.NewConfiguration("key").WithDefault("fallback").Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)

	lc.SetConfiguration("key", "set")
	value, err = substitution.NewConfiguration("key").WithDefault("fallback").Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "set", value)
}

func TestConfiguration_MissingIsTypedError(t *testing.T) {
	lc := launch.NewContext()

	_, err := substitution.NewConfiguration("absent").Evaluate(lc)
	var missing *launch.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "configuration", missing.Kind)
	assert.Equal(t, "absent", missing.Name)
}

func TestConfiguration_DeclaredArgumentReportsAsArgument(t *testing.T) {
	lc := launch.NewContext()
	require.NoError(t, lc.DeclareArgument("port", "", false, "listen port"))

	_, err := substitution.NewConfiguration("port").Evaluate(lc)
	var missing *launch.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "argument", missing.Kind)
}

func TestEnvironment_ReadsSnapshot(t *testing.T) {
	lc := launch.NewContext()
	lc.SetEnvironment("LAUNCH_TEST_VAR", "from-env")

	value, err := substitution.NewEnvironment("LAUNCH_TEST_VAR").Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "from-env", value)

	_, err = substitution.NewEnvironment("LAUNCH_TEST_MISSING").Evaluate(lc)
	var missing *launch.MissingReferenceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "environment variable", missing.Kind)
}

func TestExpression_VarAndEnvNamespaces(t *testing.T) {
	lc := launch.NewContext()
	lc.SetConfiguration("greeting", "hello")
	lc.SetEnvironment("WHO", "world")

	sub, err := substitution.ParseExpression(`format("%s %s", var.greeting, env.WHO)`)
	require.NoError(t, err)

	value, err := sub.Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "hello world", value)
}

func TestExpression_ScopedValuesAreVisible(t *testing.T) {
	lc := launch.NewContext()
	lc.SetConfiguration("key", "outer")
	lc.PushScope()
	lc.SetConfiguration("key", "inner")

	sub, err := substitution.ParseExpression("upper(var.key)")
	require.NoError(t, err)

	value, err := sub.Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "INNER", value)
}

func TestExpression_NumberConvertsToString(t *testing.T) {
	lc := launch.NewContext()

	sub, err := substitution.ParseExpression("min(3, 1, 2)")
	require.NoError(t, err)

	value, err := sub.Evaluate(lc)
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestExpression_UnknownReferenceFails(t *testing.T) {
	lc := launch.NewContext()

	sub, err := substitution.ParseExpression("var.missing")
	require.NoError(t, err)

	_, err = sub.Evaluate(lc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "var.missing")
}

func TestExpression_ParseErrorIsImmediate(t *testing.T) {
	_, err := substitution.ParseExpression("format(")
	require.Error(t, err)
}

func TestExpression_Describe(t *testing.T) {
	sub, err := substitution.ParseExpression("upper(var.key)")
	require.NoError(t, err)
	assert.Equal(t, "expr(upper(var.key))", sub.Describe())
}
