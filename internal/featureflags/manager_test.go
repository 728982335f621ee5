package featureflags

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnabled_BooleanValues(t *testing.T) {
	t.Parallel()
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, 1), name)
	}
	for _, name := range []string{"b", "d", "f"} {
		assert.False(t, m.Enabled(name, 1), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	t.Parallel()
	m := NewManager("always=100%,never=0%,canary=25%")

	assert.True(t, m.Enabled("always", 1))
	assert.False(t, m.Enabled("never", 1))

	first := m.Enabled("canary", 42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", 42), "rollout must be deterministic per user")
	}
	assert.False(t, m.Enabled("canary", 0), "anonymous callers never fall in a rollout")
}

func TestEnabled_KnownFlagDefaults(t *testing.T) {
	t.Parallel()
	m := NewManager("")
	assert.True(t, m.Enabled(FlagAIMentor, 0))
	assert.True(t, m.Enabled(FlagFaceVerification, 0))
	assert.False(t, m.Enabled("unknown", 1))

	m = NewManager("AI_Mentor = off")
	assert.False(t, m.Enabled(FlagAIMentor, 7))
}

func TestParseAndSnapshot(t *testing.T) {
	t.Parallel()
	m := NewManager(" bad ,x=on, y = 20% ,z=off,w=sometimes ")

	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, m.Raw())

	snap := m.Snapshot(123)
	assert.Len(t, snap, 5)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
	assert.True(t, snap[FlagAIMentor])
}

func TestRequire(t *testing.T) {
	t.Parallel()
	m := NewManager("face_verification=off")

	app := fiber.New()
	app.Get("/mentor", m.Require(FlagAIMentor), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/verify", m.Require(FlagFaceVerification), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/mentor", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/verify", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
