// Package featureflags gates optional API surfaces (the AI mentor, face
// verification) behind a FEATURE_FLAGS string such as
// "ai_mentor=on,face_verification=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"

	"studentvoice/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Known flags.
const (
	FlagAIMentor         = "ai_mentor"
	FlagFaceVerification = "face_verification"
)

// defaults apply to known flags missing from the configuration.
var defaults = map[string]bool{
	FlagAIMentor:         true,
	FlagFaceVerification: true,
}

type ruleKind int

const (
	ruleOff ruleKind = iota
	ruleOn
	rulePercent
)

type rule struct {
	kind    ruleKind
	percent int
	raw     string
}

// Manager evaluates feature flags parsed from a comma-separated key=value list.
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs are skipped.
func NewManager(raw string) *Manager {
	out := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		r, ok := parseRule(value)
		if !ok {
			continue
		}
		out[key] = r
	}

	return &Manager{rules: out}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{kind: ruleOn, raw: value}, true
	case "off", "false", "0":
		return rule{kind: ruleOff, raw: value}, true
	}
	pctRaw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return rule{}, false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil {
		return rule{}, false
	}
	switch {
	case pct <= 0:
		return rule{kind: ruleOff, raw: value}, true
	case pct >= 100:
		return rule{kind: ruleOn, raw: value}, true
	}
	return rule{kind: rulePercent, percent: pct, raw: value}, true
}

// Enabled reports whether name is on for userID. Percentage rollouts are
// deterministic per user and never include anonymous callers (userID 0).
func (m *Manager) Enabled(name string, userID uint) bool {
	name = normalize(name)
	if m == nil {
		return defaults[name]
	}

	r, ok := m.rules[name]
	if !ok {
		return defaults[name]
	}

	switch r.kind {
	case ruleOn:
		return true
	case rulePercent:
		if userID == 0 {
			return false
		}
		return rolloutBucket(name, userID) < r.percent
	default:
		return false
	}
}

// Raw returns the configured values keyed by flag name.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Names lists every configured or known flag, sorted.
func (m *Manager) Names() []string {
	seen := make(map[string]struct{}, len(m.rules)+len(defaults))
	for k := range defaults {
		seen[k] = struct{}{}
	}
	for k := range m.rules {
		seen[k] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot evaluates every flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool)
	for _, name := range m.Names() {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

// Require rejects the request with 404 when name is off for the caller.
// It must run after the auth middleware so rollouts see the user id.
func (m *Manager) Require(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(uint)
		if !m.Enabled(name, userID) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Feature", name))
		}
		return c.Next()
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", name, userID)
	return int(h.Sum32() % 100)
}
