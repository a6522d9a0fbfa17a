package acl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jsamuelsen/sitebuilder-provisioner/internal/domain"
)

// Plan is one entry of a vendor plan catalog, decoded as a generic object
// so any of its fields can serve as a match candidate.
type Plan map[string]any

// Field returns the trimmed string form of a plan field, or "" when absent.
func (p Plan) Field(name string) string {
	return strings.TrimSpace(stringify(p[name]))
}

// PlanMatcher selects a plan from a catalog by a caller package reference.
type PlanMatcher struct {
	// IDField is tried first, and only when the reference is numeric.
	IDField string

	// NameFields are always tried, in order, after IDField.
	NameFields []string
}

// Candidates returns the ordered fields tried for ref.
func (m PlanMatcher) Candidates(ref string) []string {
	fields := make([]string, 0, len(m.NameFields)+1)
	if m.IDField != "" && IsNumeric(ref) {
		fields = append(fields, m.IDField)
	}

	return append(fields, m.NameFields...)
}

// Match returns the first plan whose candidate field equals ref exactly,
// after trimming, case-sensitively. Fields are tried in Candidates order and
// the whole catalog is scanned for each field before moving to the next.
func (m PlanMatcher) Match(ref string, catalog []Plan) (Plan, error) {
	want := strings.TrimSpace(ref)

	for _, field := range m.Candidates(want) {
		for _, plan := range catalog {
			if _, ok := plan[field]; !ok {
				continue
			}
			if plan.Field(field) == want {
				return plan, nil
			}
		}
	}

	return nil, domain.NewNotFoundErrorWithListing(
		"plan", ref,
		fmt.Sprintf("Package/Plan `%s` not found", ref),
		catalog,
	)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
