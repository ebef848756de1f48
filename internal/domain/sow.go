package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SOW is a persisted Statement of Work record. Data is the priced document.
type SOW struct {
	ID        string
	Name      string
	Data      *SOWDocument
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultSOWName is used when a SOW is created without a name.
const DefaultSOWName = "Untitled SOW"

// SOWDocument is the aggregate root of a Statement of Work. Unknown JSON keys
// are kept in Extra so documents round-trip without loss.
type SOWDocument struct {
	ProjectTitle    string
	ClientName      string
	ProjectOverview string
	ProjectOutcomes []string
	Scopes          []Scope
	BudgetNote      *string
	Timeline        *Timeline

	// Extra holds unknown members, and members that could not be decoded
	// into their typed field. KeyOrder is the member order of the decoded
	// object; nil writes declaration order.
	Extra    map[string]json.RawMessage
	KeyOrder []string
}

// Scope is a work package within a SOW. Subtotal is the sum of role totals
// once the document has been reconciled.
type Scope struct {
	ID            string
	ScopeName     string
	ScopeOverview string
	Deliverables  []string
	Assumptions   []string
	Roles         []Role
	Subtotal      float64

	Extra    map[string]json.RawMessage
	KeyOrder []string
}

// Role is a staffing line within a scope. A nil Hours, Rate or Total means
// the value is missing and is repaired by the pricing reconciler.
type Role struct {
	Name        string
	Description string
	Hours       *float64
	Rate        *float64
	Total       *float64

	Extra    map[string]json.RawMessage
	KeyOrder []string
}

// Timeline is the optional delivery schedule of a SOW. A timeline that is
// not an object is kept verbatim in SOWDocument.Extra instead.
type Timeline struct {
	Duration string
	Phases   []Phase

	Extra    map[string]json.RawMessage
	KeyOrder []string
}

// Phase is one step of a Timeline.
type Phase struct {
	Name         string
	Duration     string
	Deliverables []string

	Extra    map[string]json.RawMessage
	KeyOrder []string
}

var (
	documentKeys = []string{"projectTitle", "clientName", "projectOverview", "projectOutcomes", "scopes", "budgetNote", "timeline"}
	scopeKeys    = []string{"id", "scopeName", "scopeOverview", "deliverables", "assumptions", "roles", "subtotal"}
	roleKeys     = []string{"name", "description", "hours", "rate", "total"}
	timelineKeys = []string{"duration", "phases"}
	phaseKeys    = []string{"name", "duration", "deliverables"}
)

// NewScopeID returns a fresh synthetic scope identifier.
func NewScopeID() string {
	return "scope-" + uuid.New().String()
}

// GrandTotal returns the sum of all scope subtotals.
func (d *SOWDocument) GrandTotal() float64 {
	var sum float64
	for _, s := range d.Scopes {
		sum += s.Subtotal
	}
	return sum
}

// TotalHours returns the sum of role hours across all scopes. Missing hours
// count as zero.
func (d *SOWDocument) TotalHours() float64 {
	var sum float64
	for _, s := range d.Scopes {
		for _, r := range s.Roles {
			sum += Float64FromPtrWithDefault(0, r.Hours)
		}
	}
	return sum
}

// Clone returns a deep copy of the document.
func (d *SOWDocument) Clone() *SOWDocument {
	if d == nil {
		return nil
	}
	out := &SOWDocument{
		ProjectTitle:    d.ProjectTitle,
		ClientName:      d.ClientName,
		ProjectOverview: d.ProjectOverview,
		ProjectOutcomes: cloneStrings(d.ProjectOutcomes),
		Extra:           cloneExtra(d.Extra),
		KeyOrder:        cloneOrder(d.KeyOrder),
	}
	if d.BudgetNote != nil {
		out.BudgetNote = StrPtr(*d.BudgetNote)
	}
	if d.Timeline != nil {
		out.Timeline = d.Timeline.Clone()
	}
	if d.Scopes != nil {
		out.Scopes = make([]Scope, len(d.Scopes))
		for i := range d.Scopes {
			out.Scopes[i] = d.Scopes[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the scope.
func (s Scope) Clone() Scope {
	out := Scope{
		ID:            s.ID,
		ScopeName:     s.ScopeName,
		ScopeOverview: s.ScopeOverview,
		Deliverables:  cloneStrings(s.Deliverables),
		Assumptions:   cloneStrings(s.Assumptions),
		Subtotal:      s.Subtotal,
		Extra:         cloneExtra(s.Extra),
		KeyOrder:      cloneOrder(s.KeyOrder),
	}
	if s.Roles != nil {
		out.Roles = make([]Role, len(s.Roles))
		for i := range s.Roles {
			out.Roles[i] = s.Roles[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the role.
func (r Role) Clone() Role {
	return Role{
		Name:        r.Name,
		Description: r.Description,
		Hours:       cloneFloat(r.Hours),
		Rate:        cloneFloat(r.Rate),
		Total:       cloneFloat(r.Total),
		Extra:       cloneExtra(r.Extra),
		KeyOrder:    cloneOrder(r.KeyOrder),
	}
}

// Clone returns a deep copy of the timeline.
func (t *Timeline) Clone() *Timeline {
	out := &Timeline{
		Duration: t.Duration,
		Extra:    cloneExtra(t.Extra),
		KeyOrder: cloneOrder(t.KeyOrder),
	}
	if t.Phases != nil {
		out.Phases = make([]Phase, len(t.Phases))
		for i, p := range t.Phases {
			out.Phases[i] = Phase{
				Name:         p.Name,
				Duration:     p.Duration,
				Deliverables: cloneStrings(p.Deliverables),
				Extra:        cloneExtra(p.Extra),
				KeyOrder:     cloneOrder(p.KeyOrder),
			}
		}
	}
	return out
}

func (d SOWDocument) MarshalJSON() ([]byte, error) {
	outcomes := d.ProjectOutcomes
	if outcomes == nil {
		outcomes = []string{}
	}
	scopes := d.Scopes
	if scopes == nil {
		scopes = []Scope{}
	}
	return marshalObject([]objectField{
		{key: "projectTitle", value: d.ProjectTitle},
		{key: "clientName", value: d.ClientName},
		{key: "projectOverview", value: d.ProjectOverview},
		{key: "projectOutcomes", value: outcomes},
		{key: "scopes", value: scopes},
		{key: "budgetNote", value: d.BudgetNote, omit: d.BudgetNote == nil},
		{key: "timeline", value: d.Timeline, omit: d.Timeline == nil},
	}, d.Extra, d.KeyOrder)
}

func (d *SOWDocument) UnmarshalJSON(data []byte) error {
	obj, err := splitObject(data, documentKeys...)
	if err != nil {
		return err
	}
	raw := obj.raw
	var out SOWDocument

	if out.ProjectTitle, err = stringMember(raw, "projectTitle"); err != nil {
		return err
	}
	if out.ClientName, err = stringMember(raw, "clientName"); err != nil {
		return err
	}
	if out.ProjectOverview, err = stringMember(raw, "projectOverview"); err != nil {
		return err
	}
	if out.ProjectOutcomes, err = stringListMember(raw, "projectOutcomes"); err != nil {
		return err
	}
	if out.BudgetNote, err = optionalStringMember(raw, "budgetNote"); err != nil {
		return err
	}
	if v, ok := raw["scopes"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &out.Scopes); err != nil {
			return fmt.Errorf("scopes: %w", err)
		}
	}
	if v, ok := raw["timeline"]; ok {
		var tl Timeline
		if isNull(v) || json.Unmarshal(v, &tl) != nil {
			obj.keep("timeline")
		} else {
			out.Timeline = &tl
		}
	}
	if out.BudgetNote == nil {
		obj.keep("budgetNote")
	}
	out.Extra = obj.extra
	out.KeyOrder = obj.order

	*d = out
	return nil
}

func (s Scope) MarshalJSON() ([]byte, error) {
	deliverables := s.Deliverables
	if deliverables == nil {
		deliverables = []string{}
	}
	assumptions := s.Assumptions
	if assumptions == nil {
		assumptions = []string{}
	}
	roles := s.Roles
	if roles == nil {
		roles = []Role{}
	}
	return marshalObject([]objectField{
		{key: "id", value: s.ID, omit: s.ID == ""},
		{key: "scopeName", value: s.ScopeName},
		{key: "scopeOverview", value: s.ScopeOverview},
		{key: "deliverables", value: deliverables},
		{key: "assumptions", value: assumptions},
		{key: "roles", value: roles},
		{key: "subtotal", value: s.Subtotal},
	}, s.Extra, s.KeyOrder)
}

func (s *Scope) UnmarshalJSON(data []byte) error {
	obj, err := splitObject(data, scopeKeys...)
	if err != nil {
		return err
	}
	raw := obj.raw
	out := Scope{Extra: obj.extra, KeyOrder: obj.order}

	if out.ID, err = stringMember(raw, "id"); err != nil {
		return err
	}
	if out.ScopeName, err = stringMember(raw, "scopeName"); err != nil {
		return err
	}
	if out.ScopeOverview, err = stringMember(raw, "scopeOverview"); err != nil {
		return err
	}
	if out.Deliverables, err = stringListMember(raw, "deliverables"); err != nil {
		return err
	}
	if out.Assumptions, err = stringListMember(raw, "assumptions"); err != nil {
		return err
	}
	if v, ok := raw["roles"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &out.Roles); err != nil {
			return fmt.Errorf("roles: %w", err)
		}
	}
	out.Subtotal = Float64FromPtrWithDefault(0, numberMember(raw, "subtotal"))

	*s = out
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return marshalObject([]objectField{
		{key: "name", value: r.Name},
		{key: "description", value: r.Description},
		{key: "hours", value: r.Hours, omit: r.Hours == nil},
		{key: "rate", value: r.Rate, omit: r.Rate == nil},
		{key: "total", value: r.Total, omit: r.Total == nil},
	}, r.Extra, r.KeyOrder)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	obj, err := splitObject(data, roleKeys...)
	if err != nil {
		return err
	}
	raw := obj.raw

	out := Role{
		Hours: numberMember(raw, "hours"),
		Rate:  numberMember(raw, "rate"),
		Total: numberMember(raw, "total"),
	}
	if out.Name, err = stringMember(raw, "name"); err != nil {
		return err
	}
	if out.Description, err = stringMember(raw, "description"); err != nil {
		return err
	}
	// The reconciler treats these as missing; the text itself is kept until
	// a repaired value replaces it.
	obj.keepUnparsed("hours", "rate", "total")
	out.Extra = obj.extra
	out.KeyOrder = obj.order

	*r = out
	return nil
}

func (t Timeline) MarshalJSON() ([]byte, error) {
	return marshalObject([]objectField{
		{key: "duration", value: t.Duration, omit: t.Duration == "" && !hasKey(t.KeyOrder, "duration")},
		{key: "phases", value: t.Phases, omit: t.Phases == nil},
	}, t.Extra, t.KeyOrder)
}

func (t *Timeline) UnmarshalJSON(data []byte) error {
	obj, err := splitObject(data, timelineKeys...)
	if err != nil {
		return err
	}
	out := Timeline{KeyOrder: obj.order}
	if out.Duration, err = stringMember(obj.raw, "duration"); err != nil {
		return err
	}
	if v, ok := obj.raw["phases"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &out.Phases); err != nil {
			return fmt.Errorf("phases: %w", err)
		}
	}
	out.Extra = obj.extra

	*t = out
	return nil
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return marshalObject([]objectField{
		{key: "name", value: p.Name, omit: p.Name == "" && !hasKey(p.KeyOrder, "name")},
		{key: "duration", value: p.Duration, omit: p.Duration == "" && !hasKey(p.KeyOrder, "duration")},
		{key: "deliverables", value: p.Deliverables, omit: p.Deliverables == nil},
	}, p.Extra, p.KeyOrder)
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	obj, err := splitObject(data, phaseKeys...)
	if err != nil {
		return err
	}
	out := Phase{Extra: obj.extra, KeyOrder: obj.order}
	if out.Name, err = stringMember(obj.raw, "name"); err != nil {
		return err
	}
	if out.Duration, err = stringMember(obj.raw, "duration"); err != nil {
		return err
	}
	if out.Deliverables, err = stringListMember(obj.raw, "deliverables"); err != nil {
		return err
	}

	*p = out
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
