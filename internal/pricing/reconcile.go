package pricing

import (
	"math"

	"github.com/bashhh89/thecustom/internal/domain"
)

// RepairKind identifies what the reconciler changed on a role.
type RepairKind string

const (
	RepairCatalogRate  RepairKind = "catalog_rate"
	RepairFallbackRate RepairKind = "fallback_rate"
	RepairTotal        RepairKind = "total"
)

// Repair records a single numeric fix applied to a role.
type Repair struct {
	Scope string
	Role  string
	Kind  RepairKind
	Value float64
}

// Report summarises one reconciliation pass.
type Report struct {
	CatalogRates  int
	FallbackRates int
	FilledTotals  int
	Repairs       []Repair
}

// Changed reports whether any role value was repaired.
func (r Report) Changed() bool {
	return len(r.Repairs) > 0
}

func (r *Report) add(scope, role string, kind RepairKind, value float64) {
	switch kind {
	case RepairCatalogRate:
		r.CatalogRates++
	case RepairFallbackRate:
		r.FallbackRates++
	case RepairTotal:
		r.FilledTotals++
	}
	r.Repairs = append(r.Repairs, Repair{Scope: scope, Role: role, Kind: kind, Value: value})
}

// ReconcileDocument fills numeric gaps in doc and returns a repaired copy.
// A missing, zero or non-finite rate is replaced from the catalog, or by
// DefaultRate when the role is not on the rate card. A missing, zero or
// non-finite total, or any total whose rate was just repaired, becomes
// hours × rate. Other totals are kept as entered. Every scope subtotal is
// recomputed as the sum of its role totals.
func ReconcileDocument(doc *domain.SOWDocument, catalog *Catalog) (*domain.SOWDocument, Report) {
	return reconcile(doc, catalog, false)
}

// RecalculateDocument repairs rates like ReconcileDocument but recomputes
// every role total as hours × rate, discarding manual totals.
func RecalculateDocument(doc *domain.SOWDocument, catalog *Catalog) (*domain.SOWDocument, Report) {
	return reconcile(doc, catalog, true)
}

func reconcile(doc *domain.SOWDocument, catalog *Catalog, recomputeAll bool) (*domain.SOWDocument, Report) {
	var report Report
	if doc == nil {
		return nil, report
	}
	out := doc.Clone()
	for i := range out.Scopes {
		scope := &out.Scopes[i]
		var subtotal float64
		for j := range scope.Roles {
			role := &scope.Roles[j]
			rateRepaired := repairRate(scope.ScopeName, role, catalog, &report)
			if recomputeAll || rateRepaired || !usable(role.Total) {
				fillTotal(scope.ScopeName, role, &report)
			}
			subtotal += *role.Total
		}
		scope.Subtotal = subtotal
	}
	return out, report
}

func repairRate(scope string, role *domain.Role, catalog *Catalog, report *Report) bool {
	if usable(role.Rate) {
		return false
	}
	if rate, ok := catalog.Lookup(role.Name); ok {
		role.Rate = domain.Float(rate)
		report.add(scope, role.Name, RepairCatalogRate, rate)
		return true
	}
	role.Rate = domain.Float(DefaultRate)
	report.add(scope, role.Name, RepairFallbackRate, DefaultRate)
	return true
}

func fillTotal(scope string, role *domain.Role, report *Report) {
	total := RoleTotal(*role)
	if role.Total != nil && *role.Total == total {
		return
	}
	role.Total = domain.Float(total)
	report.add(scope, role.Name, RepairTotal, total)
}

// RoleTotal returns hours × rate for a role. Missing or non-finite values
// count as zero.
func RoleTotal(role domain.Role) float64 {
	hours := domain.Float64FromPtrWithDefault(0, role.Hours)
	rate := domain.Float64FromPtrWithDefault(0, role.Rate)
	return hours * rate
}

// usable is true for a present, finite, non-zero value.
func usable(v *float64) bool {
	if v == nil {
		return false
	}
	return *v != 0 && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
