package services

import "fmt"

// Logical tables of the tenant cascade. Sessions are split per member
// population because they are deleted in separate steps.
const (
	tableCompanyPermissions  = "company_permissions"
	tableCompanyUserSessions = "company_user_sessions"
	tableCompanyUserRoles    = "company_user_roles"
	tableCompanyUsers        = "company_users"
	tableTaxUserSessions     = "tax_user_sessions"
	tableUserRoles           = "user_roles"
	tableTaxUsers            = "tax_users"
	tableCustomModules       = "custom_modules"
	tableCustomPlans         = "custom_plans"
	tableAddresses           = "addresses"
	tableCompanies           = "companies"
)

// dependencyEdge declares that Child holds a reference to Parent, so
// Child rows must be deleted before Parent rows.
type dependencyEdge struct {
	Child  string
	Parent string
}

// tenantCascadeEdges is the single declaration of the cascade's
// dependency graph. The delete order is derived from it, so adding a
// dependent table means adding an edge, not re-hand-ordering steps.
var tenantCascadeEdges = []dependencyEdge{
	{tableCompanyPermissions, tableTaxUsers},
	{tableCompanyUserSessions, tableCompanyUsers},
	{tableCompanyUserRoles, tableCompanyUsers},
	{tableCompanyUsers, tableCompanies},
	{tableTaxUserSessions, tableTaxUsers},
	{tableUserRoles, tableTaxUsers},
	{tableTaxUsers, tableCompanies},
	{tableCustomModules, tableCustomPlans},
	{tableCustomPlans, tableCompanies},
	{tableAddresses, tableCompanies},
}

// deriveDeleteOrder topologically sorts the dependency graph so that
// every table appears before any table it references. Declaration order
// breaks ties, keeping the order deterministic.
func deriveDeleteOrder(edges []dependencyEdge) ([]string, error) {
	// dependents[p] = number of tables still referencing p
	dependents := make(map[string]int)
	var nodes []string
	seen := make(map[string]bool)

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			nodes = append(nodes, name)
		}
	}
	for _, e := range edges {
		add(e.Child)
		add(e.Parent)
		dependents[e.Parent]++
	}

	var order []string
	removed := make(map[string]bool)
	for len(order) < len(nodes) {
		progressed := false
		for _, n := range nodes {
			if removed[n] || dependents[n] > 0 {
				continue
			}
			order = append(order, n)
			removed[n] = true
			progressed = true
			for _, e := range edges {
				if e.Child == n {
					dependents[e.Parent]--
				}
			}
		}
		if !progressed {
			return nil, fmt.Errorf("dependency cycle in cascade graph")
		}
	}
	return order, nil
}
