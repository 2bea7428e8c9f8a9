package rules

// Catalog returns the full rule catalog in declaration order: licensing,
// identity, security, compliance, governance, agents. Declaration order
// is part of the output contract, it breaks ties between records of equal
// priority within an area.
func Catalog() []Rule {
	var catalog []Rule
	catalog = append(catalog, licensingRules()...)
	catalog = append(catalog, identityRules()...)
	catalog = append(catalog, securityRules()...)
	catalog = append(catalog, complianceRules()...)
	catalog = append(catalog, governanceRules()...)
	catalog = append(catalog, agentsRules()...)
	return catalog
}
