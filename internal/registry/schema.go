// ABOUTME: Self-describing schema documentation surfaced by the get_schema tool
// ABOUTME: Domains bundle groups; "all" concatenates every domain

package registry

// DomainAll is the pseudo-domain covering every schema domain.
const DomainAll = "all"

// MethodDoc documents one callable method for the agent.
type MethodDoc struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Params      string `json:"params,omitempty"`
	Returns     string `json:"returns"`
	Example     string `json:"example,omitempty"`
}

// DomainSchema is the agent-facing documentation for one schema domain.
type DomainSchema struct {
	Domain      string      `json:"domain"`
	Description string      `json:"description"`
	Methods     []MethodDoc `json:"methods"`
}

// domainDef binds a schema domain to the groups it documents.
type domainDef struct {
	name        string
	description string
	groups      []string
}

// schemaDomains is the fixed domain layout. Order is the order "all" reports.
var schemaDomains = []domainDef{
	{
		name:        "aged_care",
		description: "Aged-care funding accounts, expenses, categories, and attachments",
		groups:      []string{"agedCareAccounts", "agedCareExpenses", "categories", "attachments"},
	},
	{
		name:        "workcover",
		description: "WorkCover claims and their expenses",
		groups:      []string{"workcoverClaims", "workcoverExpenses"},
	},
	{
		name:        "notes",
		description: "Free-text notes",
		groups:      []string{"notes"},
	},
	{
		name:        "calendar",
		description: "Appointments and reminders",
		groups:      []string{"calendar"},
	},
	{
		name:        "payments",
		description: "Payment transactions",
		groups:      []string{"payments"},
	},
	{
		name:        "suppliers",
		description: "Care and service providers",
		groups:      []string{"suppliers"},
	},
	{
		name:        "analytics",
		description: "Cross-domain spending rollups and combined search",
		groups:      []string{"analytics", "search"},
	},
}

// DomainNames returns the schema domain names, excluding the "all"
// pseudo-domain.
func DomainNames() []string {
	names := make([]string, 0, len(schemaDomains))
	for _, d := range schemaDomains {
		names = append(names, d.name)
	}
	return names
}

// AllSchemas returns the documentation of every domain in declaration order.
func (r *Registry) AllSchemas() []DomainSchema {
	schemas := make([]DomainSchema, 0, len(schemaDomains))
	for _, d := range schemaDomains {
		schemas = append(schemas, r.domainSchema(d))
	}
	return schemas
}

// Schema returns the documentation for one named domain. An unknown key
// echoes back a placeholder schema with no methods rather than failing, so
// agents can probe safely.
func (r *Registry) Schema(domain string) DomainSchema {
	for _, d := range schemaDomains {
		if d.name == domain {
			return r.domainSchema(d)
		}
	}
	return DomainSchema{
		Domain:      domain,
		Description: "Unknown domain",
		Methods:     []MethodDoc{},
	}
}

func (r *Registry) domainSchema(d domainDef) DomainSchema {
	schema := DomainSchema{
		Domain:      d.name,
		Description: d.description,
		Methods:     []MethodDoc{},
	}
	for _, name := range d.groups {
		group, ok := r.index[name]
		if !ok {
			continue
		}
		for _, op := range group.Operations {
			schema.Methods = append(schema.Methods, MethodDoc{
				Name:        op.Path,
				Description: op.Doc,
				Params:      op.Params,
				Returns:     op.Returns,
				Example:     op.Example,
			})
		}
	}
	return schema
}
