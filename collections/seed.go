package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const seedDateLayout = "02/01/2006"

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	name        string
	companyName string
	country     string
	region      string
	email       string
	category    string
	status      string
}

type callDef struct {
	name        string
	fundingBody string
	year        int
	deadline    string // dd/mm/yyyy
	budget      float64
	eligibility string
}

// financialsDef mirrors the per-client financial record stored on a
// proposal. Amounts are European-notation strings; total and fee carry
// the derived values the calculator would produce.
type financialsDef struct {
	grant        string
	loan         string
	equity       string
	grantFee     string
	loanFee      string
	equityFee    string
	totalFunding string
	fee          string
}

type proposalDef struct {
	title            string
	callName         string
	primaryClients   []string // customer names
	secondaryClients []string
	financials       map[string]financialsDef // keyed by customer name
	budgetFunding    float64
	fee              float64
	status           string
}

type serviceDef struct {
	title           string
	primaryClient   string
	secondaryClient string
	serviceType     string
	fee             float64
	status          string
}

// Seed populates the collections with a realistic consulting-firm
// starting set: clients, funding calls, proposals in various states and
// standalone services. It is safe to call on every startup because it
// returns early if any customer records already exist. Projects are not
// seeded here; derivation creates them from the Granted sources.
func Seed(app *pocketbase.PocketBase) error {
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	existing, err := app.FindAllRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: customers collection is empty - inserting seed data ...")

	callsCol, err := app.FindCollectionByNameOrId("calls")
	if err != nil {
		return fmt.Errorf("seed: could not find calls collection: %w", err)
	}
	proposalsCol, err := app.FindCollectionByNameOrId("proposals")
	if err != nil {
		return fmt.Errorf("seed: could not find proposals collection: %w", err)
	}
	servicesCol, err := app.FindCollectionByNameOrId("other_services")
	if err != nil {
		return fmt.Errorf("seed: could not find other_services collection: %w", err)
	}
	settingsCol, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find company_settings collection: %w", err)
	}

	// ── helper: create customer, remembered by name ──────────────────
	customerIDs := make(map[string]string)
	createCustomer := func(d customerDef) error {
		r := core.NewRecord(customersCol)
		r.Set("name", d.name)
		r.Set("company_name", d.companyName)
		r.Set("country", d.country)
		r.Set("region", d.region)
		r.Set("email", d.email)
		r.Set("category", d.category)
		r.Set("status", d.status)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save customer %q: %w", d.name, err)
		}
		customerIDs[d.name] = r.Id
		return nil
	}

	// ── helper: create funding call, remembered by name ──────────────
	callIDs := make(map[string]string)
	createCall := func(d callDef) error {
		r := core.NewRecord(callsCol)
		r.Set("name", d.name)
		r.Set("funding_body", d.fundingBody)
		r.Set("year", d.year)
		r.Set("budget", d.budget)
		r.Set("eligibility", d.eligibility)
		if d.deadline != "" {
			deadline, err := time.Parse(seedDateLayout, d.deadline)
			if err != nil {
				return fmt.Errorf("seed: bad deadline %q on call %q: %w", d.deadline, d.name, err)
			}
			r.Set("deadline", deadline)
		}
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save call %q: %w", d.name, err)
		}
		callIDs[d.name] = r.Id
		return nil
	}

	// ── helper: create proposal with derived financials ──────────────
	createProposal := func(d proposalDef) error {
		resolve := func(names []string) []string {
			ids := make([]string, 0, len(names))
			for _, n := range names {
				ids = append(ids, customerIDs[n])
			}
			return ids
		}

		financials := make(map[string]map[string]string, len(d.financials))
		for name, f := range d.financials {
			financials[customerIDs[name]] = map[string]string{
				"budget":        "",
				"grant":         f.grant,
				"loan":          f.loan,
				"equity":        f.equity,
				"grant_fee":     f.grantFee,
				"loan_fee":      f.loanFee,
				"equity_fee":    f.equityFee,
				"total_funding": f.totalFunding,
				"fee":           f.fee,
			}
		}

		r := core.NewRecord(proposalsCol)
		r.Set("title", d.title)
		if d.callName != "" {
			r.Set("call", callIDs[d.callName])
		}
		r.Set("primary_clients", resolve(d.primaryClients))
		r.Set("secondary_clients", resolve(d.secondaryClients))
		r.Set("client_financials", financials)
		r.Set("budget_funding", d.budgetFunding)
		r.Set("fee", d.fee)
		r.Set("status", d.status)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save proposal %q: %w", d.title, err)
		}
		return nil
	}

	// ── helper: create standalone service ────────────────────────────
	createService := func(d serviceDef) error {
		r := core.NewRecord(servicesCol)
		r.Set("title", d.title)
		r.Set("primary_client", customerIDs[d.primaryClient])
		if d.secondaryClient != "" {
			r.Set("secondary_client", customerIDs[d.secondaryClient])
		}
		r.Set("service_type", d.serviceType)
		r.Set("fee", d.fee)
		r.Set("status", d.status)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save service %q: %w", d.title, err)
		}
		return nil
	}

	// ── Customers ────────────────────────────────────────────────────
	for _, d := range []customerDef{
		{name: "Bioverde Energia SL", companyName: "Bioverde Energia SL", country: "Spain", region: "Galicia", email: "admin@bioverde-energia.es", category: "Contractor", status: "Active"},
		{name: "Atlantica Composites", companyName: "Atlantica Composites SA", country: "Spain", region: "Basque Country", email: "finance@atlantica-composites.com", category: "Contractor", status: "Active"},
		{name: "Nortek Robotics", companyName: "Nortek Robotics SL", country: "Spain", region: "Navarre", email: "accounts@nortek-robotics.es", category: "Contractor", status: "Active"},
		{name: "Instituto Mar Azul", companyName: "Fundacion Instituto Mar Azul", country: "Spain", region: "Andalusia", email: "proyectos@marazul.org", category: "Secondary", status: "Active"},
		{name: "Helios Packaging", companyName: "Helios Packaging SL", country: "Portugal", region: "Norte", email: "geral@heliospack.pt", category: "Secondary", status: "Active"},
		{name: "Vertia Foods", companyName: "Vertia Foods SL", country: "Spain", region: "Murcia", email: "direccion@vertiafoods.es", category: "Contractor", status: "Prospect"},
	} {
		if err := createCustomer(d); err != nil {
			return err
		}
	}

	// ── Funding calls ────────────────────────────────────────────────
	for _, d := range []callDef{
		{name: "PERTE Agroalimentario 2026", fundingBody: "Ministerio de Industria", year: 2026, deadline: "30/10/2026", budget: 510000000, eligibility: "Industrial SMEs and consortia in the agri-food chain"},
		{name: "Horizon Europe EIC Accelerator", fundingBody: "European Commission", year: 2026, deadline: "12/03/2026", budget: 675000000, eligibility: "Single SMEs with TRL 5+ deep-tech innovations"},
		{name: "CDTI PID Individual", fundingBody: "CDTI", year: 2026, deadline: "31/12/2026", budget: 0, eligibility: "Spanish companies with industrial R&D projects; open all year"},
	} {
		if err := createCall(d); err != nil {
			return err
		}
	}

	// ── Proposals ────────────────────────────────────────────────────
	for _, d := range []proposalDef{
		{
			title:          "Biogas valorisation plant upgrade",
			callName:       "PERTE Agroalimentario 2026",
			primaryClients: []string{"Bioverde Energia SL"},
			financials: map[string]financialsDef{
				"Bioverde Energia SL": {grant: "480.000,00", loan: "320.000,00", grantFee: "6", loanFee: "2,5", totalFunding: "800.000,00", fee: "36.800,00"},
			},
			budgetFunding: 800000,
			fee:           36800,
			status:        "Granted",
		},
		{
			title:            "Recyclable composite hulls for coastal fishing fleet",
			callName:         "Horizon Europe EIC Accelerator",
			primaryClients:   []string{"Atlantica Composites"},
			secondaryClients: []string{"Instituto Mar Azul"},
			financials: map[string]financialsDef{
				"Atlantica Composites": {grant: "1.250.000,00", equity: "750.000,00", grantFee: "5", equityFee: "3", totalFunding: "2.000.000,00", fee: "85.000,00"},
				"Instituto Mar Azul":   {grant: "180.000,00", grantFee: "4", totalFunding: "180.000,00", fee: "7.200,00"},
			},
			budgetFunding: 2180000,
			fee:           92200,
			status:        "Pending",
		},
		{
			title:          "Flexible grippers for delicate produce lines",
			callName:       "CDTI PID Individual",
			primaryClients: []string{"Nortek Robotics"},
			financials: map[string]financialsDef{
				"Nortek Robotics": {grant: "95.000,00", loan: "240.000,00", grantFee: "7", loanFee: "2", totalFunding: "335.000,00", fee: "11.450,00"},
			},
			budgetFunding: 335000,
			fee:           11450,
			status:        "In Progress",
		},
	} {
		if err := createProposal(d); err != nil {
			return err
		}
	}

	// ── Standalone services ──────────────────────────────────────────
	for _, d := range []serviceDef{
		{title: "R&D tax deduction report FY2025", primaryClient: "Nortek Robotics", serviceType: "Tax certification", fee: 6500, status: "Granted"},
		{title: "Grant portfolio audit", primaryClient: "Vertia Foods", serviceType: "Advisory", fee: 4200, status: "Offer sent"},
	} {
		if err := createService(d); err != nil {
			return err
		}
	}

	// ── Company settings ─────────────────────────────────────────────
	settings := core.NewRecord(settingsCol)
	settings.Set("company_name", "Meridia Consulting SL")
	settings.Set("address", "Calle Serrano 41, 3a planta, 28001 Madrid")
	settings.Set("tax_id", "B-87654321")
	settings.Set("billing_email", "facturacion@meridiaconsulting.es")
	if err := app.Save(settings); err != nil {
		return fmt.Errorf("seed: save company settings: %w", err)
	}

	log.Println("seed: all seed data inserted successfully (6 customers, 3 calls, 3 proposals, 2 services)")
	return nil
}
