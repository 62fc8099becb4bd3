package store

import (
	"github.com/google/uuid"

	"ascent/internal/catalog/models"
	"ascent/pkg/domain"
)

// seedNamespace keeps question IDs stable across restarts: the ID is
// derived from the question code, so answers recorded against one process
// resolve identically in the next.
var seedNamespace = uuid.MustParse("7b1f0e52-9c1d-4a93-b6fa-5a4f2c8de1a0")

func questionID(code string) domain.QuestionID {
	return domain.QuestionID(uuid.NewSHA1(seedNamespace, []byte(code)))
}

type seedItem struct {
	code  string
	text  string
	cat   domain.QuestionCategory
	scope models.StakeholderScope
}

func phaseBlock(phase domain.PhaseID, items []seedItem) []models.Question {
	out := make([]models.Question, 0, len(items))
	for _, it := range items {
		out = append(out, models.Question{
			ID:       questionID(it.code),
			Code:     it.code,
			Text:     it.text,
			Category: it.cat,
			PhaseID:  phase,
			Scope:    it.scope,
		})
	}
	return out
}

func dim(code, text string, scope models.StakeholderScope) seedItem {
	return seedItem{code: code, text: text, cat: domain.CategoryDimension, scope: scope}
}

func eir(code, text string, scope models.StakeholderScope) seedItem {
	return seedItem{code: code, text: text, cat: domain.CategoryEiR, scope: scope}
}

// seedQuestions is the built-in catalog, phase by phase. Dimension items
// probe growth and value creation; EiR ("elephant in the room") items probe
// the risks founders avoid talking about.
func seedQuestions() []models.Question {
	var qs []models.Question

	// Phase 0 (Spark): entry check-in, scored at the base scale.
	qs = append(qs, phaseBlock(0, []seedItem{
		dim("SP-D1", "We can describe the problem we are solving in one sentence.", models.ScopeFounder),
		dim("SP-D2", "We have spoken to at least five people who have this problem.", models.ScopeCustomer),
		dim("SP-D3", "We know why now is the right time for this idea.", models.ScopeFounder),
		eir("SP-E1", "We can name the assumption that kills this idea if it is wrong.", models.ScopeFounder),
		eir("SP-E2", "The founding team agrees on who decides when we disagree.", models.ScopeTeam),
		eir("SP-E3", "We know what this idea costs us personally if it fails.", models.ScopeFounder),
	})...)

	// Phase 1 (Kindle)
	qs = append(qs, phaseBlock(1, []seedItem{
		dim("KN-D1", "We have a written description of our target customer.", models.ScopeCustomer),
		dim("KN-D2", "At least one stranger has told us they would pay for this.", models.ScopeCustomer),
		dim("KN-D3", "We can demo the core of the product, even roughly.", models.ScopeFounder),
		dim("KN-D4", "We know which channel reaches our first hundred users.", models.ScopeFounder),
		eir("KN-E1", "We know which competitor would hurt us most and why we still win.", models.ScopeFounder),
		eir("KN-E2", "Every founder can state the runway in months without checking.", models.ScopeTeam),
		eir("KN-E3", "We have discussed what happens to equity if a founder leaves.", models.ScopeTeam),
		eir("KN-E4", "We know the legal or regulatory question we have been postponing.", models.ScopeFounder),
	})...)

	// Phase 2 (Forge)
	qs = append(qs, phaseBlock(2, []seedItem{
		dim("FG-D1", "Users we did not recruit personally are using the product.", models.ScopeCustomer),
		dim("FG-D2", "We measure activation and can say what last month's rate was.", models.ScopeFounder),
		dim("FG-D3", "Our onboarding works without a founder walking the user through it.", models.ScopeCustomer),
		dim("FG-D4", "We have shipped something every week for the last two months.", models.ScopeTeam),
		eir("FG-E1", "We know why the users who left us left.", models.ScopeCustomer),
		eir("FG-E2", "The team has said no to a feature request from a loud customer.", models.ScopeTeam),
		eir("FG-E3", "A key-person dependency in the team has been named and mitigated.", models.ScopeTeam),
		eir("FG-E4", "We track the one metric we would not want an investor to see.", models.ScopeFounder),
	})...)

	// Phase 3 (Traction)
	qs = append(qs, phaseBlock(3, []seedItem{
		dim("TR-D1", "Revenue or usage has grown month over month for a quarter.", models.ScopeFounder),
		dim("TR-D2", "We can state our customer acquisition cost and payback period.", models.ScopeFounder),
		dim("TR-D3", "A repeatable sales or growth motion exists beyond founder hustle.", models.ScopeTeam),
		dim("TR-D4", "Customers renew or return without us prompting them.", models.ScopeCustomer),
		eir("TR-E1", "We know how much of our growth is paid versus organic.", models.ScopeFounder),
		eir("TR-E2", "Churn is measured, segmented, and owned by a named person.", models.ScopeTeam),
		eir("TR-E3", "Our unit economics survive without the founder discount.", models.ScopeFounder),
		eir("TR-E4", "We have a plan for the platform or channel we depend on changing its rules.", models.ScopeFounder),
	})...)

	// Phase 4 (Ascent)
	qs = append(qs, phaseBlock(4, []seedItem{
		dim("AS-D1", "Hiring happens against a plan, not against emergencies.", models.ScopeTeam),
		dim("AS-D2", "A new hire can become productive without founder hand-holding.", models.ScopeTeam),
		dim("AS-D3", "We forecast revenue and have been within 20% for two quarters.", models.ScopeFounder),
		dim("AS-D4", "Our second product line or segment shows early demand.", models.ScopeCustomer),
		eir("AS-E1", "Middle management exists and founders have actually delegated.", models.ScopeTeam),
		eir("AS-E2", "We know which current top performer does not scale to the next stage.", models.ScopeTeam),
		eir("AS-E3", "Compliance, security, and data obligations have an owner and a budget.", models.ScopeFounder),
		eir("AS-E4", "The board hears bad news from us before they hear it elsewhere.", models.ScopeInvestor),
	})...)

	// Phase 5 (Soar)
	qs = append(qs, phaseBlock(5, []seedItem{
		dim("SO-D1", "We win competitive deals on value, not on price.", models.ScopeCustomer),
		dim("SO-D2", "International or adjacent-market expansion has a tested playbook.", models.ScopeFounder),
		dim("SO-D3", "Gross margin is improving as we grow, not eroding.", models.ScopeFounder),
		dim("SO-D4", "The brand brings us inbound demand we did not buy.", models.ScopeCustomer),
		eir("SO-E1", "We know which acquisition rumor about us is actually true.", models.ScopeInvestor),
		eir("SO-E2", "A culture problem surfaced by the employee survey has been acted on.", models.ScopeTeam),
		eir("SO-E3", "Our largest customer could leave and we would survive the year.", models.ScopeFounder),
		eir("SO-E4", "Technical debt is scheduled and paid, not just lamented.", models.ScopeTeam),
	})...)

	// Phase 6 (Titan)
	qs = append(qs, phaseBlock(6, []seedItem{
		dim("TI-D1", "Multiple product lines each clear their own profitability bar.", models.ScopeFounder),
		dim("TI-D2", "Leadership bench strength covers every critical function twice.", models.ScopeTeam),
		dim("TI-D3", "Capital markets options (IPO, M&A, debt) are genuinely open to us.", models.ScopeInvestor),
		dim("TI-D4", "We set the category narrative; competitors position against us.", models.ScopeFounder),
		eir("TI-E1", "We know which business unit we should shut down and why we have not.", models.ScopeFounder),
		eir("TI-E2", "Succession for the CEO and founders is written down.", models.ScopeInvestor),
		eir("TI-E3", "Regulatory exposure across our markets is mapped and priced.", models.ScopeFounder),
		eir("TI-E4", "The innovation pipeline would survive the founders leaving.", models.ScopeTeam),
	})...)

	// Phase 7 (Unicorn)
	qs = append(qs, phaseBlock(7, []seedItem{
		dim("UN-D1", "Our ecosystem (partners, developers, integrators) grows without us funding it.", models.ScopeFounder),
		dim("UN-D2", "We could acquire and integrate a competitor without breaking stride.", models.ScopeInvestor),
		dim("UN-D3", "Talent joins us to learn how this is done at the highest level.", models.ScopeTeam),
		dim("UN-D4", "The mission still explains every major decision we made this year.", models.ScopeFounder),
		eir("UN-E1", "We know what would make us the cautionary tale of our category.", models.ScopeFounder),
		eir("UN-E2", "Antitrust and market-power scrutiny has a prepared, honest answer.", models.ScopeInvestor),
		eir("UN-E3", "The org still hears dissent from five levels below the CEO.", models.ScopeTeam),
		eir("UN-E4", "We are disrupting our own cash cow before someone else does.", models.ScopeFounder),
	})...)

	return qs
}
