package agent

import (
	"context"
	"fmt"

	"github.com/etnz/captable"
	"github.com/etnz/captable/docs"
	"github.com/etnz/captable/renderer"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// TableSource loads the cap table the tools work on.
type TableSource func() (*captable.Table, error)

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is a founder or an investor of a company. They come to understand who owns the company,
			who controls its votes, and what a future funding round would change.

			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Never pretend that a round was committed: the experts can only simulate.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the expert in charge of reading the cap table and
// simulating rounds on it.
func NewAnalyst(model string, load TableSource) *Expert {
	lib := Tools(load)
	return &Expert{
		Name: "Analyst",
		Description: `This is the cap table Analyst. It reads the company's cap table, its history of funding rounds,
		and can simulate a new round to compute its valuation, its share price and the dilution of every shareholder.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
				You are an analyst in charge of the company's capitalization table.
				You know how to use the Tools to extract ownership, voting power and round economics.
				You are part of a team of experts, pardon their approximative language and figure out what they meant.

				Always use the tools to get figures, never compute ownership or share counts yourself.
				Here is the user documentation:

				` + docs.Index()),
		},
		Library: NewLibrary(lib),
	}
}

// Tools returns the functions that read the cap table.
func Tools(load TableSource) []Function {
	return []Function{
		capTableFunc(load),
		roundHistoryFunc(load),
		simulateRoundFunc(load),
		documentationFunc(),
	}
}

func capTableFunc(load TableSource) *Func {
	const name = "cap_table"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Returns the current cap table: every shareholder with their class A and class B shares, ownership and voting percentages.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted cap table.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := load()
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, renderer.SnapshotMarkdown(t.Snapshot()))
		},
	}
}

func roundHistoryFunc(load TableSource) *Func {
	const name = "round_history"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Returns the committed funding rounds, oldest first, and the details of each round's investors.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted list of rounds.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := load()
			if err != nil {
				return errorResponse(id, name, err)
			}
			rounds := t.Rounds()
			out := renderer.HistoryMarkdown(rounds)
			for _, r := range rounds {
				out += "\n" + renderer.RoundMarkdown(r)
			}
			return outputResponse(id, name, out)
		},
	}
}

func simulateRoundFunc(load TableSource) *Func {
	const name = "simulate_round"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Simulates a funding round on the current cap table without committing it.
			It returns the round economics and the cap table after the round.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name": {Type: genai.TypeString, Description: "The round name, e.g. Seed or Series A."},
					"model": {
						Type:        genai.TypeString,
						Enum:        []string{"preMoney", "percentage"},
						Description: "The valuation model, preMoney by default.",
					},
					"pre_money":  {Type: genai.TypeNumber, Description: "The pre-money valuation, for the preMoney model."},
					"percentage": {Type: genai.TypeNumber, Description: "The percentage acquired by the new investors (0-100), for the percentage model."},
					"investors": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"name":   {Type: genai.TypeString},
								"amount": {Type: genai.TypeNumber},
							},
							Required: []string{"name", "amount"},
						},
					},
					"pool_increase": {Type: genai.TypeInteger, Description: "Number of shares added to the Employee Option Pool."},
				},
				Required: []string{"name", "investors"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted round preview.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := load()
			if err != nil {
				return errorResponse(id, name, err)
			}
			d, err := parseDraft(args, t.Currency())
			if err != nil {
				return errorResponse(id, name, err)
			}
			out := renderer.PreviewMarkdown(t.Preview(d))
			if err := captable.ValidateDraft(t.Shareholders(), d, t.Currency()); err != nil {
				out += fmt.Sprintf("\nThis round could not be committed: %v\n", err)
			}
			return outputResponse(id, name, out)
		},
	}
}

func documentationFunc() *Func {
	const name = "documentation"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Returns a topic of the user documentation. The list of topics is in the documentation index.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic": {Type: genai.TypeString, Description: "The topic name, or * for all of them."},
				},
				Required: []string{"topic"},
			},
			Response: &genai.Schema{Type: genai.TypeString},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			topic, err := stringArg(args, "topic")
			if err != nil {
				return errorResponse(id, name, err)
			}
			content, err := docs.GetTopic(topic)
			if err != nil {
				return errorResponse(id, name, err)
			}
			return outputResponse(id, name, content)
		},
	}
}

// parseDraft builds a round draft from the arguments of simulate_round.
func parseDraft(args map[string]any, currency string) (captable.RoundDraft, error) {
	var d captable.RoundDraft
	var err error
	if d.Name, err = stringArg(args, "name"); err != nil {
		return d, err
	}
	if m, ok := args["model"].(string); ok && m != "" {
		if d.Model, err = captable.ParseValuationModel(m); err != nil {
			return d, err
		}
	}
	switch d.Model {
	case captable.PreMoney:
		pre, err := numberArg(args, "pre_money")
		if err != nil {
			return d, err
		}
		d.PreMoney = captable.M(pre, currency)
	case captable.Percentage:
		pct, err := numberArg(args, "percentage")
		if err != nil {
			return d, err
		}
		d.PercentageAcquired = decimal.NewFromFloat(pct)
	}
	pool, err := numberArg(args, "pool_increase")
	if err != nil {
		return d, err
	}
	d.OptionPoolIncrease = captable.Shares(pool)

	list, ok := args["investors"].([]any)
	if !ok {
		return d, fmt.Errorf("argument %q is not a list as expected but %T", "investors", args["investors"])
	}
	for i, item := range list {
		fields, ok := item.(map[string]any)
		if !ok {
			return d, fmt.Errorf("investor #%d is not an object but %T", i+1, item)
		}
		inv, err := stringArg(fields, "name")
		if err != nil {
			return d, fmt.Errorf("investor #%d: %w", i+1, err)
		}
		amount, err := numberArg(fields, "amount")
		if err != nil {
			return d, fmt.Errorf("investor #%d: %w", i+1, err)
		}
		d.Investors = append(d.Investors, captable.DraftInvestor{
			TempID: fmt.Sprintf("investor-%d", i+1),
			Name:   inv,
			Amount: captable.M(amount, currency),
		})
	}
	return d, nil
}
