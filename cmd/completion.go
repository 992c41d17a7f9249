package cmd

import (
	"flag"

	"github.com/etnz/captable/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the whole command line, for the
// global flags in global.
func Completion(global *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(global),
	}
	for _, g := range groups {
		for _, cmd := range g.commands {
			f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
			cmd.SetFlags(f)
			root.Sub[cmd.Name()] = &complete.Command{
				Flags: flagPredictors(f),
				Args:  argsPredictor(cmd.Name()),
			}
		}
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		var p complete.Predictor = predict.Something
		switch fl.Name {
		case "file":
			p = predict.Files("*.jsonl")
		case "category":
			p = predict.Set{"founder", "investor", "employee"}
		case "id":
			p = complete.PredictFunc(shareholderIDs)
		case "edit", "round":
			p = complete.PredictFunc(roundIDs)
		default:
			if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
				p = predict.Nothing
			}
		}
		flags[fl.Name] = p
	})
	return flags
}

func argsPredictor(name string) complete.Predictor {
	switch name {
	case "remove-holder":
		return complete.PredictFunc(shareholderIDs)
	case "revert":
		return complete.PredictFunc(roundIDs)
	case "topic":
		return complete.PredictFunc(func(string) []string {
			topics, _ := docs.GetAllTopics()
			return topics
		})
	default:
		return predict.Nothing
	}
}

func shareholderIDs(string) []string {
	t, err := DecodeTable()
	if err != nil {
		return nil
	}
	var ids []string
	for _, sh := range t.Shareholders() {
		ids = append(ids, sh.ID)
	}
	return ids
}

func roundIDs(string) []string {
	t, err := DecodeTable()
	if err != nil {
		return nil
	}
	// only the latest round can be changed.
	if r, ok := t.LatestRound(); ok {
		return []string{r.ID}
	}
	return nil
}
