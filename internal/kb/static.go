package kb

import (
	"context"
	"strings"
)

// StaticLookup serves canned solutions for offline demos.
type StaticLookup struct{}

var cannedSolutions = []struct {
	keywords []string
	solution string
}{
	{
		keywords: []string{"internet", "network", "speed", "slow", "router"},
		solution: "Restart the router, verify cabling, and run a line diagnostic. If the fault persists a technician visit is scheduled.",
	},
	{
		keywords: []string{"bill", "charge", "payment", "refund", "invoice"},
		solution: "Review the latest invoice against the subscribed plan; disputed charges are reversed within two billing cycles.",
	},
	{
		keywords: []string{"connection", "install", "activation"},
		solution: "New connections are activated within five working days of document verification.",
	},
	{
		keywords: []string{"bundle", "offer", "plan"},
		solution: "Current bundle offers are listed in the account portal; plan changes take effect from the next billing cycle.",
	},
}

func (StaticLookup) Lookup(ctx context.Context, text string) (string, error) {
	t := strings.ToLower(text)
	for _, entry := range cannedSolutions {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.solution, nil
			}
		}
	}
	return "", ErrNoSolution
}
