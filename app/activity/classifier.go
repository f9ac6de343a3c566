package activity

import (
	"strings"
)

type classificationRule struct {
	keyword string
	action  Action
}

// classificationRules is an explicit priority table: rules are tried top
// to bottom and the first keyword found wins. Several keywords can occur
// in one description ("... updated ... and logged ..."), so the order
// here is part of the classification contract.
var classificationRules = []classificationRule{
	{"commented", ActionCommented},
	{"updated", ActionUpdated},
	{"changed", ActionChanged},
	{"added", ActionAdded},
	{"removed", ActionRemoved},
	{"started progress", ActionStartedProgress},
	{"stopped progress", ActionStoppedProgress},
	{"attached", ActionAttached},
	{"logged", ActionLogged},
	{"linked", ActionLinked},
	{"resolved", ActionResolved},
	{"created", ActionCreated},
	{"reduced", ActionReduced},
	{"reopened", ActionReopened},
}

// Classify maps a cleaned activity description to an Action by keyword
// lookup. Matching is case-insensitive and whole-word: the text is
// padded with spaces so keywords at the string edges still match. Total
// over all inputs; an unmatched description yields ActionUnknown.
func Classify(text string) Action {
	padded := " " + strings.ToLower(text) + " "

	for _, rule := range classificationRules {
		if strings.Contains(padded, " "+rule.keyword+" ") {
			return rule.action
		}
	}

	return ActionUnknown
}
