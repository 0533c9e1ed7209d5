package domain

// ActionBlock is the only action rulegen emits.
const ActionBlock = "block"

// DefaultPriority is applied to every compiled rule; there is no per-domain tiering.
const DefaultPriority = 1

// DomainPatternPrefix anchors a pattern at a domain boundary so the rule
// matches the domain and all of its subdomains.
const DomainPatternPrefix = "||"

// BlockedResourceTypes is the fixed, ordered list of resource types every rule covers.
var BlockedResourceTypes = []string{
	"main_frame",
	"sub_frame",
	"stylesheet",
	"script",
	"image",
	"font",
	"xmlhttprequest",
	"ping",
	"media",
	"websocket",
	"other",
}

// Rule is one declarativeNetRequest rule. Field order is the serialization order.
type Rule struct {
	ID        int           `json:"id"`
	Priority  int           `json:"priority"`
	Action    RuleAction    `json:"action"`
	Condition RuleCondition `json:"condition"`
}

// RuleAction is what the engine does when the condition matches.
type RuleAction struct {
	Type string `json:"type"`
}

// RuleCondition selects the requests a rule applies to.
// DomainPattern is serialized as urlFilter, the key the engine reads.
type RuleCondition struct {
	DomainPattern string   `json:"urlFilter"`
	ResourceTypes []string `json:"resourceTypes"`
}

// RuleDocument is the ordered rule list handed to the output writer.
type RuleDocument []Rule
