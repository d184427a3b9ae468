package domain

// Pricing event types. The payload for each is the full aggregate snapshot at
// mutation time; deletion events carry the last state before removal.
const (
	EventTypeRuleCreated = "pricing.rule.created"
	EventTypeRuleUpdated = "pricing.rule.updated"
	EventTypeRuleDeleted = "pricing.rule.deleted"

	EventTypeOverrideCreated = "price.override.created"
	EventTypeOverrideUpdated = "price.override.updated"
	EventTypeOverrideDeleted = "price.override.deleted"
)
