package events

// Repository is the outbound sink for analytics events. Implementations must
// tolerate being called from fire-and-forget goroutines.
type Repository interface {
	StoreInteractionEvent(event *InteractionEvent) error
	StoreTriggerEvent(event *TriggerEvent) error
	StoreCTAClickEvent(event *CTAClickEvent) error
}
