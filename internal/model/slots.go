package model

// Slot names as they appear in keys JSON (cleaned key-file headings)
const (
	SlotMessageID                  = "message_id"
	SlotMessageTemplate            = "message_template"
	SlotMessageTemplateOptional    = "message_template_optional"
	SlotIncidentType               = "incident_type"
	SlotIncidentDate               = "incident_date"
	SlotIncidentLocation           = "incident_location"
	SlotIncidentStageOfExecution   = "incident_stage_of_execution"
	SlotIncidentInstrumentID       = "incident_instrument_id"
	SlotPerpIncidentCategory       = "perp_incident_category"
	SlotPerpIndividualID           = "perp_individual_id"
	SlotPerpOrganizationID         = "perp_organization_id"
	SlotPerpOrganizationConfidence = "perp_organization_confidence"
	SlotPhysTgtID                  = "phys_tgt_id"
	SlotPhysTgtEffectOfIncident    = "phys_tgt_effect_of_incident"
	SlotHumTgtName                 = "hum_tgt_name"
	SlotHumTgtDescription          = "hum_tgt_description"
	SlotHumTgtEffectOfIncident     = "hum_tgt_effect_of_incident"
)

// FillerSlots lists the slots that carry fillers, in canonical output order.
var FillerSlots = []string{
	SlotIncidentDate,
	SlotIncidentLocation,
	SlotIncidentStageOfExecution,
	SlotIncidentInstrumentID,
	SlotPerpIncidentCategory,
	SlotPerpIndividualID,
	SlotPerpOrganizationID,
	SlotPerpOrganizationConfidence,
	SlotPhysTgtID,
	SlotPhysTgtEffectOfIncident,
	SlotHumTgtName,
	SlotHumTgtDescription,
	SlotHumTgtEffectOfIncident,
}

// EntitySlots are the slots whose fillers are literal mentions in the document text.
var EntitySlots = []string{
	SlotPerpIndividualID,
	SlotPerpOrganizationID,
	SlotPhysTgtID,
	SlotHumTgtName,
	SlotHumTgtDescription,
	SlotIncidentInstrumentID,
	SlotIncidentLocation,
}

// nonListSlots hold a single filler instead of a filler list.
var nonListSlots = map[string]bool{
	SlotIncidentStageOfExecution: true,
	SlotPerpIncidentCategory:     true,
}

// Vocabularies restricts set-fill slots to a fixed set of values.
var Vocabularies = map[string]map[string]bool{
	SlotIncidentStageOfExecution: set("ACCOMPLISHED", "ATTEMPTED", "THREATENED"),
	SlotPerpIncidentCategory: set(
		"TERRORIST ACT",
		"STATE-SPONSORED VIOLENCE",
		"? TERRORIST ACT",
		"? STATE-SPONSORED VIOLENCE",
	),
	SlotPerpOrganizationConfidence: set(
		"REPORTED AS FACT",
		"ACQUITTED",
		"CLAIMED OR ADMITTED",
		"SUSPECTED OR ACCUSED",
		"SUSPECTED OR ACCUSED BY AUTHORITIES",
		"POSSIBLE",
	),
	SlotHumTgtEffectOfIncident: set(
		"DEATH",
		"NO DEATH",
		"INJURY",
		"NO INJURY",
		"NO INJURY OR DEATH",
		"REGAINED FREEDOM",
		"ESCAPED",
		"RESIGNATION",
		"NO RESIGNATION",
		"PROPERTY TAKEN FROM TARGET",
	),
	SlotPhysTgtEffectOfIncident: set(
		"DESTROYED",
		"SOME DAMAGE",
		"NO DAMAGE",
		"MONEY TAKEN FROM TARGET",
		"PROPERTY TAKEN FROM TARGET",
		"TARGET TAKEN",
	),
}

// IsFillerSlot reports whether slot is one of FillerSlots.
func IsFillerSlot(slot string) bool {
	for _, s := range FillerSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// IsListSlot reports whether slot holds an ordered filler list.
func IsListSlot(slot string) bool {
	return !nonListSlots[slot]
}

// IsVocabularySlot reports whether slot is restricted to a controlled vocabulary.
func IsVocabularySlot(slot string) bool {
	_, ok := Vocabularies[slot]
	return ok
}

// InVocabulary reports whether value is an allowed value for slot.
func InVocabulary(slot, value string) bool {
	return Vocabularies[slot][value]
}

// IncidentTypes are the incident types found in the corpus, lower-cased.
var IncidentTypes = []string{
	"attack",
	"arson",
	"bombing",
	"forced work stoppage",
	"kidnapping",
	"robbery",
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
