package export

import (
	"fmt"
	"os"

	"github.com/ppiankov/mucprep/internal/model"
	"gopkg.in/yaml.v3"
)

// Role maps a template slot to the argument role it is exported as
type Role struct {
	Slot string
	Role string
}

// DefaultRoles are the exported slots and their roles, in export order
var DefaultRoles = []Role{
	{Slot: model.SlotPerpIndividualID, Role: "PerpInd"},
	{Slot: model.SlotPerpOrganizationID, Role: "PerpOrg"},
	{Slot: model.SlotPhysTgtID, Role: "Target"},
	{Slot: model.SlotHumTgtName, Role: "Victim"},
	{Slot: model.SlotIncidentInstrumentID, Role: "Weapon"},
}

// LoadRoles reads a "slot: role" mapping. Entry order in the file is the
// export order.
func LoadRoles(path string) ([]Role, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role mapping: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse role mapping: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("role mapping %s is empty", path)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("role mapping %s: expected a mapping", path)
	}

	roles := make([]Role, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		slot, role := root.Content[i].Value, root.Content[i+1].Value
		if !model.IsFillerSlot(slot) || !model.IsListSlot(slot) {
			return nil, fmt.Errorf("role mapping: %s is not a filler list slot", slot)
		}
		roles = append(roles, Role{Slot: slot, Role: role})
	}
	return roles, nil
}
