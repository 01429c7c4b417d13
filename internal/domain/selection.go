package domain

import "time"

// SelectionItem is one blueprint a shop has added to its selection. It
// snapshots the counted dimensions at add time so tier accounting does not
// depend on provider availability.
type SelectionItem struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	ProviderID  string    `json:"provider_id"`
	BlueprintID string    `json:"blueprint_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type,omitempty"`
	PrintAreas  int       `json:"print_areas"`
	Variants    int       `json:"variants"`
	CreatedAt   time.Time `json:"created_at"`
}

// Ref returns the slim validation view of the item.
func (i *SelectionItem) Ref() BlueprintRef {
	return BlueprintRef{
		BlueprintID: i.BlueprintID,
		ProviderID:  i.ProviderID,
		Type:        i.Type,
		PrintAreas:  i.PrintAreas,
		Variants:    i.Variants,
	}
}
