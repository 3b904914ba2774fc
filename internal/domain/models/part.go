package models

// PartRecord is one master-catalog entry, read-only from the bot's side.
// Location and Visual may be empty when the sheet does not carry those
// columns; renderers substitute display placeholders.
type PartRecord struct {
	PartID   string
	Name     string
	Location string
	Visual   string
}
