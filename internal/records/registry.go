package records

// Reservation status values accepted by the platform.
var reservationStatuses = []string{
	"pending", "confirmed", "checked_in", "completed", "cancelled",
}

// registry lists the resource collections the console can browse, in menu
// order. Field sets mirror the platform's table service.
var registry = []Schema{
	{
		Resource: "properties",
		Title:    "Properties",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "name", Label: "Name", Type: TypeString, Required: true, Editable: true},
			{Name: "status", Label: "Status", Type: TypeString, Hint: HintBadge, Editable: true,
				Options: []string{"active", "inactive"}},
			{Name: "address_line1", Label: "Address", Type: TypeString, Editable: true},
			{Name: "city", Label: "City", Type: TypeString, Editable: true},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
	{
		Resource: "units",
		Title:    "Units",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "property_id", Label: "Property", Type: TypeString, Hint: HintUUID,
				Reference: "properties"},
			{Name: "name", Label: "Name", Type: TypeString, Required: true, Editable: true},
			{Name: "status", Label: "Status", Type: TypeString, Hint: HintBadge, Editable: true,
				Options: []string{"available", "blocked", "maintenance"}},
			{Name: "capacity", Label: "Capacity", Type: TypeNumber, Editable: true},
			{Name: "nightly_rate", Label: "Nightly rate", Type: TypeNumber, Hint: HintMoney,
				Editable: true},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
	{
		Resource: "reservations",
		Title:    "Reservations",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "unit_id", Label: "Unit", Type: TypeString, Hint: HintUUID,
				Reference: "units"},
			{Name: "guest_id", Label: "Guest", Type: TypeString, Hint: HintUUID,
				Reference: "guests"},
			{Name: "check_in", Label: "Check-in", Type: TypeTimestamp, Hint: HintDate,
				Required: true, Editable: true},
			{Name: "check_out", Label: "Check-out", Type: TypeTimestamp, Hint: HintDate,
				Required: true, Editable: true},
			{Name: "status", Label: "Status", Type: TypeString, Hint: HintBadge, Editable: true,
				Options: reservationStatuses},
			{Name: "total_amount", Label: "Total", Type: TypeNumber, Hint: HintMoney,
				Editable: true},
			{Name: "channel", Label: "Channel", Type: TypeString, Hint: HintBadge,
				Options: []string{"direct", "airbnb", "booking"}},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
	{
		Resource: "guests",
		Title:    "Guests",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "full_name", Label: "Full name", Type: TypeString, Required: true,
				Editable: true},
			{Name: "email", Label: "Email", Type: TypeString, Editable: true},
			{Name: "phone", Label: "Phone", Type: TypeString, Editable: true},
			{Name: "document_id", Label: "Document", Type: TypeString, Editable: true},
			{Name: "country", Label: "Country", Type: TypeString, Editable: true},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
	{
		Resource: "tasks",
		Title:    "Tasks",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "title", Label: "Title", Type: TypeString, Required: true, Editable: true},
			{Name: "status", Label: "Status", Type: TypeString, Hint: HintBadge, Editable: true,
				Options: []string{"open", "in_progress", "done"}},
			{Name: "assignee", Label: "Assignee", Type: TypeString, Editable: true},
			{Name: "due_date", Label: "Due", Type: TypeTimestamp, Hint: HintDate,
				Editable: true},
			{Name: "property_id", Label: "Property", Type: TypeString, Hint: HintUUID,
				Reference: "properties"},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
	{
		Resource: "ai_agents",
		Title:    "AI Agents",
		Fields: []Field{
			{Name: "id", Label: "ID", Type: TypeString, Hint: HintUUID},
			{Name: "name", Label: "Name", Type: TypeString},
			{Name: "status", Label: "Status", Type: TypeString, Hint: HintBadge, Editable: true,
				Options: []string{"enabled", "paused"}},
			{Name: "model", Label: "Model", Type: TypeString},
			{Name: "last_run_at", Label: "Last run", Type: TypeTimestamp},
			{Name: "created_at", Label: "Created", Type: TypeTimestamp},
		},
	},
}

// Registry returns the browsable resource schemas in menu order.
func Registry() []Schema {
	return registry
}

// SchemaFor returns the schema for a resource name.
func SchemaFor(resource string) (Schema, bool) {
	for _, s := range registry {
		if s.Resource == resource {
			return s, true
		}
	}
	return Schema{}, false
}
