package i18n

// catalog holds the UI strings per locale. Server-provided texts
// (notification titles, error messages) pass through untranslated.
var catalog = map[string]map[string]string{
	"en": {
		"app.title":          "Rental Ops",
		"app.loading":        "Starting...",
		"app.connecting":     "Connecting to workspace...",
		"app.no_workspace":   "No workspace configured. Press 'w' to add one.",
		"app.locale_changed": "Language updated",
		"app.poll_running":   "refreshing...",
		"app.poll_error":     "refresh failed",
		"app.poll_last":      "updated %s",

		"feed.title":         "Notifications",
		"feed.unread_badge":  "%d unread",
		"feed.load_more":     "Load more",
		"feed.loading":       "Loading...",
		"feed.loading_more":  "Loading more...",
		"feed.empty":         "No notifications",
		"feed.error_generic": "Could not update notifications",
		"feed.exhausted":     "End of notifications",

		"table.loading": "Loading records...",
		"table.empty":   "No records",
		"table.pending": "%d change(s) saving",

		"toast.save_failed":    "Update failed: %s",
		"toast.request_failed": "Request failed",
		"toast.read_only":      "%s is read-only",
		"toast.auth_failed":    "Authentication failed. Check the workspace token.",

		"detail.empty":   "Nothing selected",
		"detail.no_body": "No further details",

		"history.empty": "No edits recorded",

		"import.empty":      "No booking emails found",
		"import.scanning":   "Scanning mailbox...",
		"import.scanned":    "Found %d new booking(s)",
		"import.created":    "Reservation created",
		"import.no_mailbox": "No mailbox configured for this workspace",

		"workspace.title":          "Workspaces",
		"workspace.switch":         "Switched to %s",
		"workspace.empty":          "No workspaces yet",
		"workspace.hint":           "a add | e edit | d delete | enter switch | esc back",
		"workspace.saved":          "%s saved",
		"workspace.deleted":        "Workspace deleted",
		"workspace.delete_confirm": "Delete %s?",
		"workspace.delete_desc":    "Stored credentials for this workspace are removed too.",

		"workspace.form.name":          "Name",
		"workspace.form.base_url":      "API base URL",
		"workspace.form.org_id":        "Organization ID",
		"workspace.form.token":         "API token",
		"workspace.form.token_desc":    "Stored in the system keychain",
		"workspace.form.token_keep":    "Leave empty to keep the current token",
		"workspace.form.mail":          "Import bookings from email?",
		"workspace.form.mail_desc":     "Scans an IMAP folder for booking confirmations",
		"workspace.form.mail_host":     "IMAP server",
		"workspace.form.mail_username": "IMAP username",
		"workspace.form.mail_password": "IMAP password",
		"workspace.form.mail_folder":   "Folder",

		"validation.required": "%s is required",
		"validation.url":      "Enter a valid http(s) URL",

		"command.title":       "Command",
		"command.placeholder": "type a command...",
		"help.title":          "Keyboard shortcuts",

		"severity.info":     "Info",
		"severity.warning":  "Warning",
		"severity.critical": "Critical",

		"category.reservations": "Reservations",
		"category.payments":     "Payments",
		"category.operations":   "Operations",
		"category.system":       "System",

		"resource.properties":   "Properties",
		"resource.units":        "Units",
		"resource.reservations": "Reservations",
		"resource.guests":       "Guests",
		"resource.tasks":        "Tasks",
		"resource.ai_agents":    "AI Agents",
	},
	"es": {
		"app.title":          "Rental Ops",
		"app.loading":        "Iniciando...",
		"app.connecting":     "Conectando al espacio de trabajo...",
		"app.no_workspace":   "Sin espacio de trabajo. Presione 'w' para agregar uno.",
		"app.locale_changed": "Idioma actualizado",
		"app.poll_running":   "actualizando...",
		"app.poll_error":     "error al actualizar",
		"app.poll_last":      "actualizado %s",

		"feed.title":         "Notificaciones",
		"feed.unread_badge":  "%d sin leer",
		"feed.load_more":     "Cargar más",
		"feed.loading":       "Cargando...",
		"feed.loading_more":  "Cargando más...",
		"feed.empty":         "Sin notificaciones",
		"feed.error_generic": "No se pudieron actualizar las notificaciones",
		"feed.exhausted":     "Fin de las notificaciones",

		"table.loading": "Cargando registros...",
		"table.empty":   "Sin registros",
		"table.pending": "%d cambio(s) guardándose",

		"toast.save_failed":    "Error al guardar: %s",
		"toast.request_failed": "La solicitud falló",
		"toast.read_only":      "%s es de solo lectura",
		"toast.auth_failed":    "Falló la autenticación. Revise el token del espacio de trabajo.",

		"detail.empty":   "Nada seleccionado",
		"detail.no_body": "Sin más detalles",

		"history.empty": "Sin cambios registrados",

		"import.empty":      "No se encontraron correos de reservas",
		"import.scanning":   "Revisando el buzón...",
		"import.scanned":    "Se encontraron %d reserva(s) nueva(s)",
		"import.created":    "Reserva creada",
		"import.no_mailbox": "Sin buzón configurado para este espacio de trabajo",

		"workspace.title":          "Espacios de trabajo",
		"workspace.switch":         "Cambiado a %s",
		"workspace.empty":          "Aún no hay espacios de trabajo",
		"workspace.hint":           "a agregar | e editar | d eliminar | enter cambiar | esc volver",
		"workspace.saved":          "%s guardado",
		"workspace.deleted":        "Espacio de trabajo eliminado",
		"workspace.delete_confirm": "¿Eliminar %s?",
		"workspace.delete_desc":    "También se eliminan las credenciales guardadas de este espacio.",

		"workspace.form.name":          "Nombre",
		"workspace.form.base_url":      "URL base del API",
		"workspace.form.org_id":        "ID de organización",
		"workspace.form.token":         "Token del API",
		"workspace.form.token_desc":    "Se guarda en el llavero del sistema",
		"workspace.form.token_keep":    "Deje vacío para conservar el token actual",
		"workspace.form.mail":          "¿Importar reservas desde el correo?",
		"workspace.form.mail_desc":     "Revisa una carpeta IMAP en busca de confirmaciones de reserva",
		"workspace.form.mail_host":     "Servidor IMAP",
		"workspace.form.mail_username": "Usuario IMAP",
		"workspace.form.mail_password": "Contraseña IMAP",
		"workspace.form.mail_folder":   "Carpeta",

		"validation.required": "%s es obligatorio",
		"validation.url":      "Ingrese una URL http(s) válida",

		"command.title":       "Comando",
		"command.placeholder": "escriba un comando...",
		"help.title":          "Atajos de teclado",

		"severity.info":     "Info",
		"severity.warning":  "Alerta",
		"severity.critical": "Crítico",

		"category.reservations": "Reservas",
		"category.payments":     "Pagos",
		"category.operations":   "Operaciones",
		"category.system":       "Sistema",

		"resource.properties":   "Propiedades",
		"resource.units":        "Unidades",
		"resource.reservations": "Reservas",
		"resource.guests":       "Huéspedes",
		"resource.tasks":        "Tareas",
		"resource.ai_agents":    "Agentes IA",

		"field.id":            "ID",
		"field.name":          "Nombre",
		"field.status":        "Estado",
		"field.address_line1": "Dirección",
		"field.city":          "Ciudad",
		"field.created_at":    "Creado",
		"field.property_id":   "Propiedad",
		"field.capacity":      "Capacidad",
		"field.nightly_rate":  "Tarifa por noche",
		"field.unit_id":       "Unidad",
		"field.guest_id":      "Huésped",
		"field.check_in":      "Entrada",
		"field.check_out":     "Salida",
		"field.total_amount":  "Total",
		"field.channel":       "Canal",
		"field.full_name":     "Nombre completo",
		"field.email":         "Correo",
		"field.phone":         "Teléfono",
		"field.document_id":   "Documento",
		"field.country":       "País",
		"field.title":         "Título",
		"field.assignee":      "Responsable",
		"field.due_date":      "Vence",
		"field.model":         "Modelo",
		"field.last_run_at":   "Última ejecución",
	},
}
