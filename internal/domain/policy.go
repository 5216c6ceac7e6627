package domain

type Action string

const (
	ActionRegisterSample  Action = "register-sample"
	ActionAddInspection   Action = "add-inspection"
	ActionAddSheet        Action = "add-sheet"
	ActionManageProviders Action = "manage-providers"
	ActionManageUsers     Action = "manage-users"
)

// Tabla cerrada de permisos por rol. Sin herencia ni comodines: lo que no
// figura acá está denegado. La misma función se evalúa en la UI (para
// ocultar acciones) y en el servidor (para rechazarlas).
var rolePermissions = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionRegisterSample:  true,
		ActionAddInspection:   true,
		ActionAddSheet:        true,
		ActionManageProviders: true,
		ActionManageUsers:     true,
	},
	RoleSamples: {
		ActionRegisterSample: true,
	},
	RoleInspections: {
		ActionAddInspection: true,
	},
	RoleSheets: {
		ActionAddSheet: true,
	},
}

func Can(role Role, action Action) bool {
	return rolePermissions[role][action]
}
