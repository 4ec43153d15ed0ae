package auth

// Role is the closed set of staff roles. Keeping it a distinct type (rather
// than free-form strings) lets the permission table below be exhaustive.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleAccueil    Role = "accueil"   // reception, creates orders
	RoleCaisse     Role = "caisse"    // cashier, handles payments
	RoleGraphiste  Role = "graphiste" // designer / production
	RoleSuperAdmin Role = "super_admin"
)

// ParseRole validates a role string coming from a token or request.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleAccueil, RoleCaisse, RoleGraphiste, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Permission names an action on a resource.
type Permission string

const (
	PermOrdersRead      Permission = "orders:read"
	PermOrdersWrite     Permission = "orders:write"
	PermOrdersProduce   Permission = "orders:produce"
	PermPaymentsRead    Permission = "payments:read"
	PermPaymentsWrite   Permission = "payments:write"
	PermMaterialsRead   Permission = "materials:read"
	PermMaterialsWrite  Permission = "materials:write"
	PermClientsRead     Permission = "clients:read"
	PermClientsWrite    Permission = "clients:write"
	PermEmployeesRead   Permission = "employees:read"
	PermEmployeesWrite  Permission = "employees:write"
	PermUploadsWrite    Permission = "uploads:write"
	PermNotificationsRW Permission = "notifications:rw"
)

// permissions is the whole access-control matrix. Admin and super-admin get
// everything; the three operational roles get only their slice of the flow.
var permissions = map[Role]map[Permission]bool{
	RoleAccueil: {
		PermOrdersRead:      true,
		PermOrdersWrite:     true,
		PermMaterialsRead:   true,
		PermClientsRead:     true,
		PermClientsWrite:    true,
		PermUploadsWrite:    true,
		PermNotificationsRW: true,
	},
	RoleCaisse: {
		PermOrdersRead:      true,
		PermPaymentsRead:    true,
		PermPaymentsWrite:   true,
		PermClientsRead:     true,
		PermNotificationsRW: true,
	},
	RoleGraphiste: {
		PermOrdersRead:      true,
		PermOrdersProduce:   true,
		PermMaterialsRead:   true,
		PermUploadsWrite:    true,
		PermNotificationsRW: true,
	},
}

// Can reports whether the role may perform the permission.
func (r Role) Can(p Permission) bool {
	if r == RoleAdmin || r == RoleSuperAdmin {
		return true
	}
	return permissions[r][p]
}
