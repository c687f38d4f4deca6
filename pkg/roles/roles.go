package roles

// Role is the permission level of a back-office account.
type Role string

const (
	Staff   Role = "staff"
	Manager Role = "manager"
	Admin   Role = "admin"
)

type HierarchyLevel int

const (
	StaffLevel   HierarchyLevel = 1
	ManagerLevel HierarchyLevel = 2
	AdminLevel   HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case Manager:
		return ManagerLevel
	case Admin:
		return AdminLevel
	default:
		return StaffLevel
	}
}

// HasPermission reports whether the role covers the required one.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case Staff, Manager, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
