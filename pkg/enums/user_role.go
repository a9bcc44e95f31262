package enums

// UserRole is the coarse role carried in access tokens.
type UserRole string

const (
	UserRoleStaff    UserRole = "staff"
	UserRoleCustomer UserRole = "customer"
)

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	return r == UserRoleStaff || r == UserRoleCustomer
}

// RoleFor maps the is_staff flag to a role.
func RoleFor(isStaff bool) UserRole {
	if isStaff {
		return UserRoleStaff
	}
	return UserRoleCustomer
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	return parse("user role", value, []UserRole{UserRoleStaff, UserRoleCustomer})
}
