// Package policy centralises every role/ownership decision so the vehicle
// and maintenance controllers cannot drift apart. All predicates are pure:
// callers resolve the resource (and its owning vehicle) first, then ask.
package policy

import "fleet_tracker/internal/models"

// Actor is the authenticated principal taken from the session token.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// Resource exposes the ownership facts a policy decision needs.
// Vehicles report no technician; maintenance records report their
// vehicle's owner.
type Resource interface {
	OwnerID() uint
	AssignedTechnician() (uint, bool)
}

// CanView reports whether the actor may read the resource. Admins see
// everything. Vehicle reads are granted by ownership alone, whatever the
// actor's role. Maintenance reads are granted to the assigned technician
// or to the owner of the record's vehicle; everything else is denied.
func CanView(a Actor, r Resource) bool {
	if a.IsAdmin() {
		return true
	}
	switch res := r.(type) {
	case models.Vehicle:
		return r.OwnerID() == a.ID
	case models.Maintenance:
		switch a.Role {
		case models.RoleTechnician:
			tech, ok := res.AssignedTechnician()
			return ok && tech == a.ID
		case models.RoleUser:
			return r.OwnerID() == a.ID
		}
	}
	return false
}

// CanModifyVehicle permits the owner or an admin.
func CanModifyVehicle(a Actor, v models.Vehicle) bool {
	return a.IsAdmin() || v.UserID == a.ID
}

// CanCreateMaintenance restricts record creation to admins and technicians.
func CanCreateMaintenance(a Actor) bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleTechnician
}

// CanModifyMaintenance permits an admin, or the technician the record is
// assigned to. Vehicle owners cannot edit maintenance records.
func CanModifyMaintenance(a Actor, m models.Maintenance) bool {
	if a.IsAdmin() {
		return true
	}
	if a.Role != models.RoleTechnician {
		return false
	}
	return m.TechnicianID != nil && *m.TechnicianID == a.ID
}

// CanDeleteMaintenance is admin-only, even for the assigned technician.
func CanDeleteMaintenance(a Actor) bool {
	return a.IsAdmin()
}

// CanManageUsers gates the administrative user endpoints.
func CanManageUsers(a Actor) bool {
	return a.IsAdmin()
}
