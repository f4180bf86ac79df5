package models

// Ownership accessors consumed by the policy package.

// OwnerID returns the user that owns the vehicle.
func (v Vehicle) OwnerID() uint { return v.UserID }

// AssignedTechnician always reports none: vehicles are never assigned
// to a technician directly.
func (v Vehicle) AssignedTechnician() (uint, bool) { return 0, false }

// OwnerID returns the owner of the record's vehicle. The Vehicle
// association must be loaded before asking.
func (m Maintenance) OwnerID() uint { return m.Vehicle.UserID }

// AssignedTechnician returns the technician the record is assigned to,
// if any.
func (m Maintenance) AssignedTechnician() (uint, bool) {
	if m.TechnicianID == nil {
		return 0, false
	}
	return *m.TechnicianID, true
}
