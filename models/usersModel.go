package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles. Each department front-end is restricted to its own subset of
// workflow operations through these.
const (
	RoleAdmin     = "Admin"
	RoleReception = "Reception"
	RoleNurse     = "Nurse"
	RoleDoctor    = "Doctor"
	RoleLab       = "Lab"
	RoleRadiology = "Radiology"
	RolePharmacy  = "Pharmacy"
	RoleBilling   = "Billing"
)

// Role represents a staff role
type Role struct {
	ID          int64        `gorm:"primaryKey;column:id" json:"id"`
	Name        string       `gorm:"size:50;not null;unique;index;column:name" json:"name"`
	Description string       `gorm:"type:text;column:description" json:"description"`
	CreatedAt   time.Time    `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions"`
}

func (Role) TableName() string {
	return "roles"
}

// SeedRoles inserts initial roles into the database
func SeedRoles(db *gorm.DB) error {
	initialRoles := []Role{
		{Name: RoleAdmin, Description: "Full access to the system"},
		{Name: RoleReception, Description: "Registers patients, opens visits, manages pre-registrations"},
		{Name: RoleNurse, Description: "Records vitals and routes patients to doctors"},
		{Name: RoleDoctor, Description: "Reviews patients and emits lab, radiology and pharmacy orders"},
		{Name: RoleLab, Description: "Releases and completes laboratory orders"},
		{Name: RoleRadiology, Description: "Releases and completes radiology orders"},
		{Name: RolePharmacy, Description: "Dispenses pharmacy orders"},
		{Name: RoleBilling, Description: "Manages billings, payments and emergency acknowledgments"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, role := range initialRoles {
			if err := tx.FirstOrCreate(&role, Role{Name: role.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// User represents a staff member in the system
type User struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Email     string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password  string    `gorm:"size:255;not null;column:password" json:"password"`
	RoleID    int64     `gorm:"index;not null;column:role_id" json:"role_id"`
	Role      Role      `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Permission represents a permission in the system
type Permission struct {
	ID          int64  `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:100;not null;unique;index;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// SeedPermissions inserts initial permissions into the database
func SeedPermissions(db *gorm.DB) error {
	initialPermissions := []Permission{
		{Name: "manage_users", Description: "Create, update, or delete staff users"},
		{Name: "register_patients", Description: "Register patients and open visits"},
		{Name: "record_vitals", Description: "Record triage vitals"},
		{Name: "manage_orders", Description: "Emit and complete department orders"},
		{Name: "manage_billing", Description: "Add services and record payments"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, permission := range initialPermissions {
			if err := tx.FirstOrCreate(&permission, Permission{Name: permission.Name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RolePermission represents the association between roles and permissions
type RolePermission struct {
	ID           int64 `gorm:"primaryKey;column:id" json:"id"`
	RoleID       int64 `gorm:"index;column:role_id" json:"role_id"`
	PermissionID int64 `gorm:"index;column:permission_id" json:"permission_id"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// SeedRolePermissions inserts initial role permissions into the database
func SeedRolePermissions(db *gorm.DB) error {
	initialRolePermissions := []RolePermission{
		{RoleID: 1, PermissionID: 1}, // Admin: manage_users
		{RoleID: 1, PermissionID: 5}, // Admin: manage_billing
		{RoleID: 2, PermissionID: 2}, // Reception: register_patients
		{RoleID: 3, PermissionID: 3}, // Nurse: record_vitals
		{RoleID: 4, PermissionID: 4}, // Doctor: manage_orders
		{RoleID: 5, PermissionID: 4}, // Lab: manage_orders
		{RoleID: 6, PermissionID: 4}, // Radiology: manage_orders
		{RoleID: 7, PermissionID: 4}, // Pharmacy: manage_orders
		{RoleID: 8, PermissionID: 5}, // Billing: manage_billing
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, rolePermission := range initialRolePermissions {
			if err := tx.FirstOrCreate(&rolePermission, RolePermission{RoleID: rolePermission.RoleID, PermissionID: rolePermission.PermissionID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
