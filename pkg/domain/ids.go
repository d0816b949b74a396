// Package domain defines typed identifiers shared across modules.
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TenantID is the identifier of a tenant document. It is an alias of the
// driver's ObjectID so bson encoding treats it as a native _id.
type TenantID = primitive.ObjectID

// NilTenantID is the zero tenant identifier.
var NilTenantID = primitive.NilObjectID

// ParseTenantID parses a 24-character hex token into a TenantID.
// A token of any other shape is rejected before touching the database.
func ParseTenantID(s string) (TenantID, error) {
	return primitive.ObjectIDFromHex(s)
}

// IsValidTenantID reports whether s has the shape of a tenant identifier.
func IsValidTenantID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// NewTenantID generates a fresh tenant identifier.
func NewTenantID() TenantID {
	return primitive.NewObjectID()
}
