// Package request holds the item request domain: the entity, its status
// lifecycle, payload validation, and the store contract.
package request

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the closed lifecycle set for an item request.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Statuses lists every member of the closed set, in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusCompleted, StatusRejected}
}

// NormalizeStatus maps client-supplied text onto the closed set. Clients send
// values like "Pending " and expect a match, so trim and lowercase first.
func NormalizeStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusApproved, StatusCompleted, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// Field length bounds, enforced at the validation boundary and again by the
// collection schema.
const (
	RequestorNameMin = 3
	RequestorNameMax = 30
	ItemRequestedMin = 2
	ItemRequestedMax = 100
)

// ItemRequest is the sole entity: a donation/assistance request and its
// lifecycle state. ID is the hex encoding of the store-native identifier;
// clients never see or supply the native form.
type ItemRequest struct {
	ID                 string     `json:"id"`
	RequestorName      string     `json:"requestorName"`
	ItemRequested      string     `json:"itemRequested"`
	RequestCreatedDate time.Time  `json:"requestCreatedDate"`
	LastEditedDate     *time.Time `json:"lastEditedDate"`
	Status             Status     `json:"status"`
}

// ParseID decodes the external string form of an identifier into the
// store-native ObjectID. A string that does not decode is a validation
// failure, not a storage concern.
func ParseID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return id, err == nil
}
