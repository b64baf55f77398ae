package request

import (
	"strings"
	"unicode/utf8"
)

// Validators below are total: any malformed shape yields ok=false, never a
// panic, so callers can raise a single invalid-input failure. Payloads arrive
// as decoded JSON (map[string]any) and are checked field by field; batch
// inputs are accepted or rejected whole, never partially.

// CreateInput is the normalized payload for creating a request.
type CreateInput struct {
	RequestorName string
	ItemRequested string
}

// EditStatusInput targets a single request by its external id.
type EditStatusInput struct {
	ID     string
	Status Status
}

// BatchStatusUpdateInput applies one status to every listed id.
type BatchStatusUpdateInput struct {
	IDs    []string
	Status Status
}

// BatchDeleteInput lists the ids to delete.
type BatchDeleteInput struct {
	IDs []string
}

// ParseCreate accepts a payload with requestorName and itemRequested, both
// non-empty strings within their length bounds after trimming.
func ParseCreate(payload any) (CreateInput, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return CreateInput{}, false
	}
	name, ok := nonEmptyString(obj["requestorName"])
	if !ok {
		return CreateInput{}, false
	}
	item, ok := nonEmptyString(obj["itemRequested"])
	if !ok {
		return CreateInput{}, false
	}
	if !lengthInBounds(name, RequestorNameMin, RequestorNameMax) ||
		!lengthInBounds(item, ItemRequestedMin, ItemRequestedMax) {
		return CreateInput{}, false
	}
	return CreateInput{RequestorName: name, ItemRequested: item}, true
}

// ParseEditStatus accepts a payload with a non-empty id and a status that
// normalizes to a known member.
func ParseEditStatus(payload any) (EditStatusInput, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return EditStatusInput{}, false
	}
	id, ok := nonEmptyString(obj["id"])
	if !ok {
		return EditStatusInput{}, false
	}
	status, ok := normalizedStatus(obj["status"])
	if !ok {
		return EditStatusInput{}, false
	}
	return EditStatusInput{ID: id, Status: status}, true
}

// ParseBatchStatusUpdate accepts a payload with a non-empty ids array and a
// status. One bad id rejects the entire batch.
func ParseBatchStatusUpdate(payload any) (BatchStatusUpdateInput, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return BatchStatusUpdateInput{}, false
	}
	ids, ok := idList(obj["ids"])
	if !ok {
		return BatchStatusUpdateInput{}, false
	}
	status, ok := normalizedStatus(obj["status"])
	if !ok {
		return BatchStatusUpdateInput{}, false
	}
	return BatchStatusUpdateInput{IDs: ids, Status: status}, true
}

// ParseBatchDelete accepts a payload with a non-empty ids array, same array
// rule as ParseBatchStatusUpdate.
func ParseBatchDelete(payload any) (BatchDeleteInput, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return BatchDeleteInput{}, false
	}
	ids, ok := idList(obj["ids"])
	if !ok {
		return BatchDeleteInput{}, false
	}
	return BatchDeleteInput{IDs: ids}, true
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func lengthInBounds(s string, lower, upper int) bool {
	n := utf8.RuneCountInString(s)
	return n >= lower && n <= upper
}

func normalizedStatus(v any) (Status, bool) {
	raw, ok := v.(string)
	if !ok {
		return "", false
	}
	return NormalizeStatus(raw)
}

func idList(v any) ([]string, bool) {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return nil, false
	}
	ids := make([]string, 0, len(raw))
	for _, el := range raw {
		id, ok := nonEmptyString(el)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
