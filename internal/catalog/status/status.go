// Package status normalizes the heterogeneous order-status encodings the
// commerce API has shipped over time (numeric codes or free text) into one
// canonical label set.
package status

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Label is a canonical order-lifecycle status.
type Label string

// The eleven canonical order statuses, in code order 0..10.
const (
	PendingPayment   Label = "PendingPayment"
	Confirmed        Label = "Confirmed"
	Processing       Label = "Processing"
	Shipped          Label = "Shipped"
	Delivered        Label = "Delivered"
	CancelledByUser  Label = "CancelledByUser"
	Refunded         Label = "Refunded"
	Returned         Label = "Returned"
	PaymentExpired   Label = "PaymentExpired"
	CancelledByAdmin Label = "CancelledByAdmin"
	Complete         Label = "Complete"
)

var codeTable = [...]Label{
	PendingPayment,
	Confirmed,
	Processing,
	Shipped,
	Delivered,
	CancelledByUser,
	Refunded,
	Returned,
	PaymentExpired,
	CancelledByAdmin,
	Complete,
}

// Code returns the numeric code of a canonical label, or -1 if the label
// is not canonical.
func Code(l Label) int {
	for i, candidate := range codeTable {
		if candidate == l {
			return i
		}
	}
	return -1
}

// FromCode resolves a numeric status code to its canonical label.
func FromCode(code int) (Label, bool) {
	if code < 0 || code >= len(codeTable) {
		return "", false
	}
	return codeTable[code], true
}

// Normalize maps any status representation to a label. It is total: an
// unknown number degrades to its decimal form, unknown text to the trimmed
// original, and an empty value to PendingPayment. Display must never block
// on a malformed status.
func Normalize(raw any) Label {
	switch v := raw.(type) {
	case nil:
		return PendingPayment
	case int:
		return fromNumber(float64(v))
	case int32:
		return fromNumber(float64(v))
	case int64:
		return fromNumber(float64(v))
	case float32:
		return fromNumber(float64(v))
	case float64:
		return fromNumber(v)
	case string:
		return fromText(v)
	case Label:
		return fromText(string(v))
	default:
		return PendingPayment
	}
}

// NormalizeJSON normalizes a raw JSON status value (number, string or null).
func NormalizeJSON(raw json.RawMessage) Label {
	if len(raw) == 0 {
		return PendingPayment
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return fromText(string(raw))
	}
	return Normalize(value)
}

func fromNumber(v float64) Label {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return PendingPayment
	}
	if v == math.Trunc(v) {
		if label, ok := FromCode(int(v)); ok {
			return label
		}
	}
	return Label(strconv.FormatFloat(v, 'f', -1, 64))
}

func fromText(v string) Label {
	trimmed := strings.TrimSpace(v)
	for _, candidate := range codeTable {
		if strings.EqualFold(trimmed, string(candidate)) {
			return candidate
		}
	}
	if trimmed == "" {
		return PendingPayment
	}
	return Label(trimmed)
}
