package internal

import (
	"fmt"
	"strings"
)

type FieldKey string

const (
	FieldCollection       FieldKey = "collection"
	FieldTitle            FieldKey = "title"
	FieldClassification   FieldKey = "classification"
	FieldOriginLibrary    FieldKey = "origin_library"
	FieldReceivingLibrary FieldKey = "receiving_library"
	FieldPhone            FieldKey = "phone"
	FieldEmail            FieldKey = "email"
	FieldAddress          FieldKey = "address"
	FieldRequestDate      FieldKey = "request_date"
)

// AllFieldKeys lists the semantic keys in FieldMap declaration order.
var AllFieldKeys = []FieldKey{
	FieldCollection,
	FieldTitle,
	FieldClassification,
	FieldOriginLibrary,
	FieldReceivingLibrary,
	FieldPhone,
	FieldEmail,
	FieldAddress,
	FieldRequestDate,
}

func (k FieldKey) Known() bool {
	for _, known := range AllFieldKeys {
		if k == known {
			return true
		}
	}
	return false
}

// RawRow is one request line as read from the workbook. Index is the 1-based
// position among data rows; SheetRow is the line number in the sheet.
type RawRow struct {
	Index      int
	SheetRow   int
	Requester  string
	Annotation string
}

// FieldMap holds the values extracted from one annotation. A nil field was
// not found; a pointer to "" was found with no value.
type FieldMap struct {
	Collection       *string
	Title            *string
	Classification   *string
	OriginLibrary    *string
	ReceivingLibrary *string
	Phone            *string
	Email            *string
	Address          *string
	RequestDate      *string
}

func (m *FieldMap) slot(key FieldKey) **string {
	switch key {
	case FieldCollection:
		return &m.Collection
	case FieldTitle:
		return &m.Title
	case FieldClassification:
		return &m.Classification
	case FieldOriginLibrary:
		return &m.OriginLibrary
	case FieldReceivingLibrary:
		return &m.ReceivingLibrary
	case FieldPhone:
		return &m.Phone
	case FieldEmail:
		return &m.Email
	case FieldAddress:
		return &m.Address
	case FieldRequestDate:
		return &m.RequestDate
	default:
		return nil
	}
}

func (m *FieldMap) Set(key FieldKey, value string) bool {
	s := m.slot(key)
	if s == nil {
		return false
	}
	v := value
	*s = &v
	return true
}

func (m *FieldMap) Get(key FieldKey) (string, bool) {
	s := m.slot(key)
	if s == nil || *s == nil {
		return "", false
	}
	return **s, true
}

func (m *FieldMap) Has(key FieldKey) bool {
	_, ok := m.Get(key)
	return ok
}

// Value returns the field or "" when absent.
func (m *FieldMap) Value(key FieldKey) string {
	v, _ := m.Get(key)
	return v
}

func (m *FieldMap) Keys() []FieldKey {
	out := make([]FieldKey, 0, len(AllFieldKeys))
	for _, k := range AllFieldKeys {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

type PrefixRule struct {
	Key    FieldKey `yaml:"key"`
	Prefix string   `yaml:"prefix"`
}

type Identity struct {
	ID   string
	Name string
}

type LoanRequestRecord struct {
	Row          int
	Name         string
	Identity     string
	Address      string
	Locality     string
	Neighborhood string
	Phone        string
	Email        string
	RequestDate  string
	Item         string
}

type AggregatedUserRecord struct {
	Identity string
	Name     string
	Address  string
	Phone    string
	Items    []string
}

func (u AggregatedUserRecord) Classification() string {
	return strings.Join(u.Items, "\n")
}

type ReasonCode string

const (
	ReasonMissingRequiredFields             ReasonCode = "MissingRequiredFields"
	ReasonMissingAddressAndReceivingLibrary ReasonCode = "MissingAddressAndReceivingLibrary"
	ReasonInvalidIdentityFormat             ReasonCode = "InvalidIdentityFormat"
)

type Rejection struct {
	Code    ReasonCode
	Missing []FieldKey
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

type Omission struct {
	Row       int
	SheetRow  int
	Requester string
	Reason    ReasonCode
	Missing   []FieldKey
	Message   string
}

type RowOutcome struct {
	Row       RawRow
	Record    *LoanRequestRecord
	Rejection *Rejection
}

func (o RowOutcome) Accepted() bool {
	return o.Record != nil
}

type BatchResult struct {
	Records   []LoanRequestRecord
	Users     []AggregatedUserRecord
	Omissions []Omission
}

type Ticket struct {
	Name         string
	Identity     string
	Address      string
	Locality     string
	Neighborhood string
	Phone        string
	Library      string
	Materials    []string
	Count        int
}
