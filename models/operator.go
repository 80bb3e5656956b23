package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OperatorRefKind tells which shape an OperatorRef was decoded from
type OperatorRefKind int

// Operator reference shapes
const (
	Unassigned OperatorRefKind = iota
	ByID
	Embedded
)

// OperatorSummary is the populated operator document the backend embeds in
// reports and audit entries
type OperatorSummary struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// DisplayName returns "first last", trimmed
func (s OperatorSummary) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// OperatorRef is a reference to a user that the backend serializes either as
// a bare id or as an embedded summary. The zero value is Unassigned.
type OperatorRef struct {
	kind    OperatorRefKind
	id      string
	summary OperatorSummary
}

// RefByID returns a reference holding only an id. An empty id is Unassigned.
func RefByID(id string) OperatorRef {
	id = strings.TrimSpace(id)
	if id == "" {
		return OperatorRef{}
	}
	return OperatorRef{kind: ByID, id: id}
}

// EmbeddedRef returns a reference carrying the full summary
func EmbeddedRef(s OperatorSummary) OperatorRef {
	return OperatorRef{kind: Embedded, id: s.ID, summary: s}
}

// Kind returns the decoded shape
func (r OperatorRef) Kind() OperatorRefKind { return r.kind }

// IsAssigned reports whether the reference points at anyone
func (r OperatorRef) IsAssigned() bool { return r.kind != Unassigned }

// ID returns the referenced id, or "" when unassigned or when an embedded
// document carried no id
func (r OperatorRef) ID() string { return r.id }

// Summary returns the embedded summary, if the reference was embedded
func (r OperatorRef) Summary() (OperatorSummary, bool) {
	return r.summary, r.kind == Embedded
}

// UnmarshalJSON decodes null, a string or number id, or an embedded object.
// An object always decodes as Embedded, whatever its field types. Any other
// shape decodes as Unassigned rather than failing the report.
func (r *OperatorRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = OperatorRef{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = RefByID(id)
	case '{':
		raw, err := looseOperator(data)
		if err != nil {
			return err
		}
		first, last := raw.FirstName, raw.LastName
		if first == "" && last == "" {
			first, last = SplitName(raw.Name)
		}
		*r = EmbeddedRef(OperatorSummary{
			ID:        raw.Key(),
			FirstName: first,
			LastName:  last,
			Email:     raw.Email,
		})
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*r = RefByID(n.String())
		}
	}
	return nil
}

// looseOperator reads an embedded operator object field by field so that a
// number or other unexpected value in one field cannot drop the whole record
func looseOperator(data []byte) (RawOperator, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return RawOperator{}, err
	}
	return RawOperator{
		MongoID:    looseString(fields["_id"]),
		ID:         looseString(fields["id"]),
		UserID:     looseString(fields["userId"]),
		OperatorID: looseString(fields["operatorId"]),
		FirstName:  looseString(fields["firstName"]),
		LastName:   looseString(fields["lastName"]),
		Name:       looseString(fields["name"]),
		Email:      looseString(fields["email"]),
	}, nil
}

func looseString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// MarshalJSON writes the reference back in the shape it was decoded from
func (r OperatorRef) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case ByID:
		return json.Marshal(r.id)
	case Embedded:
		return json.Marshal(r.summary)
	default:
		return []byte("null"), nil
	}
}

// Operator is a normalized field operator
type Operator struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// DisplayName returns "first last", trimmed
func (o Operator) DisplayName() string {
	return o.Summary().DisplayName()
}

// Summary converts the operator into the embedded form stored on reports
func (o Operator) Summary() OperatorSummary {
	return OperatorSummary{ID: o.ID, FirstName: o.FirstName, LastName: o.LastName, Email: o.Email}
}

// RawOperator is an operator record exactly as the backend sends it. Different
// endpoints use different id keys and some send a combined name.
type RawOperator struct {
	MongoID    string `json:"_id,omitempty"`
	ID         string `json:"id,omitempty"`
	UserID     string `json:"userId,omitempty"`
	OperatorID string `json:"operatorId,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Key returns the first non-empty id field
func (o RawOperator) Key() string {
	for _, v := range []string{o.MongoID, o.ID, o.UserID, o.OperatorID} {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsZero reports whether nothing at all was decoded
func (o RawOperator) IsZero() bool {
	return o == RawOperator{}
}

// OperatorRegistration is the body of POST /auth/employer/register-operator
type OperatorRegistration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// SplitName splits a combined name on its first whitespace boundary. Missing
// halves are returned as empty strings.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	i := strings.IndexFunc(name, isSpace)
	if i < 0 {
		return name, ""
	}
	return name[:i], strings.TrimSpace(name[i:])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
