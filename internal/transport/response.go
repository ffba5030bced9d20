package transport

import (
	"github.com/cwbudde/merlin-go/internal/diagnostic"
	"github.com/cwbudde/merlin-go/internal/jsonvalue"
	"github.com/tidwall/sjson"
)

// Class is the outermost discriminant of a response envelope (spec.md §6
// "Responses have the shape {class, value, notifications}").
type Class string

const (
	ClassReturn    Class = "return"
	ClassFailure   Class = "failure"
	ClassError     Class = "error"
	ClassException Class = "exception"
)

// BuildResponse assembles the {class, value, notifications} envelope
// field-by-field with sjson, mirroring how Request reads its params
// field-by-field with gjson.
func BuildResponse(class Class, value *jsonvalue.Value, notifications []*diagnostic.Diagnostic) ([]byte, error) {
	doc := "{}"

	doc, err := sjson.Set(doc, "class", string(class))
	if err != nil {
		return nil, err
	}

	valueJSON, err := value.MarshalJSON()
	if err != nil {
		return nil, err
	}
	doc, err = sjson.SetRaw(doc, "value", string(valueJSON))
	if err != nil {
		return nil, err
	}

	notificationsValue := jsonvalue.NewArray()
	for _, n := range notifications {
		notificationsValue.ArrayAppend(diagnosticToValue(n))
	}
	notificationsJSON, err := notificationsValue.MarshalJSON()
	if err != nil {
		return nil, err
	}
	doc, err = sjson.SetRaw(doc, "notifications", string(notificationsJSON))
	if err != nil {
		return nil, err
	}

	return []byte(doc), nil
}

func diagnosticToValue(d *diagnostic.Diagnostic) *jsonvalue.Value {
	v := jsonvalue.NewObject()
	v.ObjectSet("class", jsonvalue.NewString(d.Class.String()))
	v.ObjectSet("message", jsonvalue.NewString(d.Message))
	v.ObjectSet("line", jsonvalue.NewInt64(int64(d.Pos.Line)))
	v.ObjectSet("col", jsonvalue.NewInt64(int64(d.Pos.Column)))
	if d.File != "" {
		v.ObjectSet("file", jsonvalue.NewString(d.File))
	}
	return v
}
