package transport

import (
	"github.com/cwbudde/merlin-go/internal/buffer"
	"github.com/cwbudde/merlin-go/internal/diagnostic"
	"github.com/cwbudde/merlin-go/internal/jsonvalue"
	"github.com/cwbudde/merlin-go/internal/lexer"
	"github.com/cwbudde/merlin-go/internal/query"
)

// Dispatch routes a decoded request to the matching buffer operation and
// returns the response envelope (spec.md §6). Registry lookups and buffer
// operations happen synchronously within the call — there are no internal
// suspension points (spec.md §5 "Suspension points").
func Dispatch(reg *buffer.Registry, req *Request) []byte {
	class, value, notes := dispatch(reg, req)
	body, err := BuildResponse(class, value, notes)
	if err != nil {
		// Building the envelope itself failed; this cannot recurse through
		// BuildResponse again, so fall back to a minimal literal envelope.
		return []byte(`{"class":"exception","value":null,"notifications":[]}`)
	}
	return body
}

func dispatch(reg *buffer.Registry, req *Request) (Class, *jsonvalue.Value, []*diagnostic.Diagnostic) {
	switch req.Command {
	case "open":
		b := reg.Open(req.Doc, req.Text)
		return ClassReturn, outlineValue(query.Outline(b.State())), b.State().Errors

	case "edit":
		b, ok := reg.Get(req.Doc)
		if !ok {
			return ClassFailure, jsonvalue.NewString("buffer not open: "+req.Doc), nil
		}
		b.Edit(req.Text, req.Pos)
		return ClassReturn, outlineValue(query.Outline(b.State())), b.State().Errors

	case "close":
		reg.Close(req.Doc)
		return ClassReturn, jsonvalue.NewNull(), nil

	case "outline":
		b, ok := reg.Get(req.Doc)
		if !ok {
			return ClassFailure, jsonvalue.NewString("buffer not open: "+req.Doc), nil
		}
		return ClassReturn, outlineValue(query.Outline(b.State())), b.State().Errors

	case "type-at-position":
		b, ok := reg.Get(req.Doc)
		if !ok {
			return ClassFailure, jsonvalue.NewString("buffer not open: "+req.Doc), nil
		}
		sig, found := query.TypeAtPosition(b.State(), req.Pos)
		if !found {
			return ClassReturn, jsonvalue.NewNull(), nil
		}
		v := jsonvalue.NewObject()
		v.ObjectSet("kind", jsonvalue.NewString(sig.Kind))
		v.ObjectSet("type", jsonvalue.NewString(sig.Type))
		return ClassReturn, v, nil

	case "unqualify":
		b, ok := reg.Get(req.Doc)
		if !ok {
			return ClassFailure, jsonvalue.NewString("buffer not open: "+req.Doc), nil
		}
		reps := query.Unqualify(b.Text(), req.OpenPath, req.Pos)
		return ClassReturn, replacementsValue(reps), nil

	default:
		return ClassFailure, jsonvalue.NewString("unknown command: "+req.Command), nil
	}
}

func outlineValue(entries []query.OutlineEntry) *jsonvalue.Value {
	arr := jsonvalue.NewArray()
	for _, e := range entries {
		arr.ArrayAppend(outlineEntryValue(e))
	}
	return arr
}

func outlineEntryValue(e query.OutlineEntry) *jsonvalue.Value {
	v := jsonvalue.NewObject()
	v.ObjectSet("name", jsonvalue.NewString(e.Name))
	v.ObjectSet("kind", jsonvalue.NewString(e.Kind))
	if e.Type != "" {
		v.ObjectSet("type", jsonvalue.NewString(e.Type))
	}
	v.ObjectSet("start", positionValue(e.Start))
	v.ObjectSet("end", positionValue(e.End))
	v.ObjectSet("children", outlineValue(e.Children))
	return v
}

func replacementsValue(reps []query.Replacement) *jsonvalue.Value {
	arr := jsonvalue.NewArray()
	for _, r := range reps {
		v := jsonvalue.NewObject()
		v.ObjectSet("start", positionValue(r.Start))
		v.ObjectSet("end", positionValue(r.End))
		v.ObjectSet("content", jsonvalue.NewString(r.Content))
		arr.ArrayAppend(v)
	}
	return arr
}

func positionValue(p lexer.Position) *jsonvalue.Value {
	v := jsonvalue.NewObject()
	v.ObjectSet("line", jsonvalue.NewInt64(int64(p.Line)))
	v.ObjectSet("col", jsonvalue.NewInt64(int64(p.Column)))
	return v
}
