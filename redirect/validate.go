package redirect

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skekre98/iliasjump/catalog"
)

// Validator turns raw Params into a SearchRequest, collecting every problem
// instead of stopping at the first. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"param", "json"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return &Validator{v: v}
}

// Validate checks db, search and redirectHome independently. Either the
// returned Issues is empty and the SearchRequest is complete, or the
// SearchRequest is the zero value.
func (v *Validator) Validate(p Params) (SearchRequest, Issues) {
	paramIssues := map[string]Issue{}
	if err := v.v.Struct(p); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, fe := range ves {
				paramIssues[fe.Field()] = paramIssue(fe)
			}
		}
	}

	var (
		req    SearchRequest
		issues Issues
	)

	if iss, bad := paramIssues[ParamDB]; bad {
		issues = append(issues, iss)
	} else {
		cat, catIssues := v.decodeCatalog(*p.DB)
		issues = append(issues, catIssues...)
		req.Catalog = cat
	}

	if iss, bad := paramIssues[ParamSearch]; bad {
		issues = append(issues, iss)
	} else {
		req.SearchTerm = *p.Search
	}

	if iss, bad := paramIssues[ParamRedirectHome]; bad {
		issues = append(issues, iss)
	} else {
		req.FallbackOnMiss = *p.RedirectHome == "true"
	}

	if len(issues) > 0 {
		return SearchRequest{}, issues
	}
	return req, nil
}

func paramIssue(fe validator.FieldError) Issue {
	field := fe.Field()
	path := []any{field}
	switch fe.Tag() {
	case "required":
		return Issue{Code: CodeInvalidType, Path: path, Message: fmt.Sprintf("Query parameter '%s' has to be provided", field)}
	case "min":
		return Issue{Code: CodeTooSmall, Path: path, Message: fmt.Sprintf("Query parameter '%s' can not be empty", field)}
	case "oneof":
		opts := strings.Fields(fe.Param())
		for i, o := range opts {
			opts[i] = "'" + o + "'"
		}
		return Issue{Code: CodeCustom, Path: path, Message: fmt.Sprintf("Parameter '%s' has to be %s", field, strings.Join(opts, " or "))}
	default:
		return Issue{Code: CodeCustom, Path: path, Message: fe.Error()}
	}
}

func (v *Validator) decodeCatalog(raw string) (catalog.Catalog, Issues) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc any
	err := dec.Decode(&doc)
	if err == nil {
		// anything after the first value makes the document invalid
		if _, tokErr := dec.Token(); tokErr != io.EOF {
			err = errors.New("trailing data")
		}
	}
	if err != nil {
		return nil, Issues{{Code: CodeCustom, Path: []any{ParamDB}, Message: "Parameter 'db' is invalid JSON"}}
	}

	elems, ok := doc.([]any)
	if !ok {
		return nil, Issues{{Code: CodeInvalidType, Path: []any{ParamDB}, Message: "URL encoded JSON object array has to be provided"}}
	}

	cat := make(catalog.Catalog, 0, len(elems))
	var issues Issues
	for i, el := range elems {
		mod, modIssues := v.decodeModule(el, []any{ParamDB, i})
		issues = append(issues, modIssues...)
		cat = append(cat, mod)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return cat, nil
}

// decodeModule checks one catalog element. Type problems are detected while
// walking the decoded JSON; value rules (non-negative id, non-empty strings)
// come from the validate tags on catalog.Module. Issues are ordered id,
// name, abbr, then abbr elements by index.
func (v *Validator) decodeModule(el any, path []any) (catalog.Module, Issues) {
	obj, ok := el.(map[string]any)
	if !ok {
		return catalog.Module{}, Issues{typeIssue(path, "object", el)}
	}

	var mod catalog.Module
	byKey := map[string]Issues{}
	// keys whose type was wrong; value rules are not applied to them
	typeBroken := map[string]bool{}

	if raw, present := obj["id"]; !present {
		byKey["id"] = Issues{requiredIssue(at(path, "id"))}
		typeBroken["id"] = true
	} else {
		id, iss, broken := decodeID(raw, at(path, "id"))
		mod.ID = id
		if iss != nil {
			byKey["id"] = Issues{*iss}
		}
		typeBroken["id"] = broken
	}

	switch raw, present := obj["name"]; {
	case !present:
		byKey["name"] = Issues{requiredIssue(at(path, "name"))}
		typeBroken["name"] = true
	default:
		s, isString := raw.(string)
		if !isString {
			byKey["name"] = Issues{typeIssue(at(path, "name"), "string", raw)}
			typeBroken["name"] = true
		}
		mod.Name = s
	}

	tokens := 0
	if raw, present := obj["abbr"]; present {
		list, isList := raw.([]any)
		if !isList {
			byKey["abbr"] = Issues{typeIssue(at(path, "abbr"), "array", raw)}
			typeBroken["abbr"] = true
		} else {
			tokens = len(list)
			mod.Abbreviations = make([]string, len(list))
			for j, tok := range list {
				s, isString := tok.(string)
				if !isString {
					key := fmt.Sprintf("abbr[%d]", j)
					byKey[key] = Issues{typeIssue(at(path, "abbr", j), "string", tok)}
					typeBroken[key] = true
					continue
				}
				mod.Abbreviations[j] = s
			}
		}
	}

	if err := v.v.Struct(mod); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) {
			for _, fe := range ves {
				key := namespaceKey(fe.Namespace())
				if typeBroken[key] {
					continue
				}
				byKey[key] = append(byKey[key], valueIssue(fe, at(path, keyPath(key)...)))
			}
		}
	}

	var issues Issues
	for _, key := range []string{"id", "name", "abbr"} {
		issues = append(issues, byKey[key]...)
	}
	for j := 0; j < tokens; j++ {
		issues = append(issues, byKey[fmt.Sprintf("abbr[%d]", j)]...)
	}
	return mod, issues
}

// decodeID converts a JSON number into an id. broken reports that the value
// is not a number at all, so value rules should not be checked. Negative
// values too large for int64 yield -1 so the non-negative rule still
// reports them. Positive integers above math.MaxInt64 cannot be stored and
// are rejected.
func decodeID(raw any, path []any) (id int64, issue *Issue, broken bool) {
	num, ok := raw.(json.Number)
	if !ok {
		iss := typeIssue(path, "number", raw)
		return 0, &iss, true
	}
	if n, err := strconv.ParseInt(num.String(), 10, 64); err == nil {
		return n, nil, false
	}

	// 1e2, 3.0, 0.5, 1e400, 99999999999999999999 ...
	f, err := strconv.ParseFloat(num.String(), 64)
	if f < 0 || strings.HasPrefix(num.String(), "-") {
		id = -1
	}
	if err == nil && f == math.Trunc(f) {
		if f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil, false
		}
		if id < 0 {
			return id, nil, false
		}
		return 0, &Issue{Code: CodeCustom, Path: path, Message: fmt.Sprintf("Number must fit a 64-bit id (at most %d)", int64(math.MaxInt64))}, false
	}
	return id, &Issue{Code: CodeInvalidType, Path: path, Message: "Expected integer, received float"}, false
}

func valueIssue(fe validator.FieldError, path []any) Issue {
	if fe.Tag() == "min" {
		switch fe.Kind() {
		case reflect.String:
			return Issue{Code: CodeTooSmall, Path: path, Message: fmt.Sprintf("String must contain at least %s character(s)", fe.Param())}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Issue{Code: CodeTooSmall, Path: path, Message: fmt.Sprintf("Number must be greater than or equal to %s", fe.Param())}
		}
	}
	return Issue{Code: CodeCustom, Path: path, Message: fe.Error()}
}

func requiredIssue(path []any) Issue {
	return Issue{Code: CodeInvalidType, Path: path, Message: "Required"}
}

func typeIssue(path []any, want string, got any) Issue {
	return Issue{Code: CodeInvalidType, Path: path, Message: fmt.Sprintf("Expected %s, received %s", want, jsonType(got))}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// at returns a copy of path extended by elems.
func at(path []any, elems ...any) []any {
	out := make([]any, 0, len(path)+len(elems))
	return append(append(out, path...), elems...)
}

// namespaceKey strips the struct name from a validator namespace:
// "Module.abbr[1]" becomes "abbr[1]".
func namespaceKey(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// keyPath splits "abbr[1]" into ["abbr", 1].
func keyPath(key string) []any {
	name, rest, ok := strings.Cut(key, "[")
	if !ok {
		return []any{name}
	}
	idx, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil {
		return []any{key}
	}
	return []any{name, idx}
}
