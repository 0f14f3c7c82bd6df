package dispatch

import (
	"github.com/taskdeck/taskdeck/pkg/schema"
)

// validateCall runs the two-phase validation pipeline for one request.
//
// Phase order is deliberate:
//  1. the action must exist and be one of the tool's enumerated values,
//     otherwise neither phase can say anything meaningful;
//  2. structural: every present field must match its declared type, with
//     all offenders reported at once;
//  3. semantic: the action's required fields must be present and non-empty.
//
// Structural failures are reported before semantic ones so a malformed
// field is never hidden behind an unrelated "missing field" message.
func validateCall(def ToolDefinition, args map[string]any) (action string, err *Error) {
	raw, ok := args["action"].(string)
	if !ok || raw == "" {
		return "", errUnknownAction(def.Name, "", def.Actions.Members())
	}
	if def.Actions.Validate(raw) != nil {
		return "", errUnknownAction(def.Name, raw, def.Actions.Members())
	}

	if verr := schema.Validate(def.Fields, args); verr != nil {
		return "", errValidation(verr)
	}

	required := requiredFields(def.Name, raw)
	if merr := schema.RequireFields(args, required...); merr != nil {
		return "", errMissingFields(raw, schema.Fields(merr))
	}

	return raw, nil
}
