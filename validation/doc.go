// Package validation checks request input and renders failures as
// *errors.AppError with per-field details.
//
// Struct tags cover most request bodies. Besides the built-in
// go-playground tags, the validator registers:
//
//	streamkey   non-empty, at most MaxStreamKeyLength bytes, no control characters
//	singleline  no CR or LF
//	fieldname   non-empty, no colon, no CR or LF
//	glob        a valid path.Match pattern
//
// Cross-field rules that tags express poorly go through the fluent
// Validator:
//
//	v := validation.New()
//	v.Custom(req.Data != nil || req.Field != "", "data", "data or field is required")
//	return v.Err()
package validation
