package solver

import "github.com/hubris-lang/hubris/internal/errors"

// ReportError converts a solver error into the project's structured Report
// format. Codes follow the SLV### phase prefix (see internal/errors).
func ReportError(err error) *errors.Report {
	switch e := err.(type) {
	case *TypeError:
		return &errors.Report{
			Schema:  errors.Schema,
			Code:    errors.SLV001,
			Phase:   "typecheck",
			Message: e.J.String(),
		}
	case *UnsupportedError:
		return &errors.Report{
			Schema:  errors.Schema,
			Code:    errors.SLV002,
			Phase:   "typecheck",
			Message: e.Msg,
		}
	default:
		return errors.NewGeneric("typecheck", err)
	}
}
