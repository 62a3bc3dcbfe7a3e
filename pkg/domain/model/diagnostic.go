// 指示: miu200521358
package model

// Diagnostic is one recoverable anomaly reported alongside a result.
// The core never logs; anomalies travel as values like this one.
type Diagnostic struct {
	Code   string
	Detail string
}

// NewDiagnostic returns a diagnostic with a stable code and free-form detail.
func NewDiagnostic(code string, detail string) Diagnostic {
	return Diagnostic{
		Code:   code,
		Detail: detail,
	}
}

// HasDiagnosticCode reports whether any diagnostic carries the given code.
func HasDiagnosticCode(diagnostics []Diagnostic, code string) bool {
	for _, diagnostic := range diagnostics {
		if diagnostic.Code == code {
			return true
		}
	}
	return false
}
