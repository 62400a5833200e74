package diag

// Diagnostic is one reported problem. Start and End are byte offsets into the
// file (End exclusive); Line and Column are 1-based and describe Start.
type Diagnostic struct {
	Problem  Problem
	Severity Severity
	Message  string
	File     string
	Start    int
	End      int
	Line     int
	Column   int

	seq uint64
}

// IsError reports whether the diagnostic fails the compilation.
func (d Diagnostic) IsError() bool {
	return d.Severity >= Error
}

// Reporter receives diagnostics from every phase.
type Reporter interface {
	Report(d Diagnostic)
}

// Policy decides the severity of a problem. options.Options implements it.
type Policy interface {
	Severity(p Problem) Severity
}

// DefaultPolicy uses each problem's built-in severity.
type DefaultPolicy struct{}

func (DefaultPolicy) Severity(p Problem) Severity { return p.DefaultSeverity() }

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Nop discards everything.
var Nop Reporter = ReporterFunc(func(Diagnostic) {})
