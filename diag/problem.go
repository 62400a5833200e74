package diag

import "fmt"

// Phase is the part of the pipeline that detects a problem.
type Phase uint8

const (
	Lexical Phase = iota
	Syntax
	Type
)

func (p Phase) String() string {
	switch p {
	case Lexical:
		return "lexical"
	case Syntax:
		return "syntax"
	case Type:
		return "type"
	}
	return "unknown"
}

// Category groups problems whose severity is configurable as one option.
// The empty category marks problems with a fixed severity.
type Category string

const (
	NonExternalizedString Category = "nonExternalizedStringLiteral"
	UnusedImportCategory  Category = "unusedImport"
	RedundantTypeArgs     Category = "redundantTypeArguments"
	RawTypeReference      Category = "rawTypeReference"
)

// Categories lists every configurable category.
var Categories = []Category{
	NonExternalizedString,
	UnusedImportCategory,
	RedundantTypeArgs,
	RawTypeReference,
}

// Problem identifies one kind of diagnostic.
type Problem uint16

const (
	UnknownProblem Problem = iota

	InvalidCharacter
	UnterminatedString
	UnterminatedComment
	InvalidUnicodeEscape
	InvalidCharConstant

	ParsingErrorDeleteToken
	ParsingErrorInsertToComplete
	ParsingErrorInsertTokenAfter
	ParsingErrorUnexpectedEOF
	GenericsBelow15
	DiamondBelow17
	LambdaBelow18
	MethodReferenceBelow18
	VarIsReservedInFuture
	VarIsNotAllowedHere
	VarIsReserved
	UnderscoreIsReservedInFuture
	UnderscoreIsKeyword
	VarLocalWithoutInitializer
	VarLocalInitializedToNull
	VarLocalCannotBeArray
	VarLocalArrayInitializer
	VarLocalMultipleDeclarators

	UndefinedType
	ImportNotFound
	UnusedImport
	AmbiguousType
	NotVisibleType
	DuplicateType
	DuplicateInterfaceInstantiation
	BoundMustBeInterface
	BoundMismatch
	NonGenericType
	IncorrectArityForType
	TypeMismatch
	UndefinedMethod
	MethodNotApplicable
	UndefinedConstructor
	UndefinedName
	UndefinedField
	DuplicateLocal
	VoidMethodReturnsValue
	ShouldReturnValue
	NonDenotableInference
	InaccessibleInferredType
	CannotInferTypeArguments
	DiamondWithAnonymous
	OverrideRequired
	MissingAbstractImplementation
	InstantiateAbstract
	UnhandledException
	NotAnExceptionType
	RedundantTypeArguments
	NonExternalizedStringLiteral
	UnnecessaryNLSTag
	RawType
	IncompatibleOperands
	NotAFunctionalInterface
	IllegalCast
	IncompatibleInstanceof
	AmbiguousMethod
	UndefinedMethodReference
	MissingAbstractMethodBody

	problemCount
)

type problemInfo struct {
	name     string
	phase    Phase
	severity Severity
	category Category
	template string
}

var problems = [problemCount]problemInfo{
	UnknownProblem: {"Unknown", Type, Error, "", "%s"},

	InvalidCharacter:     {"InvalidCharacter", Lexical, Error, "", `Syntax error on token "Invalid Character", delete this token`},
	UnterminatedString:   {"UnterminatedString", Lexical, Error, "", "String literal is not properly closed by a double-quote"},
	UnterminatedComment:  {"UnterminatedComment", Lexical, Error, "", "Unexpected end of comment"},
	InvalidUnicodeEscape: {"InvalidUnicodeEscape", Lexical, Error, "", "Invalid unicode"},
	InvalidCharConstant:  {"InvalidCharConstant", Lexical, Error, "", "Invalid character constant"},

	ParsingErrorDeleteToken:      {"ParsingErrorDeleteToken", Syntax, Error, "", `Syntax error on token "%s", delete this token`},
	ParsingErrorInsertToComplete: {"ParsingErrorInsertToComplete", Syntax, Error, "", `Syntax error, insert "%s" to complete %s`},
	ParsingErrorInsertTokenAfter: {"ParsingErrorInsertTokenAfter", Syntax, Error, "", `Syntax error on token "%s", %s expected after this token`},
	ParsingErrorUnexpectedEOF:    {"ParsingErrorUnexpectedEOF", Syntax, Error, "", `Syntax error, insert "%s" to complete %s`},
	GenericsBelow15:              {"GenericsBelow15", Syntax, Error, "", "Syntax error, parameterized types are only available if source level is 1.5 or greater"},
	DiamondBelow17:               {"DiamondBelow17", Syntax, Error, "", "'<>' operator is not allowed for source level below 1.7"},
	LambdaBelow18:                {"LambdaBelow18", Syntax, Error, "", "Lambda expressions are allowed only at source level 1.8 or above"},
	MethodReferenceBelow18:       {"MethodReferenceBelow18", Syntax, Error, "", "Method references are allowed only at source level 1.8 or above"},
	VarIsReservedInFuture:        {"VarIsReservedInFuture", Syntax, Warning, "", "'var' should not be used as an type name, since it is a reserved word from source level 10 on"},
	VarIsNotAllowedHere:          {"VarIsNotAllowedHere", Syntax, Error, "", "'var' is not allowed here"},
	VarIsReserved:                {"VarIsReserved", Syntax, Error, "", "'var' is not a valid type name"},
	UnderscoreIsReservedInFuture: {"UnderscoreIsReservedInFuture", Syntax, Warning, "", "'_' should not be used as an identifier, since it is a reserved keyword from source level 1.8 on"},
	UnderscoreIsKeyword:          {"UnderscoreIsKeyword", Syntax, Error, "", "'_' is a keyword from source level 9 onwards, cannot be used as identifier"},
	VarLocalWithoutInitializer:   {"VarLocalWithoutInitializer", Type, Error, "", "Cannot use 'var' on variable without initializer"},
	VarLocalInitializedToNull:    {"VarLocalInitializedToNull", Type, Error, "", "Cannot infer type for local variable initialized to 'null'"},
	VarLocalCannotBeArray:        {"VarLocalCannotBeArray", Type, Error, "", "'var' is not allowed as an element type of an array"},
	VarLocalArrayInitializer:     {"VarLocalArrayInitializer", Type, Error, "", "Array initializer needs an explicit target-type"},
	VarLocalMultipleDeclarators:  {"VarLocalMultipleDeclarators", Type, Error, "", "'var' is not allowed in a compound declaration"},

	UndefinedType:                   {"UndefinedType", Type, Error, "", "%s cannot be resolved to a type"},
	ImportNotFound:                  {"ImportNotFound", Type, Error, "", "The import %s cannot be resolved"},
	UnusedImport:                    {"UnusedImport", Type, Warning, UnusedImportCategory, "The import %s is never used"},
	AmbiguousType:                   {"AmbiguousType", Type, Error, "", "The type %s is ambiguous"},
	NotVisibleType:                  {"NotVisibleType", Type, Error, "", "The type %s is not visible"},
	DuplicateType:                   {"DuplicateType", Type, Error, "", "The type %s is already defined"},
	DuplicateInterfaceInstantiation: {"DuplicateInterfaceInstantiation", Type, Error, "", "The interface %s cannot be implemented more than once with different arguments: %s and %s"},
	BoundMustBeInterface:            {"BoundMustBeInterface", Type, Error, "", "The type %s is not an interface; it cannot be specified as a bounded parameter"},
	BoundMismatch:                   {"BoundMismatch", Type, Error, "", "Bound mismatch: The type %s is not a valid substitute for the bounded parameter <%s> of the type %s"},
	NonGenericType:                  {"NonGenericType", Type, Error, "", "The type %s is not generic; it cannot be parameterized with arguments <%s>"},
	IncorrectArityForType:           {"IncorrectArityForType", Type, Error, "", "Incorrect number of arguments for type %s; it cannot be parameterized with arguments <%s>"},
	TypeMismatch:                    {"TypeMismatch", Type, Error, "", "Type mismatch: cannot convert from %s to %s"},
	UndefinedMethod:                 {"UndefinedMethod", Type, Error, "", "The method %s(%s) is undefined for the type %s"},
	MethodNotApplicable:             {"MethodNotApplicable", Type, Error, "", "The method %s(%s) in the type %s is not applicable for the arguments (%s)"},
	UndefinedConstructor:            {"UndefinedConstructor", Type, Error, "", "The constructor %s(%s) is undefined"},
	UndefinedName:                   {"UndefinedName", Type, Error, "", "%s cannot be resolved to a variable"},
	UndefinedField:                  {"UndefinedField", Type, Error, "", "%s cannot be resolved or is not a field"},
	DuplicateLocal:                  {"DuplicateLocal", Type, Error, "", "Duplicate local variable %s"},
	VoidMethodReturnsValue:          {"VoidMethodReturnsValue", Type, Error, "", "Void methods cannot return a value"},
	ShouldReturnValue:               {"ShouldReturnValue", Type, Error, "", "This method must return a result of type %s"},
	NonDenotableInference:           {"NonDenotableInference", Type, Error, "", "Type %s inferred for %s, is not valid for an anonymous class with '<>'"},
	InaccessibleInferredType:        {"InaccessibleInferredType", Type, Error, "", "The type %s is not visible"},
	CannotInferTypeArguments:        {"CannotInferTypeArguments", Type, Error, "", "Cannot infer type arguments for %s"},
	DiamondWithAnonymous:            {"DiamondWithAnonymous", Type, Error, "", "'<>' cannot be used with anonymous classes"},
	OverrideRequired:                {"OverrideRequired", Type, Error, "", "The method %s of type %s must override or implement a supertype method"},
	MissingAbstractImplementation:   {"MissingAbstractImplementation", Type, Error, "", "The type %s must implement the inherited abstract method %s"},
	InstantiateAbstract:             {"InstantiateAbstract", Type, Error, "", "Cannot instantiate the type %s"},
	UnhandledException:              {"UnhandledException", Type, Error, "", "Unhandled exception type %s"},
	NotAnExceptionType:              {"NotAnExceptionType", Type, Error, "", "No exception of type %s can be thrown; an exception type must be a subclass of Throwable"},
	RedundantTypeArguments:          {"RedundantTypeArguments", Type, Ignore, RedundantTypeArgs, "Redundant specification of type arguments <%s>"},
	NonExternalizedStringLiteral:    {"NonExternalizedStringLiteral", Type, Ignore, NonExternalizedString, "Non-externalized string literal; it should be followed by //$NON-NLS-<n>$"},
	UnnecessaryNLSTag:               {"UnnecessaryNLSTag", Type, Ignore, NonExternalizedString, "Unnecessary $NON-NLS$ tag"},
	RawType:                         {"RawType", Type, Ignore, RawTypeReference, "%s is a raw type. References to generic type %s should be parameterized"},
	IncompatibleOperands:            {"IncompatibleOperands", Type, Error, "", "The operator %s is undefined for the argument type(s) %s, %s"},
	NotAFunctionalInterface:         {"NotAFunctionalInterface", Type, Error, "", "The target type of this expression must be a functional interface"},
	IllegalCast:                     {"IllegalCast", Type, Error, "", "Cannot cast from %s to %s"},
	IncompatibleInstanceof:          {"IncompatibleInstanceof", Type, Error, "", "Incompatible conditional operand types %s and %s"},
	AmbiguousMethod:                 {"AmbiguousMethod", Type, Error, "", "The method %s(%s) is ambiguous for the type %s"},
	UndefinedMethodReference:        {"UndefinedMethodReference", Type, Error, "", "The type %s does not define %s(%s) that is applicable here"},
	MissingAbstractMethodBody:       {"MissingAbstractMethodBody", Type, Error, "", "This method requires a body instead of a semicolon"},
}

func (p Problem) info() problemInfo {
	if p >= problemCount {
		return problems[UnknownProblem]
	}
	return problems[p]
}

func (p Problem) String() string { return p.info().name }

// Phase reports the pipeline stage that detects p.
func (p Problem) Phase() Phase { return p.info().phase }

// DefaultSeverity is the severity used when no option overrides it.
func (p Problem) DefaultSeverity() Severity { return p.info().severity }

// Category is the option group controlling p, or "" when fixed.
func (p Problem) Category() Category { return p.info().category }

// Message formats the problem's template with args.
func (p Problem) Message(args ...any) string {
	tmpl := p.info().template
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
