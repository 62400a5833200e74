// Package diag defines the problems a compilation can report, collects them
// into an ordered Bag and renders them in the batch compiler log format:
//
//	----------
//	1. ERROR in X.java (at line 3)
//		String s5 = "test3";
//		            ^^^^^^^
//	Non-externalized string literal; it should be followed by //$NON-NLS-<n>$
//	----------
//
// Detection never depends on severity. A Policy maps each Problem to the
// configured severity when it is reported, and problems mapped to Ignore are
// dropped. Collection never stops at the first error.
package diag
