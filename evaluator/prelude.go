// ==============================================================================================
// FILE: evaluator/prelude.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Embeds the bundled prelude library source, the way the original interpreter's
//          add_library_source used include_str! to bundle library.sch into the binary.
// ==============================================================================================

package evaluator

import _ "embed"

//go:embed prelude.scm
var preludeSource string

// PreludeSource returns the bundled prelude's text, for package interp to
// register and evaluate ahead of the first user-registered source.
func PreludeSource() string { return preludeSource }

// PreludeName is the display name the prelude's source is registered under.
const PreludeName = "prelude.scm"
