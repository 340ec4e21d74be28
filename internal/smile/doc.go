// Package smile wraps the openSMILE SMILExtract command line tool.
//
// Runner validates the executable and feature set configuration up front,
// then invokes SMILExtract once per audio file with a fixed argument set,
// capturing stdout and stderr so failures can be reported with the tool's
// own diagnostics. Non-zero exits surface as *ToolError wrapped with
// services.ErrExternalTool; a missing binary or config surfaces as
// services.ErrConfiguration.
package smile
