// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for jarmin.
//
// The root command minifies a program JAR with R8. When --mainclass is
// given the input is first repackaged with a manifest naming that class.
// The inspect and keep subcommands expose the archive reader and the keep
// rule generator on their own.
package cmd
