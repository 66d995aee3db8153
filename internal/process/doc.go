// Package process manages process groups for external render engines so a
// canceled render does not leave orphaned child processes behind.
package process
