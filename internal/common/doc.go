// Package common provides shared interfaces used throughout the dbbak application.
//
// This package contains the contracts that let components depend on each other
// without import cycles. The lock manager, for example, reports stale and
// invalid lock files through common.Logger rather than importing the logger
// package directly.
//
// # Core Components
//
// - Logger: Interface defining the four leveled logging methods (Error, Warning, Info, Verbose)
// - NopLogger: A Logger that discards everything, used when no logger is injected
//
// # Usage
//
// The Logger interface is typically injected into components that need logging capabilities:
//
//	type MyComponent struct {
//	    logger common.Logger
//	}
//
//	func NewMyComponent(logger common.Logger) *MyComponent {
//	    if logger == nil {
//	        logger = common.NopLogger{}
//	    }
//	    return &MyComponent{logger: logger}
//	}
//
// # Design Principles
//
// - Minimal Dependencies: The common package has no dependencies on other internal packages
// - Interface-Based Design: Favors interfaces over concrete implementations
package common
