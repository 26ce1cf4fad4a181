// Package naming builds the names baystack gives to Heat resources.
//
// Stacks are named {bay}-{8char}. The random suffix keeps names unique when
// a bay is re-created with the same name before the old stack is gone.
package naming
