// Package substitution provides the built-in launch.Substitution variants:
// literal text, configuration lookups, environment lookups, and HCL-backed
// expressions. All of them are pure functions of the launch.Context except
// Expression, which evaluates a user-supplied expression in a restricted
// namespace and is documented as a trust boundary.
package substitution
