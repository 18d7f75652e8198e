/*
Package contrib ships the built-in contributions and state definitions: the
(T, V, n) and (T, p, n) coordinate systems, an ideal-gas baseline, the
square-root-weighted mixing rule, and a van der Waals residual with domain
bounds, relaxation, and a (T, V, n) initializer.

Register wires all of them into a factory.
*/
package contrib
