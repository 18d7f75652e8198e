/*
Package quantity implements unit-tagged values whose magnitudes are symbolic
expression nodes.

A Quantity pairs a magnitude vector with a Unit. Magnitudes are stored in
coherent SI base units regardless of the unit a value was constructed with;
conversion happens once at the boundary (construction and extraction), so
arithmetic never has to track scale factors. Magnitudes are gosymbol
expressions, which makes plain numbers and free symbols uniform: a Quantity
built from floats evaluates immediately, one built over symbols stays a graph
until every symbol is substituted.

Quantities are immutable. Every operation returns a new value.
*/
package quantity
